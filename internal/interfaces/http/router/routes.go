package router

import (
	"github.com/Honest-88/pos-sample/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the HTTP handlers exposed under the versioned API
type Handlers struct {
	Auth     *handler.AuthHandler
	Category *handler.CategoryHandler
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
	Sales    *handler.SalesHandler
	Receipt  *handler.ReceiptHandler
	Report   *handler.ReportHandler
	System   *handler.SystemHandler
}

// RouteMiddleware holds middleware attached to individual routes.
// Nil entries are skipped.
type RouteMiddleware struct {
	// Login guards POST /auth/login, typically a rate limiter
	Login gin.HandlerFunc
	// RecordSale guards POST /sales, typically the idempotency check
	RecordSale gin.HandlerFunc
}

// RegisterAPI registers every domain group of the POS API on r
func RegisterAPI(r *Router, h Handlers, mw RouteMiddleware) *Router {
	return r.
		Register(authRoutes(h, mw)).
		Register(catalogRoutes(h)).
		Register(partnerRoutes(h)).
		Register(salesRoutes(h, mw)).
		Register(reportRoutes(h)).
		Register(systemRoutes(h))
}

func authRoutes(h Handlers, mw RouteMiddleware) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	g.POST("/login", chain(mw.Login, h.Auth.Login)...)
	g.POST("/logout", h.Auth.Logout)
	g.GET("/me", h.Auth.GetCurrentUser)
	return g
}

func catalogRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("catalog", "/catalog")

	categories := g.Group("categories", "/categories")
	categories.GET("", h.Category.List).
		POST("", h.Category.Create).
		GET("/active", h.Category.ListActive).
		GET("/:id", h.Category.GetByID).
		PUT("/:id", h.Category.Update).
		DELETE("/:id", h.Category.Delete)

	products := g.Group("products", "/products")
	products.GET("", h.Product.List).
		POST("", h.Product.Create).
		GET("/search", h.Product.Search).
		GET("/:id", h.Product.GetByID).
		PUT("/:id", h.Product.Update).
		DELETE("/:id", h.Product.Delete)

	return g
}

func partnerRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("partner", "/partner")
	customers := g.Group("customers", "/customers")
	customers.GET("", h.Customer.List).
		POST("", h.Customer.Create).
		GET("/:id", h.Customer.GetByID).
		PUT("/:id", h.Customer.Update).
		DELETE("/:id", h.Customer.Delete)
	return g
}

func salesRoutes(h Handlers, mw RouteMiddleware) *DomainGroup {
	g := NewDomainGroup("sales", "/sales")
	g.POST("", chain(mw.RecordSale, h.Sales.RecordSale)...).
		GET("", h.Sales.List).
		GET("/:id", h.Sales.GetByID).
		DELETE("/:id", h.Sales.Delete).
		GET("/:id/receipt", h.Receipt.HTML).
		GET("/:id/receipt.pdf", h.Receipt.PDF)
	return g
}

func reportRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("reports", "/reports")
	g.GET("/profit", h.Report.GetProfit).
		GET("/profit/summary", h.Report.GetProfitSummary).
		GET("/grand-totals", h.Report.GetGrandTotals).
		GET("/sales/summary", h.Report.GetSalesSummary)
	return g
}

func systemRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("system", "/system")
	g.GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping)
	return g
}

func chain(mw gin.HandlerFunc, final gin.HandlerFunc) []gin.HandlerFunc {
	if mw == nil {
		return []gin.HandlerFunc{final}
	}
	return []gin.HandlerFunc{mw, final}
}
