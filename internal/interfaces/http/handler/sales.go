package handler

import (
	salesapp "github.com/Honest-88/pos-sample/internal/application/sales"
	"github.com/gin-gonic/gin"
)

// SalesHandler handles sale recording and history endpoints
type SalesHandler struct {
	BaseHandler
	settlementService *salesapp.SettlementService
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(settlementService *salesapp.SettlementService) *SalesHandler {
	return &SalesHandler{
		settlementService: settlementService,
	}
}

// RecordSale godoc
// @Summary      Record a sale
// @Description  Settle a sale atomically: stock is decremented, totals and profit are computed and the sale is stored.
// @Description  Send an Idempotency-Key header to make retries safe.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client-generated key, unique per submission"
// @Param        request body salesapp.RecordSaleRequest true "Sale submission"
// @Success      201 {object} dto.Response{data=salesapp.SaleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales [post]
func (h *SalesHandler) RecordSale(c *gin.Context) {
	var req salesapp.RecordSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sale, err := h.settlementService.RecordSale(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// GetByID godoc
// @Summary      Get sale by ID
// @Description  A sale with its detail lines
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {object} dto.Response{data=salesapp.SaleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id} [get]
func (h *SalesHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	sale, err := h.settlementService.GetSale(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// List godoc
// @Summary      List sales
// @Description  Sales history, most recent first
// @Tags         sales
// @Produce      json
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        from query string false "First day, inclusive" format(date)
// @Param        to query string false "Last day, inclusive" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(date)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=[]salesapp.SaleResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter salesapp.SaleListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	var ok bool
	if filter.CustomerID, ok = h.OptionalUUIDQuery(c, "customer_id"); !ok {
		return
	}

	list, total, err := h.settlementService.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, list, total, page, pageSize)
}

// Delete godoc
// @Summary      Delete a sale
// @Description  Removes the sale and its details. Stock is not restored.
// @Tags         sales
// @Param        id path string true "Sale ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id} [delete]
func (h *SalesHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.settlementService.DeleteSale(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
