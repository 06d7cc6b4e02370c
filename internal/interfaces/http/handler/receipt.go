package handler

import (
	"net/http"

	printingapp "github.com/Honest-88/pos-sample/internal/application/printing"
	"github.com/gin-gonic/gin"
)

// ReceiptHandler serves printable receipts for recorded sales
type ReceiptHandler struct {
	BaseHandler
	receiptService *printingapp.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *printingapp.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
	}
}

// HTML godoc
// @Summary      Sale receipt (HTML)
// @Description  Thermal-printer receipt for a sale, rendered as HTML
// @Tags         receipts
// @Produce      html
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {string} string "Receipt HTML"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id}/receipt [get]
func (h *ReceiptHandler) HTML(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	html, err := h.receiptService.Render(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// PDF godoc
// @Summary      Sale receipt (PDF)
// @Description  The receipt rendered to PDF by headless Chrome
// @Tags         receipts
// @Produce      application/pdf
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {file} binary "Receipt PDF"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id}/receipt.pdf [get]
func (h *ReceiptHandler) PDF(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	pdf, err := h.receiptService.RenderPDF(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", "inline; filename=\"receipt-"+id.String()+".pdf\"")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
