package handler

import (
	"net/http"
	"time"

	reportapp "github.com/Honest-88/pos-sample/internal/application/report"
	"github.com/Honest-88/pos-sample/internal/domain/report"
	"github.com/Honest-88/pos-sample/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// ReportHandler handles report-related API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// GetProfit godoc
// @Summary      Profit for a period
// @Description  Sum of sale profit over the DAY, WEEK (Monday to Sunday), MONTH or ALL window containing the date
// @Tags         reports
// @Produce      json
// @Param        period query string true "Period" Enums(DAY, WEEK, MONTH, ALL)
// @Param        date query string false "Reference date, defaults to today" format(date)
// @Success      200 {object} dto.Response{data=reportapp.ProfitResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/profit [get]
func (h *ReportHandler) GetProfit(c *gin.Context) {
	period, err := report.ParsePeriod(c.Query("period"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	ref, ok := h.referenceDate(c)
	if !ok {
		return
	}

	profit, err := h.reportService.ProfitFor(c.Request.Context(), period, ref)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profit)
}

// GetProfitSummary godoc
// @Summary      Profit summary
// @Description  Profit for the day, week, month and all time around the date
// @Tags         reports
// @Produce      json
// @Param        date query string false "Reference date, defaults to today" format(date)
// @Success      200 {object} dto.Response{data=reportapp.ProfitSummaryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/profit/summary [get]
func (h *ReportHandler) GetProfitSummary(c *gin.Context) {
	ref, ok := h.referenceDate(c)
	if !ok {
		return
	}

	summary, err := h.reportService.ProfitSummary(c.Request.Context(), ref)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// GetGrandTotals godoc
// @Summary      Stock grand totals
// @Description  Total on-hand quantity and stock value across all products
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.GrandTotalsResponse}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/grand-totals [get]
func (h *ReportHandler) GetGrandTotals(c *gin.Context) {
	totals, err := h.reportService.GrandTotals(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, totals)
}

// GetSalesSummary godoc
// @Summary      Sales summary
// @Description  Number of sales, revenue and profit between two dates, both inclusive
// @Tags         reports
// @Produce      json
// @Param        from query string false "First day" format(date)
// @Param        to query string false "Last day" format(date)
// @Success      200 {object} dto.Response{data=reportapp.SalesSummaryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/sales/summary [get]
func (h *ReportHandler) GetSalesSummary(c *gin.Context) {
	var filter reportapp.SalesSummaryFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	summary, err := h.reportService.SalesSummary(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// referenceDate reads the optional date query parameter as a calendar day
// in the report location. A missing date yields the zero time.
func (h *ReportHandler) referenceDate(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Time{}, true
	}
	ref, err := time.ParseInLocation(dateLayout, raw, h.reportService.Location())
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidationFormat, "date must be formatted as YYYY-MM-DD")
		return time.Time{}, false
	}
	return ref, true
}
