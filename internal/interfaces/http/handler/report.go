package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	assetsapp "github.com/m77ag/backend/internal/application/assets"
	reportapp "github.com/m77ag/backend/internal/application/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves the banker's overview, receivables aging and the
// net-worth rollup
type ReportHandler struct {
	BaseHandler
	overview *reportapp.OverviewService
	netWorth *assetsapp.NetWorthService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(overview *reportapp.OverviewService, netWorth *assetsapp.NetWorthService) *ReportHandler {
	return &ReportHandler{overview: overview, netWorth: netWorth}
}

// BankerOverview godoc
// @Summary      Balance sheet, cash flow, debt schedule and collateral for a year
// @Tags         reports
// @Param        year query int false "Report year, defaults to the current year"
// @Router       /reports/banker-overview [get]
func (h *ReportHandler) BankerOverview(c *gin.Context) {
	year, ok := h.queryYear(c)
	if !ok {
		return
	}

	overview, err := h.overview.BankerOverview(c.Request.Context(), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, overview)
}

// ExportBankerOverview godoc
// @Summary      Download the banker's overview as a workbook
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        year query int false "Report year, defaults to the current year"
// @Router       /reports/banker-overview/export [get]
func (h *ReportHandler) ExportBankerOverview(c *gin.Context) {
	year, ok := h.queryYear(c)
	if !ok {
		return
	}

	// buffered so a failed export still gets a JSON error
	var buf bytes.Buffer
	if err := h.overview.ExportOverview(c.Request.Context(), year, &buf); err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="banker-overview-%d.xlsx"`, year))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ARAging godoc
// @Summary      Outstanding receivables by age bucket
// @Tags         reports
// @Router       /reports/ar-aging [get]
func (h *ReportHandler) ARAging(c *gin.Context) {
	aging, err := h.overview.ARAging(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, aging)
}

// NetWorth godoc
// @Summary      Assets and liabilities per legal entity
// @Tags         reports
// @Router       /reports/net-worth [get]
func (h *ReportHandler) NetWorth(c *gin.Context) {
	summary, err := h.netWorth.Summarize(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
