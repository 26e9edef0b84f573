package controllers

import (
	"net/http"
	"strconv"

	"FlashSaleSwiggy/services"
	"FlashSaleSwiggy/utils"

	"github.com/gin-gonic/gin"
)

const maxReportLimit = 100

type ReportController struct {
	ReportStore services.ReportStore
}

func NewReportController(store services.ReportStore) *ReportController {
	return &ReportController{ReportStore: store}
}

func (r *ReportController) ListReports(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxReportLimit {
			utils.ErrorResponse(c, http.StatusBadRequest, "limit must be an integer between 1 and 100")
			return
		}
		limit = n
	}

	reports, err := r.ReportStore.List(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reports fetched successfully", reports)
}

func (r *ReportController) GetReport(c *gin.Context) {
	report, err := r.ReportStore.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Report fetched successfully", report)
}
