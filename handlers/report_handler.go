package handlers

import (
	"FlashSaleSwiggy/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterReportRoutes(router *gin.RouterGroup, reportController *controllers.ReportController) {
	reportGroup := router.Group("/reports")
	{
		reportGroup.GET("", reportController.ListReports)
		reportGroup.GET("/", reportController.ListReports)

		reportGroup.GET("/:id", reportController.GetReport)
	}
}
