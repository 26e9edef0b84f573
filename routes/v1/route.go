package route

import (
	"FlashSaleSwiggy/config/environment"
	"FlashSaleSwiggy/controllers"
	"FlashSaleSwiggy/handlers"
	"FlashSaleSwiggy/services"

	"github.com/gin-gonic/gin"
)

// Dependencies holds the shared services the HTTP layer is built from.
type Dependencies struct {
	Config      *environment.Config
	FlashSale   *services.FlashSaleService
	ReportStore services.ReportStore
}

// RegisterRoutes initializes all routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	flashSaleHandler := controllers.NewFlashSaleController(deps.FlashSale, deps.ReportStore, deps.Config)
	reportHandler := controllers.NewReportController(deps.ReportStore)

	handlers.RegisterFlashSaleRoutes(router, flashSaleHandler)

	v1Routes := router.Group("/v1")
	{
		handlers.RegisterFlashSaleRoutes(v1Routes, flashSaleHandler)
		handlers.RegisterReportRoutes(v1Routes, reportHandler)
	}
}
