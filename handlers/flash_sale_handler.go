package handlers

import (
	"FlashSaleSwiggy/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterFlashSaleRoutes mounts the upload endpoints on the root router, where the bundled UI posts its forms.
func RegisterFlashSaleRoutes(router gin.IRoutes, flashSaleController *controllers.FlashSaleController) {
	router.POST("/upload", flashSaleController.Upload)
	router.POST("/bulk-upload", flashSaleController.BulkUpload)
}
