package middleware

import (
	"errors"
	"log"
	"net/http"

	"FlashSaleSwiggy/utils"

	"github.com/gin-gonic/gin"
)

// ErrorHandlerMiddleware turns the last error attached to the context into a JSON response.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var customErr *utils.CustomError
		if errors.As(err, &customErr) {
			utils.ErrorResponse(c, customErr.StatusCode, customErr.Message)
			return
		}

		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal Server Error")
	}
}
