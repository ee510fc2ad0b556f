package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketflow/marketing"
)

// RegisterPlatformRoutes registers marketing platform introspection endpoints.
func RegisterPlatformRoutes(r *gin.Engine) {
	r.GET("/platform", handlePlatformInfo)
}

func handlePlatformInfo(c *gin.Context) {
	c.JSON(http.StatusOK, marketing.GetPlatformInfo())
}
