package api

import (
	"github.com/gin-gonic/gin"

	"marketflow/orchestrator"
)

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(engine *orchestrator.Engine) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	// Register resource routers
	RegisterActivationRoutes(r, engine)
	RegisterPlatformRoutes(r)
	RegisterHealthRoutes(r)
	return r
}
