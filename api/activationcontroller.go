package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketflow/orchestrator"
	"marketflow/types"
)

// RegisterActivationRoutes registers the activation pipeline endpoints.
func RegisterActivationRoutes(r *gin.Engine, engine *orchestrator.Engine) {
	c := &activationController{engine: engine}
	r.POST("/activate", c.handleActivate)
	r.GET("/activation-log/:entry_id", c.handleActivationLog)
}

type activationController struct {
	engine *orchestrator.Engine
}

// handleActivate runs one activation. Status codes: 200 for success and for
// handled upstream failures, 400 for article validation failures (the result
// is still returned), 422 for a malformed request body, 429 when rate
// limited.
func (ac *activationController) handleActivate(c *gin.Context) {
	var req types.ActivationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	result, err := ac.engine.Activate(c.Request.Context(), c.ClientIP(), &req)
	if errors.Is(err, orchestrator.ErrRateLimited) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please try again later."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if result.ValidationFailed {
		status = http.StatusBadRequest
	}
	c.JSON(status, result)
}

// handleActivationLog returns the most recent audit record for an entry.
func (ac *activationController) handleActivationLog(c *gin.Context) {
	entryID := c.Param("entry_id")

	record, err := ac.engine.ReadLatestActivationLog(entryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read activation log: " + err.Error()})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no activation log found for entry %s", entryID)})
		return
	}
	c.JSON(http.StatusOK, record)
}
