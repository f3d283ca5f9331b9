// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	pool    WorkerPool
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, pool WorkerPool) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		pool:    pool,
	}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	resp := map[string]interface{}{
		"status":  "ok",
		"version": h.version,
	}
	if h.pool != nil {
		resp["workers"] = map[string]int{
			"capacity":  h.pool.Capacity(),
			"in_flight": h.pool.InFlight(),
		}
	}
	return c.JSON(http.StatusOK, resp)
}
