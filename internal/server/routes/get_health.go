package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/equilab/cavale/internal/server/middleware"
)

type HealthResponse struct {
	Status string `json:"status"`
	Graph  string `json:"graph"`
}

// GetHealthHandler reports readiness, including graph store
// reachability.
func GetHealthHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)

	graphStatus := "ok"
	status := http.StatusOK
	if err := cc.App.Graph.Ping(c.Request().Context()); err != nil {
		graphStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, HealthResponse{Status: "ok", Graph: graphStatus})
}
