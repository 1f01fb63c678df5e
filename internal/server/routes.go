package server

import (
	"github.com/labstack/echo/v4"

	"github.com/equilab/cavale/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Liveness probe, no store round trip
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	apiRoutes.POST("/ask", routes.AskHandler)

	apiRoutes.GET("/news", routes.GetNewsHandler)
	apiRoutes.GET("/news/summary", routes.GetNewsSummaryHandler)
	apiRoutes.GET("/news/events", routes.GetNewsEventsHandler)

	apiRoutes.GET("/health", routes.GetHealthHandler)
}
