package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/equilab/cavale/pkg/ai"
	"github.com/equilab/cavale/pkg/graph"
	"github.com/equilab/cavale/pkg/news"
	"github.com/equilab/cavale/pkg/pipeline"
)

// App holds the long-lived services every handler can reach. It is
// built once at startup and shared across requests.
type App struct {
	Pipeline   *pipeline.Pipeline
	Graph      *graph.Client
	News       *news.Aggregator
	Summarizer *news.Summarizer
	AiClient   ai.GraphAIClient
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
