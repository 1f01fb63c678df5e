package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/equilab/cavale/internal/server/middleware"
	"github.com/equilab/cavale/pkg/news"
)

type NewsResponse struct {
	Articles []news.Article `json:"articles"`
}

type NewsSummaryResponse struct {
	Summary string `json:"summary"`
}

type NewsEventsResponse struct {
	Events []news.UpcomingEvent `json:"events"`
}

// GetNewsHandler returns the current aggregated article list.
func GetNewsHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)

	articles := cc.App.News.Fetch(c.Request().Context())
	return c.JSON(http.StatusOK, NewsResponse{Articles: articles})
}

// GetNewsSummaryHandler returns a French digest of the recent articles.
func GetNewsSummaryHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)
	ctx := c.Request().Context()

	articles := cc.App.News.Fetch(ctx)
	summary, err := cc.App.Summarizer.WeeklySummary(ctx, articles)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, AskErrorResponse{Message: unavailableMessage})
	}
	return c.JSON(http.StatusOK, NewsSummaryResponse{Summary: summary})
}

// GetNewsEventsHandler returns upcoming competitions mentioned in the
// news.
func GetNewsEventsHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)
	ctx := c.Request().Context()

	articles := cc.App.News.Fetch(ctx)
	events, err := cc.App.Summarizer.UpcomingEvents(ctx, articles)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, AskErrorResponse{Message: unavailableMessage})
	}
	if events == nil {
		events = []news.UpcomingEvent{}
	}
	return c.JSON(http.StatusOK, NewsEventsResponse{Events: events})
}
