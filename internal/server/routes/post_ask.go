package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/equilab/cavale/internal/server/middleware"
	"github.com/equilab/cavale/pkg/pipeline"
)

// Shown instead of raw failure detail; the log keeps the detail.
const (
	rephraseMessage    = "Je n'ai pas réussi à interpréter votre question. Pouvez-vous la reformuler ?"
	unavailableMessage = "Le service est temporairement indisponible. Veuillez réessayer dans quelques instants."
)

type AskRequest struct {
	Question string `json:"question" validate:"required"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

type AskErrorResponse struct {
	Message string `json:"message"`
}

// AskHandler answers one natural-language question about the graph.
func AskHandler(c echo.Context) error {
	cc := c.(*middleware.AppContext)

	var req AskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, AskErrorResponse{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, AskErrorResponse{Message: "question is required"})
	}

	result := cc.App.Pipeline.Ask(c.Request().Context(), req.Question)

	switch result.Outcome {
	case pipeline.OutcomeSuccess:
		return c.JSON(http.StatusOK, AskResponse{Answer: result.Answer})
	case pipeline.OutcomeQuerySyntax:
		return c.JSON(http.StatusUnprocessableEntity, AskErrorResponse{Message: rephraseMessage})
	default:
		return c.JSON(http.StatusServiceUnavailable, AskErrorResponse{Message: unavailableMessage})
	}
}
