package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	mid "github.com/equilab/cavale/internal/server/middleware"
	"github.com/equilab/cavale/internal/util"
	"github.com/equilab/cavale/pkg/ai"
	oai "github.com/equilab/cavale/pkg/ai/ollama"
	gai "github.com/equilab/cavale/pkg/ai/openai"
	"github.com/equilab/cavale/pkg/answer"
	"github.com/equilab/cavale/pkg/graph"
	"github.com/equilab/cavale/pkg/logger"
	"github.com/equilab/cavale/pkg/news"
	"github.com/equilab/cavale/pkg/pipeline"
	"github.com/equilab/cavale/pkg/query"
	"github.com/equilab/cavale/pkg/schema"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	graphClient, err := graph.NewClient(ctx, graph.NewClientParams{
		URI:          util.GetEnvString("NEO4J_URI", "bolt://localhost:7687"),
		User:         util.GetEnvString("NEO4J_USER", "neo4j"),
		Password:     util.GetEnv("NEO4J_PASSWORD"),
		Database:     util.GetEnvString("NEO4J_DATABASE", "neo4j"),
		QueryTimeout: time.Duration(util.GetEnvNumeric("QUERY_TIMEOUT_SEC", 30)) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to connect to graph store", "err", err)
	}
	defer graphClient.Close(ctx)

	aiClient := buildAIClient()
	descriptor := schema.Default()

	// The prompt still works without live introspection, just with the
	// static rules alone.
	introspection, err := graphClient.Introspect(ctx)
	if err != nil {
		logger.Warn("Schema introspection failed, continuing without it", "err", err)
		introspection = nil
	}

	model := util.GetEnvString("AI_MODEL", "gpt-4o-mini")
	pipe := pipeline.NewPipeline(pipeline.NewPipelineParams{
		Queries: query.NewSynthesizer(query.NewSynthesizerParams{
			Client:        aiClient,
			Descriptor:    descriptor,
			Introspection: introspection,
			Model:         model,
		}),
		Executor: graphClient,
		Answers: answer.NewSynthesizer(answer.NewSynthesizerParams{
			Client:     aiClient,
			Descriptor: descriptor,
			Model:      model,
		}),
		Descriptor: descriptor,
	})

	app := &mid.App{
		Pipeline:   pipe,
		Graph:      graphClient,
		News:       news.NewAggregator(news.NewAggregatorParams{}),
		Summarizer: news.NewSummarizer(news.NewSummarizerParams{Client: aiClient, Model: model}),
		AiClient:   aiClient,
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("Request", "method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	RegisterRoutes(e)

	go func() {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

func buildAIClient() ai.GraphAIClient {
	provider := util.GetEnvString("AI_PROVIDER", "openai")

	switch provider {
	case "ollama":
		client, err := oai.NewGraphOllamaClient(oai.NewGraphOllamaClientParams{
			CompletionModel: util.GetEnv("AI_MODEL"),
			EmbeddingModel:  util.GetEnv("AI_EMBED_MODEL"),

			BaseURL: util.GetEnv("AI_BASE_URL"),
			ApiKey:  util.GetEnv("AI_API_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 4)),
			RequestTimeout:        time.Duration(util.GetEnvNumeric("AI_TIMEOUT_SEC", 300)) * time.Second,
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		return client
	default:
		return gai.NewGraphOpenAIClient(gai.NewGraphOpenAIClientParams{
			CompletionModel: util.GetEnvString("AI_MODEL", "gpt-4o-mini"),
			EmbeddingModel:  util.GetEnvString("AI_EMBED_MODEL", "text-embedding-3-small"),

			ChatURL:      util.GetEnv("AI_BASE_URL"),
			ChatKey:      util.GetEnv("OPENAI_API_KEY"),
			EmbeddingURL: util.GetEnv("AI_BASE_URL"),
			EmbeddingKey: util.GetEnv("OPENAI_API_KEY"),
		})
	}
}
