package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/equilab/cavale/internal/util"
	"github.com/equilab/cavale/pkg/ai"
	oai "github.com/equilab/cavale/pkg/ai/ollama"
	gai "github.com/equilab/cavale/pkg/ai/openai"
	"github.com/equilab/cavale/pkg/answer"
	"github.com/equilab/cavale/pkg/eval"
	"github.com/equilab/cavale/pkg/graph"
	"github.com/equilab/cavale/pkg/logger"
	"github.com/equilab/cavale/pkg/logger/console"
	"github.com/equilab/cavale/pkg/pipeline"
	"github.com/equilab/cavale/pkg/query"
	"github.com/equilab/cavale/pkg/schema"
)

type aggregate struct {
	Cases        int     `json:"cases"`
	Similarity   float64 `json:"similarity"`
	Correctness  float64 `json:"correctness"`
	Completeness float64 `json:"completeness"`
	Accuracy     float64 `json:"accuracy"`
	Overall      float64 `json:"overall"`
}

func main() {
	input := flag.String("input", "", "JSONL file of evaluation cases")
	output := flag.String("output", "eval_results.jsonl", "JSONL file for per-case records")
	generate := flag.Bool("generate", false, "run the full pipeline to produce answers before scoring")
	flag.Parse()

	util.LoadEnv()
	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: util.GetEnvBool("DEBUG", false),
	}))

	if *input == "" {
		logger.Fatal("Missing -input file")
	}

	ctx := context.Background()
	aiClient := buildAIClient()

	cases, err := readCases(*input)
	if err != nil {
		logger.Fatal("Failed to read cases", "err", err)
	}
	if len(cases) == 0 {
		logger.Fatal("No cases in input file", "file", *input)
	}

	if *generate {
		answerCases(ctx, aiClient, cases)
	}

	harness := eval.NewHarness(eval.NewHarnessParams{
		Embedder: aiClient,
		Judge:    aiClient,
		Model:    util.GetEnvString("AI_JUDGE_MODEL", util.GetEnvString("AI_MODEL", "gpt-4o-mini")),
	})

	out, err := os.Create(*output)
	if err != nil {
		logger.Fatal("Failed to create output file", "err", err)
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	var sum aggregate
	for i, c := range cases {
		record := harness.Evaluate(ctx, c)
		if err := enc.Encode(record); err != nil {
			logger.Fatal("Failed to write record", "err", err)
		}

		sum.Cases++
		sum.Similarity += record.Similarity
		sum.Correctness += record.Correctness
		sum.Completeness += record.Completeness
		sum.Accuracy += record.Accuracy
		sum.Overall += record.Overall

		logger.Info("Evaluated case",
			"index", i+1,
			"total", len(cases),
			"similarity", record.Similarity,
			"overall", record.Overall,
		)
	}

	n := float64(sum.Cases)
	sum.Similarity /= n
	sum.Correctness /= n
	sum.Completeness /= n
	sum.Accuracy /= n
	sum.Overall /= n

	logger.Info("Evaluation finished",
		"cases", sum.Cases,
		"similarity", sum.Similarity,
		"correctness", sum.Correctness,
		"completeness", sum.Completeness,
		"accuracy", sum.Accuracy,
		"overall", sum.Overall,
	)
}

func readCases(path string) ([]eval.Case, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var cases []eval.Case
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var c eval.Case
		if err := json.Unmarshal(line, &c); err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, scanner.Err()
}

// answerCases replaces each case's answer by running the question
// through the full pipeline against the live graph store.
func answerCases(ctx context.Context, aiClient ai.GraphAIClient, cases []eval.Case) {
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

	descriptor := schema.Default()
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

	for i := range cases {
		result := pipe.Ask(ctx, cases[i].Question)
		if result.Outcome != pipeline.OutcomeSuccess {
			// Scored as a failure by the similarity short-circuit.
			cases[i].Answer = "Erreur: " + result.Outcome.String()
			continue
		}
		cases[i].Answer = result.Answer
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
