// Package eval scores system answers against ground truth, offline. Two
// signals are produced per case: an embedding-based semantic similarity
// and a rubric judgment from a model acting as grader. Neither signal
// blocks the other; a case that cannot be embedded still gets judged.
package eval

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/equilab/cavale/pkg/ai"
	"github.com/equilab/cavale/pkg/logger"
)

// Answers containing these markers are failure reports, not answers.
// They score 0.0 without an embedding call.
var errorMarkers = []string{"error", "erreur"}

// Embedder is the slice of the AI client used for similarity.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error)
}

// CompletionClient is the slice of the AI client used for judging.
type CompletionClient interface {
	GenerateCompletion(ctx context.Context, prompt string, options ...ai.GenerateOption) (string, error)
}

// Case is one evaluation input.
type Case struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	GroundTruth string `json:"ground_truth"`
}

// Scores is the rubric judgment for one case, each dimension in [0, 1].
type Scores struct {
	Correctness  float64 `json:"correctness"`
	Completeness float64 `json:"completeness"`
	Accuracy     float64 `json:"accuracy"`
	Overall      float64 `json:"overall"`
	Reasoning    string  `json:"reasoning"`
}

// Record is the full evaluation output for one case.
type Record struct {
	Question    string  `json:"question"`
	Answer      string  `json:"answer"`
	GroundTruth string  `json:"ground_truth"`
	Similarity  float64 `json:"similarity"`
	Scores
}

// Harness evaluates answers. Both clients are required.
type Harness struct {
	embedder Embedder
	judge    CompletionClient
	model    string
}

// NewHarnessParams configures a Harness.
type NewHarnessParams struct {
	Embedder Embedder
	Judge    CompletionClient
	Model    string
}

func NewHarness(params NewHarnessParams) *Harness {
	return &Harness{
		embedder: params.Embedder,
		judge:    params.Judge,
		model:    params.Model,
	}
}

// Evaluate scores a single case. Signal failures degrade to zero scores
// with an explanatory rationale instead of failing the case.
func (h *Harness) Evaluate(ctx context.Context, c Case) Record {
	record := Record{
		Question:    c.Question,
		Answer:      c.Answer,
		GroundTruth: c.GroundTruth,
	}

	similarity, err := h.SemanticSimilarity(ctx, c.Answer, c.GroundTruth)
	if err != nil {
		logger.Error("Similarity computation failed", "question", c.Question, "err", err)
		similarity = 0.0
	}
	record.Similarity = similarity

	record.Scores = h.Judge(ctx, c)
	return record
}

// SemanticSimilarity embeds both texts and returns their cosine
// similarity rescaled from [-1, 1] to [0, 1]. An empty text on either
// side, or an answer carrying an error marker, scores exactly 0.0
// without any embedding call. The marker check applies to the answer
// only: a ground truth may legitimately talk about errors.
func (h *Harness) SemanticSimilarity(ctx context.Context, answer, groundTruth string) (float64, error) {
	if strings.TrimSpace(answer) == "" || strings.TrimSpace(groundTruth) == "" {
		return 0.0, nil
	}
	if hasErrorMarker(answer) {
		return 0.0, nil
	}

	a, err := h.embedder.GenerateEmbedding(ctx, []byte(answer))
	if err != nil {
		return 0.0, fmt.Errorf("failed to embed answer: %w", err)
	}
	b, err := h.embedder.GenerateEmbedding(ctx, []byte(groundTruth))
	if err != nil {
		return 0.0, fmt.Errorf("failed to embed ground truth: %w", err)
	}

	cos, err := cosine(a, b)
	if err != nil {
		return 0.0, err
	}
	return (cos + 1.0) / 2.0, nil
}

func hasErrorMarker(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range errorMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("zero vector")
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
