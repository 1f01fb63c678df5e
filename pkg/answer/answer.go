// Package answer turns a query result set into a grounded French
// answer. The model only ever sees the serialized result context; the
// prompt forbids it from adding anything the store did not return.
package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/equilab/cavale/pkg/ai"
	"github.com/equilab/cavale/pkg/graph"
	"github.com/equilab/cavale/pkg/schema"
)

// Default budget for the serialized result context. Large enough for
// every realistic projection over this dataset, small enough to keep
// the answer call cheap.
const defaultMaxContextTokens = 4000

// Given when the query matched nothing. Kept deterministic so the
// model cannot improvise around an empty context.
const emptyResultAnswer = "Je n'ai pas trouvé de résultat correspondant à cette question dans le graphe de connaissances."

// CompletionClient is the slice of the AI client the synthesizer needs.
type CompletionClient interface {
	GenerateCompletion(ctx context.Context, prompt string, options ...ai.GenerateOption) (string, error)
}

// AnswerError means the answer could not be produced from an otherwise
// valid result set.
type AnswerError struct {
	Message string
	Err     error
}

func (e *AnswerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("answer synthesis failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("answer synthesis failed: %s", e.Message)
}

func (e *AnswerError) Unwrap() error {
	return e.Err
}

// Synthesizer produces natural-language answers from result sets.
type Synthesizer struct {
	client           CompletionClient
	descriptor       *schema.Descriptor
	model            string
	maxContextTokens int
}

// NewSynthesizerParams configures a Synthesizer.
type NewSynthesizerParams struct {
	Client     CompletionClient
	Descriptor *schema.Descriptor
	Model      string

	// MaxContextTokens bounds the serialized result context. Zero means
	// the default budget.
	MaxContextTokens int
}

func NewSynthesizer(params NewSynthesizerParams) *Synthesizer {
	maxTokens := params.MaxContextTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxContextTokens
	}
	return &Synthesizer{
		client:           params.Client,
		descriptor:       params.Descriptor,
		model:            params.Model,
		maxContextTokens: maxTokens,
	}
}

// Answer writes a French prose answer to the question, grounded
// strictly in the result set. An empty result set yields a fixed
// answer without a model call.
func (s *Synthesizer) Answer(ctx context.Context, question string, results graph.ResultSet) (string, error) {
	if results.Empty() {
		return emptyResultAnswer, nil
	}

	prompt := s.buildPrompt(question, results)

	raw, err := s.client.GenerateCompletion(
		ctx,
		prompt,
		ai.WithModel(s.model),
		ai.WithTemperature(0.0),
		ai.WithSystemPrompts(answerSystemPrompt),
	)
	if err != nil {
		return "", &AnswerError{Message: "completion request failed", Err: err}
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return "", &AnswerError{Message: "model returned an empty answer"}
	}
	return text, nil
}

func (s *Synthesizer) buildPrompt(question string, results graph.ResultSet) string {
	var b strings.Builder

	b.WriteString(answerRules)
	b.WriteString("\nNoms d'usage des identifiants:\n")
	b.WriteString(s.descriptor.AliasText())
	b.WriteString("\nDonnées du graphe:\n")
	b.WriteString(results.Context(s.maxContextTokens))
	fmt.Fprintf(&b, "\nQuestion: %s\n\nRéponse:", question)

	return b.String()
}
