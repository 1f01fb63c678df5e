// Package query turns a natural-language question into a single Cypher
// read query. Synthesis is prompt-driven; the static validator checks
// the generated query against the schema descriptor before it reaches
// the store.
package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/equilab/cavale/pkg/ai"
	"github.com/equilab/cavale/pkg/logger"
	"github.com/equilab/cavale/pkg/schema"
)

// CompletionClient is the slice of the AI client the synthesizer needs.
type CompletionClient interface {
	GenerateCompletion(ctx context.Context, prompt string, options ...ai.GenerateOption) (string, error)
}

// SynthesisError means no usable query could be produced for the
// question, either because the model transport failed or because it
// returned nothing.
type SynthesisError struct {
	Message string
	Err     error
}

func (e *SynthesisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("query synthesis failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("query synthesis failed: %s", e.Message)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}

// Synthesizer generates Cypher queries for questions about the graph.
type Synthesizer struct {
	client        CompletionClient
	descriptor    *schema.Descriptor
	introspection *schema.Introspection
	model         string
}

// NewSynthesizerParams configures a Synthesizer. Introspection is
// optional; without it the prompt carries only the static rules.
type NewSynthesizerParams struct {
	Client        CompletionClient
	Descriptor    *schema.Descriptor
	Introspection *schema.Introspection
	Model         string
}

func NewSynthesizer(params NewSynthesizerParams) *Synthesizer {
	return &Synthesizer{
		client:        params.Client,
		descriptor:    params.Descriptor,
		introspection: params.Introspection,
		model:         params.Model,
	}
}

// Synthesize produces exactly one Cypher query for the question. The
// output is stripped of markdown fencing and surrounding whitespace; it
// is NOT guaranteed to be valid Cypher, run Validate or let the store
// decide.
func (s *Synthesizer) Synthesize(ctx context.Context, question string) (string, error) {
	prompt := s.buildPrompt(question)

	raw, err := s.client.GenerateCompletion(
		ctx,
		prompt,
		ai.WithModel(s.model),
		ai.WithTemperature(0.0),
		ai.WithSystemPrompts(cypherSystemPrompt),
	)
	if err != nil {
		return "", &SynthesisError{Message: "completion request failed", Err: err}
	}

	cypher := strings.TrimSpace(ai.StripCodeFence(raw))
	if cypher == "" {
		return "", &SynthesisError{Message: "model returned an empty query"}
	}

	logger.Debug("Synthesized query", "question", question, "cypher", cypher)
	return cypher, nil
}

func (s *Synthesizer) buildPrompt(question string) string {
	var b strings.Builder

	b.WriteString("Tu es un expert Neo4j. Génère UNE SEULE requête Cypher pour répondre à la question.\n\n")

	if s.introspection != nil {
		b.WriteString("Schéma du graphe:\n")
		b.WriteString(s.introspection.Render())
		b.WriteString("\n")
	}

	b.WriteString(s.descriptor.RuleText())
	b.WriteString("\n")

	fmt.Fprintf(&b, "Question: %s\n\n", question)
	b.WriteString("Réponds UNIQUEMENT avec la requête Cypher, sans explication, sans balises markdown.\n")

	return b.String()
}
