// Package pipeline chains query synthesis, execution, and answer
// synthesis for a single question. Internal failures never surface to
// the caller as raw errors; they collapse into an Outcome the serving
// layer can translate into user-facing behavior.
package pipeline

import (
	"context"
	"errors"

	"github.com/equilab/cavale/pkg/graph"
	"github.com/equilab/cavale/pkg/logger"
	"github.com/equilab/cavale/pkg/query"
	"github.com/equilab/cavale/pkg/schema"
)

// Outcome classifies how a question was handled.
type Outcome int

const (
	// OutcomeSuccess means an answer was produced. This includes
	// questions whose query matched nothing.
	OutcomeSuccess Outcome = iota
	// OutcomeQuerySyntax means the generated query was rejected, the
	// user should rephrase the question.
	OutcomeQuerySyntax
	// OutcomeConnection means a backing service failed, the user should
	// retry later.
	OutcomeConnection
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeQuerySyntax:
		return "query_syntax"
	default:
		return "connection"
	}
}

// QuerySynthesizer produces a Cypher query for a question.
type QuerySynthesizer interface {
	Synthesize(ctx context.Context, question string) (string, error)
}

// Executor runs a query against the store.
type Executor interface {
	Execute(ctx context.Context, cypher string) (graph.ResultSet, error)
}

// AnswerSynthesizer produces a grounded answer from a result set.
type AnswerSynthesizer interface {
	Answer(ctx context.Context, question string, results graph.ResultSet) (string, error)
}

// Result is the output of one Ask call. Answer is empty unless Outcome
// is OutcomeSuccess. Cypher carries the generated query when one was
// produced, for logging and evaluation.
type Result struct {
	Answer  string
	Cypher  string
	Outcome Outcome
}

// Pipeline wires the three stages together.
type Pipeline struct {
	queries    QuerySynthesizer
	executor   Executor
	answers    AnswerSynthesizer
	descriptor *schema.Descriptor
}

// NewPipelineParams configures a Pipeline.
type NewPipelineParams struct {
	Queries    QuerySynthesizer
	Executor   Executor
	Answers    AnswerSynthesizer
	Descriptor *schema.Descriptor
}

func NewPipeline(params NewPipelineParams) *Pipeline {
	return &Pipeline{
		queries:    params.Queries,
		executor:   params.Executor,
		answers:    params.Answers,
		descriptor: params.Descriptor,
	}
}

// Ask runs the full question-to-answer flow. Stages run strictly in
// order and a failed stage stops the flow; the answer model is never
// called with a failed or missing result set. Raw failure detail goes
// to the log only.
func (p *Pipeline) Ask(ctx context.Context, question string) Result {
	cypher, err := p.queries.Synthesize(ctx, question)
	if err != nil {
		logger.Error("Query synthesis failed", "question", question, "err", err)
		return Result{Outcome: OutcomeConnection}
	}

	if violations := query.Validate(cypher, p.descriptor); len(violations) > 0 {
		logger.Warn("Generated query rejected by validator",
			"question", question, "cypher", cypher, "violations", violations)
		return Result{Cypher: cypher, Outcome: OutcomeQuerySyntax}
	}

	results, err := p.executor.Execute(ctx, cypher)
	if err != nil {
		var execErr *graph.ExecutionError
		if errors.As(err, &execErr) && execErr.Kind == graph.ErrorKindSyntax {
			logger.Warn("Store rejected generated query", "cypher", cypher, "err", err)
			return Result{Cypher: cypher, Outcome: OutcomeQuerySyntax}
		}
		logger.Error("Query execution failed", "cypher", cypher, "err", err)
		return Result{Cypher: cypher, Outcome: OutcomeConnection}
	}

	answerText, err := p.answers.Answer(ctx, question, results)
	if err != nil {
		logger.Error("Answer synthesis failed", "question", question, "err", err)
		return Result{Cypher: cypher, Outcome: OutcomeConnection}
	}

	return Result{Answer: answerText, Cypher: cypher, Outcome: OutcomeSuccess}
}
