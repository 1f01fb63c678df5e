package eval

import (
	"context"
	"fmt"
	"strings"

	"github.com/equilab/cavale/pkg/ai"
	"github.com/equilab/cavale/pkg/logger"
)

const judgeSystemPrompt = `Tu es un évaluateur rigoureux de systèmes de question-réponse.
Tu compares une réponse générée à une réponse de référence et tu notes chaque dimension entre 0.0 et 1.0.
Tu réponds UNIQUEMENT avec un objet JSON, sans texte autour.`

// Judge asks the grading model to score the answer against the ground
// truth on the fixed rubric. A malformed or failed judgment yields
// all-zero scores with the failure recorded in Reasoning, never a
// crashed case.
func (h *Harness) Judge(ctx context.Context, c Case) Scores {
	prompt := buildJudgePrompt(c)

	raw, err := h.judge.GenerateCompletion(
		ctx,
		prompt,
		ai.WithModel(h.model),
		ai.WithTemperature(0.0),
		ai.WithSystemPrompts(judgeSystemPrompt),
	)
	if err != nil {
		logger.Error("Judge call failed", "question", c.Question, "err", err)
		return Scores{Reasoning: fmt.Sprintf("judge call failed: %v", err)}
	}

	var scores Scores
	if err := ai.UnmarshalFlexible(raw, &scores); err != nil {
		logger.Error("Judge output unparseable", "question", c.Question, "raw", raw, "err", err)
		return Scores{Reasoning: fmt.Sprintf("judge output unparseable: %v", err)}
	}

	scores.Correctness = clampScore(scores.Correctness)
	scores.Completeness = clampScore(scores.Completeness)
	scores.Accuracy = clampScore(scores.Accuracy)
	scores.Overall = clampScore(scores.Overall)
	return scores
}

func clampScore(s float64) float64 {
	if s < 0.0 {
		return 0.0
	}
	if s > 1.0 {
		return 1.0
	}
	return s
}

func buildJudgePrompt(c Case) string {
	var b strings.Builder

	b.WriteString("Évalue la réponse générée par rapport à la réponse de référence.\n\n")
	fmt.Fprintf(&b, "Question: %s\n\n", c.Question)
	fmt.Fprintf(&b, "Réponse de référence: %s\n\n", c.GroundTruth)
	fmt.Fprintf(&b, "Réponse générée: %s\n\n", c.Answer)
	b.WriteString(`Note chaque dimension entre 0.0 et 1.0:
- correctness: la réponse dit-elle la même chose que la référence ?
- completeness: couvre-t-elle tous les éléments de la référence ?
- accuracy: contient-elle des faits absents de la référence ou contredits par elle ?
- overall: jugement global

Réponds avec un objet JSON de la forme:
{"correctness": 0.0, "completeness": 0.0, "accuracy": 0.0, "overall": 0.0, "reasoning": "..."}`)

	return b.String()
}
