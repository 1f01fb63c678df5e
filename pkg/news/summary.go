package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/equilab/cavale/pkg/ai"
	"github.com/equilab/cavale/pkg/logger"
)

// When no article falls inside the summary window, fall back to the
// most recent ones so the digest is never empty.
const (
	summaryWindow    = 14 * 24 * time.Hour
	summaryFallback  = 10
	summaryMaxEvents = 20

	enrichLimit    = 5
	enrichMaxRunes = 600
)

const summarySystemPrompt = `Tu es un journaliste spécialisé dans les sports équestres.
Tu rédiges en français, de façon factuelle, à partir des titres et extraits fournis.
Tu n'inventes jamais d'information absente des articles.`

// SummaryClient is the slice of the AI client the summarizer needs.
type SummaryClient interface {
	GenerateCompletion(ctx context.Context, prompt string, options ...ai.GenerateOption) (string, error)
	GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, options ...ai.GenerateOption) error
}

// UpcomingEvent is a competition or show mentioned in the news.
type UpcomingEvent struct {
	Name       string `json:"name" jsonschema_description:"Nom de l'événement"`
	Date       string `json:"date" jsonschema_description:"Date ou période annoncée, telle quelle"`
	Location   string `json:"location" jsonschema_description:"Lieu de l'événement"`
	Discipline string `json:"discipline" jsonschema_description:"Discipline (saut d'obstacles, dressage, concours complet, ...)"`
}

type upcomingEvents struct {
	Events []UpcomingEvent `json:"events"`
}

// Summarizer produces digests over aggregated articles.
type Summarizer struct {
	client    SummaryClient
	model     string
	now       func() time.Time
	fetchText func(ctx context.Context, url string) (string, error)
}

// NewSummarizerParams configures a Summarizer.
type NewSummarizerParams struct {
	Client SummaryClient
	Model  string

	// Now overrides the clock, tests only.
	Now func() time.Time

	// FetchText overrides article body extraction, tests only.
	FetchText func(ctx context.Context, url string) (string, error)
}

func NewSummarizer(params NewSummarizerParams) *Summarizer {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	fetchText := params.FetchText
	if fetchText == nil {
		fetchText = ArticleText
	}
	return &Summarizer{client: params.Client, model: params.Model, now: now, fetchText: fetchText}
}

// WeeklySummary writes a short French digest of the recent articles.
func (s *Summarizer) WeeklySummary(ctx context.Context, articles []Article) (string, error) {
	recent := s.enrich(ctx, s.selectRecent(articles))
	if len(recent) == 0 {
		return "", fmt.Errorf("no articles to summarize")
	}

	var b strings.Builder
	b.WriteString("Rédige un résumé hebdomadaire de l'actualité équestre à partir de ces articles.\n")
	b.WriteString("Quelques phrases par thème majeur, en prose, sans liste.\n\nArticles:\n")
	writeArticleList(&b, recent)

	summary, err := s.client.GenerateCompletion(
		ctx,
		b.String(),
		ai.WithModel(s.model),
		ai.WithTemperature(0.3),
		ai.WithSystemPrompts(summarySystemPrompt),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}
	return strings.TrimSpace(summary), nil
}

// UpcomingEvents extracts competitions announced in the articles as
// structured data.
func (s *Summarizer) UpcomingEvents(ctx context.Context, articles []Article) ([]UpcomingEvent, error) {
	recent := s.selectRecent(articles)
	if len(recent) == 0 {
		return nil, nil
	}

	var b strings.Builder
	b.WriteString("Extrais les événements équestres à venir mentionnés dans ces articles.\n")
	b.WriteString("N'inclus que les événements explicitement annoncés avec au moins un nom.\n\nArticles:\n")
	writeArticleList(&b, recent)

	var out upcomingEvents
	err := s.client.GenerateCompletionWithFormat(
		ctx,
		"upcoming_events",
		"Événements équestres à venir extraits de l'actualité",
		b.String(),
		&out,
		ai.WithModel(s.model),
		ai.WithTemperature(0.0),
		ai.WithSystemPrompts(summarySystemPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to extract events: %w", err)
	}

	events := out.Events
	if len(events) > summaryMaxEvents {
		events = events[:summaryMaxEvents]
	}
	return events, nil
}

// enrich fills missing summaries with text extracted from the article
// pages themselves. Only the first few articles are fetched; extraction
// failures leave the article as it was.
func (s *Summarizer) enrich(ctx context.Context, articles []Article) []Article {
	fetched := 0
	for i := range articles {
		if fetched >= enrichLimit {
			break
		}
		if articles[i].Summary != "" || articles[i].URL == "" {
			continue
		}
		fetched++

		text, err := s.fetchText(ctx, articles[i].URL)
		if err != nil {
			logger.Debug("Article extraction failed", "url", articles[i].URL, "err", err)
			continue
		}
		articles[i].Summary = truncateRunes(strings.TrimSpace(text), enrichMaxRunes)
	}
	return articles
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// selectRecent keeps articles inside the summary window, falling back
// to the newest ones when the window is empty. Articles are assumed
// sorted newest first, as Fetch returns them.
func (s *Summarizer) selectRecent(articles []Article) []Article {
	cutoff := s.now().Add(-summaryWindow)

	var recent []Article
	for _, article := range articles {
		if article.Published.After(cutoff) {
			recent = append(recent, article)
		}
	}
	if len(recent) > 0 {
		return recent
	}

	if len(articles) > summaryFallback {
		return articles[:summaryFallback]
	}
	return articles
}

func writeArticleList(b *strings.Builder, articles []Article) {
	for _, article := range articles {
		fmt.Fprintf(b, "- [%s] %s", article.Source, article.Title)
		if !article.Published.IsZero() {
			fmt.Fprintf(b, " (%s)", article.Published.Format("2006-01-02"))
		}
		if article.Summary != "" {
			fmt.Fprintf(b, "\n  %s", article.Summary)
		}
		b.WriteString("\n")
	}
}
