package news

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/equilab/cavale/pkg/ai"
)

type fakeSource struct {
	name     string
	articles []Article
	err      error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(_ context.Context) ([]Article, error) {
	return f.articles, f.err
}

func at(daysAgo int) time.Time {
	return time.Now().Add(-time.Duration(daysAgo) * 24 * time.Hour)
}

func TestFetch_MergesSortsAndDedupes(t *testing.T) {
	a := NewAggregator(NewAggregatorParams{Sources: []Source{
		&fakeSource{name: "one", articles: []Article{
			{Title: "Dakota remporte le Grand Prix de Fontainebleau", Published: at(3)},
			{Title: "Nouvelle saison de concours complet", Published: at(1)},
		}},
		&fakeSource{name: "two", articles: []Article{
			{Title: "DAKOTA REMPORTE LE GRAND PRIX DE FONTAINEBLEAU", Published: at(2)},
			{Title: "Stage de dressage ouvert aux amateurs", Published: at(5)},
		}},
	}})

	got := a.Fetch(context.Background())
	if len(got) != 3 {
		t.Fatalf("expected 3 articles after dedupe, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Published.After(got[i-1].Published) {
			t.Fatal("articles must be sorted newest first")
		}
	}
}

func TestFetch_FailingSourceIsSkipped(t *testing.T) {
	a := NewAggregator(NewAggregatorParams{Sources: []Source{
		&fakeSource{name: "broken", err: errors.New("timeout")},
		&fakeSource{name: "ok", articles: []Article{
			{Title: "Les engagements du championnat de France sont ouverts", Published: at(1)},
		}},
	}})

	got := a.Fetch(context.Background())
	if len(got) != 1 {
		t.Fatalf("expected the healthy source's article, got %d articles", len(got))
	}
}

func TestFetch_CapsArticleCount(t *testing.T) {
	articles := make([]Article, 30)
	for i := range articles {
		articles[i] = Article{
			Title:     strings.Repeat("x", 20) + string(rune('a'+i)),
			Published: at(i),
		}
	}
	a := NewAggregator(NewAggregatorParams{
		Sources:     []Source{&fakeSource{name: "big", articles: articles}},
		MaxArticles: 5,
	})

	got := a.Fetch(context.Background())
	if len(got) != 5 {
		t.Fatalf("expected 5 articles, got %d", len(got))
	}
}

func TestDedupeKey_TruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("é", 150)
	key := dedupeKey(long)
	if len([]rune(key)) != 100 {
		t.Fatalf("key must be 100 runes, got %d", len([]rune(key)))
	}

	if dedupeKey("  Un Titre  ") != "un titre" {
		t.Fatal("key must be lowercased and trimmed")
	}
}

type fakeSummaryClient struct {
	completion string
	events     []UpcomingEvent
	err        error

	lastPrompt string
}

func (f *fakeSummaryClient) GenerateCompletion(
	_ context.Context,
	prompt string,
	_ ...ai.GenerateOption,
) (string, error) {
	f.lastPrompt = prompt
	return f.completion, f.err
}

func (f *fakeSummaryClient) GenerateCompletionWithFormat(
	_ context.Context,
	_, _, prompt string,
	out any,
	_ ...ai.GenerateOption,
) error {
	f.lastPrompt = prompt
	if f.err != nil {
		return f.err
	}
	if target, ok := out.(*upcomingEvents); ok {
		target.Events = f.events
	}
	return nil
}

func TestWeeklySummary_UsesWindowedArticles(t *testing.T) {
	client := &fakeSummaryClient{completion: "La semaine a été marquée par le Grand Prix."}
	s := NewSummarizer(NewSummarizerParams{Client: client, Model: "m"})

	articles := []Article{
		{Title: "Victoire au Grand Prix", Source: "FEI", Published: at(2)},
		{Title: "Une très vieille nouvelle", Source: "FEI", Published: at(60)},
	}

	got, err := s.WeeklySummary(context.Background(), articles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != client.completion {
		t.Fatalf("unexpected summary: %q", got)
	}
	if !strings.Contains(client.lastPrompt, "Victoire au Grand Prix") {
		t.Fatal("recent article missing from prompt")
	}
	if strings.Contains(client.lastPrompt, "vieille nouvelle") {
		t.Fatal("article outside the window leaked into prompt")
	}
}

func TestWeeklySummary_FallsBackToNewest(t *testing.T) {
	client := &fakeSummaryClient{completion: "Résumé."}
	s := NewSummarizer(NewSummarizerParams{Client: client, Model: "m"})

	articles := make([]Article, 15)
	for i := range articles {
		articles[i] = Article{
			Title:     strings.Repeat("t", 20) + string(rune('a'+i)),
			Published: at(30 + i),
		}
	}

	if _, err := s.WeeklySummary(context.Background(), articles); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Only the newest articles survive the fallback.
	if strings.Contains(client.lastPrompt, articles[14].Title) {
		t.Fatal("fallback must keep only the newest articles")
	}
	if !strings.Contains(client.lastPrompt, articles[0].Title) {
		t.Fatal("newest article missing from fallback prompt")
	}
}

func TestWeeklySummary_EnrichesFromArticlePages(t *testing.T) {
	client := &fakeSummaryClient{completion: "Résumé."}
	fetched := 0
	s := NewSummarizer(NewSummarizerParams{
		Client: client,
		Model:  "m",
		FetchText: func(_ context.Context, url string) (string, error) {
			fetched++
			if url == "https://example.com/panne" {
				return "", errors.New("fetch failed")
			}
			return "  Le cavalier français s'impose à Rome.  ", nil
		},
	})

	articles := []Article{
		{Title: "Victoire à Rome", URL: "https://example.com/rome", Published: at(1)},
		{Title: "Article injoignable", URL: "https://example.com/panne", Published: at(2)},
		{Title: "Déjà résumé", URL: "https://example.com/autre", Summary: "Un extrait du flux.", Published: at(3)},
	}

	if _, err := s.WeeklySummary(context.Background(), articles); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(client.lastPrompt, "Le cavalier français s'impose à Rome.") {
		t.Fatal("extracted body missing from prompt")
	}
	if !strings.Contains(client.lastPrompt, "Un extrait du flux.") {
		t.Fatal("feed-provided summary must be kept as is")
	}
	if fetched != 2 {
		t.Fatalf("only articles without a summary should be fetched, got %d fetches", fetched)
	}
}

func TestWeeklySummary_EnrichmentCapsFetchesAndLength(t *testing.T) {
	client := &fakeSummaryClient{completion: "Résumé."}
	fetched := 0
	s := NewSummarizer(NewSummarizerParams{
		Client: client,
		Model:  "m",
		FetchText: func(_ context.Context, _ string) (string, error) {
			fetched++
			return strings.Repeat("é", 2*enrichMaxRunes), nil
		},
	})

	articles := make([]Article, enrichLimit+3)
	for i := range articles {
		articles[i] = Article{
			Title:     strings.Repeat("t", 20) + string(rune('a'+i)),
			URL:       "https://example.com/" + string(rune('a'+i)),
			Published: at(i),
		}
	}

	if _, err := s.WeeklySummary(context.Background(), articles); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetched != enrichLimit {
		t.Fatalf("expected %d fetches, got %d", enrichLimit, fetched)
	}
	if strings.Contains(client.lastPrompt, strings.Repeat("é", enrichMaxRunes+1)) {
		t.Fatal("extracted body must be truncated")
	}
	if !strings.Contains(client.lastPrompt, strings.Repeat("é", enrichMaxRunes)) {
		t.Fatal("truncated body missing from prompt")
	}
}

func TestWeeklySummary_NoArticles(t *testing.T) {
	s := NewSummarizer(NewSummarizerParams{Client: &fakeSummaryClient{}, Model: "m"})
	if _, err := s.WeeklySummary(context.Background(), nil); err == nil {
		t.Fatal("expected error on empty article list")
	}
}

func TestUpcomingEvents_ReturnsStructuredData(t *testing.T) {
	client := &fakeSummaryClient{events: []UpcomingEvent{
		{Name: "CSI5* de Chantilly", Date: "12-15 juillet", Location: "Chantilly", Discipline: "saut d'obstacles"},
	}}
	s := NewSummarizer(NewSummarizerParams{Client: client, Model: "m"})

	got, err := s.UpcomingEvents(context.Background(), []Article{
		{Title: "Le CSI5* de Chantilly annoncé pour juillet", Published: at(1)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "CSI5* de Chantilly" {
		t.Fatalf("unexpected events: %+v", got)
	}
}

func TestUpcomingEvents_EmptyInput(t *testing.T) {
	s := NewSummarizer(NewSummarizerParams{Client: &fakeSummaryClient{}, Model: "m"})
	got, err := s.UpcomingEvents(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no events, got %+v", got)
	}
}
