// Package news aggregates equestrian news from RSS feeds and scraped
// listing pages. Sources are fetched concurrently; one broken source
// never fails the batch.
package news

import (
	"context"
	"sort"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/equilab/cavale/pkg/logger"
)

// Cap on the merged article list handed to callers.
const defaultMaxArticles = 60

// Article is one news item, normalized across sources.
type Article struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Source    string    `json:"source"`
	Published time.Time `json:"published"`
	Summary   string    `json:"summary,omitempty"`
}

// Source produces articles from one upstream site or feed.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Article, error)
}

// Aggregator merges articles from a fixed set of sources.
type Aggregator struct {
	sources     []Source
	maxArticles int
}

// NewAggregatorParams configures an Aggregator. A nil Sources slice
// means the built-in default sources.
type NewAggregatorParams struct {
	Sources     []Source
	MaxArticles int
}

func NewAggregator(params NewAggregatorParams) *Aggregator {
	sources := params.Sources
	if sources == nil {
		sources = DefaultSources()
	}
	maxArticles := params.MaxArticles
	if maxArticles <= 0 {
		maxArticles = defaultMaxArticles
	}
	return &Aggregator{sources: sources, maxArticles: maxArticles}
}

// Fetch pulls every source concurrently and returns the merged list,
// deduplicated and sorted newest first. A failing source is logged and
// skipped.
func (a *Aggregator) Fetch(ctx context.Context) []Article {
	results := make([][]Article, len(a.sources))

	g, gCtx := errgroup.WithContext(ctx)
	for i, src := range a.sources {
		g.Go(func() error {
			articles, err := src.Fetch(gCtx)
			if err != nil {
				logger.Warn("News source failed", "source", src.Name(), "err", err)
				return nil
			}
			results[i] = articles
			return nil
		})
	}
	// Errors are swallowed per source, Wait only synchronizes.
	_ = g.Wait()

	var merged []Article
	for _, articles := range results {
		merged = append(merged, articles...)
	}

	merged = dedupe(merged)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Published.After(merged[j].Published)
	})

	if len(merged) > a.maxArticles {
		merged = merged[:a.maxArticles]
	}
	return merged
}

// dedupe drops articles whose titles collide. Sites syndicate each
// other with minor suffix changes, so the key is the lowercased first
// 100 characters of the title.
func dedupe(articles []Article) []Article {
	seen := make(map[string]bool, len(articles))
	out := make([]Article, 0, len(articles))
	for _, article := range articles {
		key := dedupeKey(article.Title)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, article)
	}
	return out
}

func dedupeKey(title string) string {
	key := strings.ToLower(strings.TrimSpace(title))
	runes := []rune(key)
	if len(runes) > 100 {
		key = string(runes[:100])
	}
	return key
}

func newArticleID() string {
	id, err := gonanoid.New()
	if err != nil {
		// Nanoid only fails when the system RNG does.
		return "article"
	}
	return id
}
