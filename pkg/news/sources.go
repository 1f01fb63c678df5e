package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"

	"github.com/equilab/cavale/internal/util"
)

const fetchTimeout = 20 * time.Second

// DefaultSources returns the equestrian news sources the aggregator
// watches out of the box.
func DefaultSources() []Source {
	return []Source{
		NewFeedSource("FEI", "https://www.fei.org/rss.xml"),
		NewFeedSource("Grand Prix Replay", "https://www.grandprix-replay.com/rss"),
		NewSiteSource("Cheval Magazine", "https://www.chevalmag.com/actualites/"),
		NewSiteSource("L'Éperon", "https://www.leperon.fr/actualites"),
	}
}

// FeedSource reads an RSS or Atom feed.
type FeedSource struct {
	name   string
	url    string
	parser *gofeed.Parser
}

func NewFeedSource(name, feedURL string) *FeedSource {
	return &FeedSource{
		name:   name,
		url:    feedURL,
		parser: gofeed.NewParser(),
	}
}

func (s *FeedSource) Name() string { return s.name }

func (s *FeedSource) Fetch(ctx context.Context) ([]Article, error) {
	fCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	// Feeds flake, one retry covers most of it.
	feed, err := util.RetryWithContext(fCtx, 2, func(ctx context.Context) (*gofeed.Feed, error) {
		return s.parser.ParseURLWithContext(s.url, ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	articles := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		published := time.Time{}
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		}
		articles = append(articles, Article{
			ID:        newArticleID(),
			Title:     strings.TrimSpace(item.Title),
			URL:       item.Link,
			Source:    s.name,
			Published: published,
			Summary:   strings.TrimSpace(item.Description),
		})
	}
	return articles, nil
}

// SiteSource scrapes headlines from a listing page that has no feed.
type SiteSource struct {
	name   string
	url    string
	client *http.Client
}

func NewSiteSource(name, pageURL string) *SiteSource {
	return &SiteSource{
		name:   name,
		url:    pageURL,
		client: &http.Client{Timeout: fetchTimeout},
	}
}

func (s *SiteSource) Name() string { return s.name }

func (s *SiteSource) Fetch(ctx context.Context) ([]Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing page returned status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	base, err := url.Parse(s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source url: %w", err)
	}

	headlines := extractHeadlines(doc, base)
	articles := make([]Article, 0, len(headlines))
	for _, h := range headlines {
		articles = append(articles, Article{
			ID:        newArticleID(),
			Title:     h.title,
			URL:       h.href,
			Source:    s.name,
			Published: time.Now(),
		})
	}
	return articles, nil
}

type headline struct {
	title string
	href  string
}

// extractHeadlines walks the document and collects links found inside
// heading or article elements, the structure every watched site shares.
func extractHeadlines(doc *html.Node, base *url.URL) []headline {
	var headlines []headline

	var inHeading func(n *html.Node, heading bool)
	inHeading = func(n *html.Node, heading bool) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h1", "h2", "h3", "article":
				heading = true
			case "a":
				if heading {
					if h, ok := headlineFromAnchor(n, base); ok {
						headlines = append(headlines, h)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			inHeading(c, heading)
		}
	}
	inHeading(doc, false)

	return headlines
}

func headlineFromAnchor(n *html.Node, base *url.URL) (headline, bool) {
	var href string
	for _, attr := range n.Attr {
		if attr.Key == "href" {
			href = attr.Val
			break
		}
	}
	if href == "" {
		return headline{}, false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return headline{}, false
	}

	title := strings.Join(strings.Fields(textContent(n)), " ")
	// Navigation links and icons produce empty or tiny titles.
	if len([]rune(title)) < 15 {
		return headline{}, false
	}

	return headline{title: title, href: base.ResolveReference(ref).String()}, true
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
		b.WriteString(" ")
	}
	return b.String()
}

// ArticleText fetches a full article page and extracts its readable
// body text.
func ArticleText(ctx context.Context, articleURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	u, err := url.Parse(articleURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse article url: %w", err)
	}

	article, err := readability.FromReader(resp.Body, u)
	if err != nil {
		return "", fmt.Errorf("failed to extract article: %w", err)
	}

	var builder strings.Builder
	if err := article.RenderText(&builder); err != nil {
		return "", fmt.Errorf("failed to render article text: %w", err)
	}
	return builder.String(), nil
}
