// Package news fetches commodity-market headlines from RSS feeds.
// Headlines are an optional garnish on price answers; a dead feed is
// skipped, never fatal.
package news

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/pricetalk/pricetalk/internal/infra"
	"github.com/pricetalk/pricetalk/internal/logger"
	"github.com/pricetalk/pricetalk/pkg/models"
)

// DefaultFeeds lists the food-security and commodity-market RSS feeds
// polled when the configuration does not name its own.
var DefaultFeeds = []string{
	"https://www.fao.org/newsroom/rss/en/",
	"https://reliefweb.int/updates/rss.xml?advanced-search=%28T4595%29",
}

// Fetcher pulls and caches headlines from the configured feeds.
type Fetcher struct {
	feeds   []string
	cache   *infra.Cache
	limiter *infra.RateLimiter
	parser  *gofeed.Parser
}

// NewFetcher creates a Fetcher over feeds; nil or empty means the
// defaults.
func NewFetcher(feeds []string, cacheTTL time.Duration) *Fetcher {
	if len(feeds) == 0 {
		feeds = DefaultFeeds
	}
	return &Fetcher{
		feeds:   feeds,
		cache:   infra.NewCache(cacheTTL),
		limiter: infra.NewRateLimiter(2, time.Second),
		parser:  gofeed.NewParser(),
	}
}

// Headlines returns up to limit articles across all feeds, newest
// first. It fails only when every feed fails.
func (f *Fetcher) Headlines(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	cacheKey := fmt.Sprintf("news:%d", limit)
	if cached, ok := f.cache.Get(cacheKey); ok {
		return cached.([]models.NewsArticle), nil
	}

	log := logger.WithComponent("news")

	var all []models.NewsArticle
	failed := 0
	for _, url := range f.feeds {
		articles, err := f.fetchFeed(ctx, url)
		if err != nil {
			log.WithError(err).WithField("feed", url).Warn("feed fetch failed")
			failed++
			continue
		}
		all = append(all, articles...)
	}
	if failed == len(f.feeds) {
		return nil, fmt.Errorf("all %d news feeds failed", failed)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Published.After(all[j].Published)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	f.cache.Set(cacheKey, all)
	return all, nil
}

// CommodityHeadlines filters headlines to those mentioning the
// commodity in their title or summary.
func (f *Fetcher) CommodityHeadlines(ctx context.Context, commodity string, limit int) ([]models.NewsArticle, error) {
	all, err := f.Headlines(ctx, 0)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(commodity)
	var filtered []models.NewsArticle
	for _, a := range all {
		if strings.Contains(strings.ToLower(a.Title+" "+a.Summary), needle) {
			filtered = append(filtered, a)
		}
	}
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, url string) ([]models.NewsArticle, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	articles := make([]models.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := models.NewsArticle{
			Title:   item.Title,
			URL:     item.Link,
			Source:  feed.Title,
			Summary: cleanHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			a.Published = *item.PublishedParsed
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// cleanHTML strips markup from feed descriptions using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
