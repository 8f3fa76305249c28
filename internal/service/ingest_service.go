package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/Raidoxe/BERTNews/internal/ai"
	"github.com/Raidoxe/BERTNews/internal/config"
	"github.com/Raidoxe/BERTNews/internal/model"
	"github.com/Raidoxe/BERTNews/internal/pkg/timeutil"
)

var defaultFeeds = []string{
	"https://www.reuters.com/world/rss",
	"https://rss.nytimes.com/services/xml/rss/nyt/HomePage.xml",
	"https://feeds.washingtonpost.com/rss/world",
	"https://www.aljazeera.com/xml/rss/all.xml",
	"https://www.theguardian.com/world/rss",
	"https://feeds.skynews.com/feeds/rss/world.xml",
	"https://feeds.bbci.co.uk/news/world/rss.xml",
	"https://feeds.npr.org/1001/rss.xml",
	"https://www.cbsnews.com/latest/rss/main",
	"https://www.usatoday.com/rss/news/",
	"https://time.com/feed/",
	"https://www.politico.com/rss/politics-news.xml",
	"https://www.theatlantic.com/feed/all/",
	"https://feeds.feedburner.com/TechCrunch/",
	"https://www.theverge.com/rss/index.xml",
}

// IngestStats summarizes one feed scan.
type IngestStats struct {
	Feeds    int `json:"feeds"`
	Fetched  int `json:"fetched"`
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// IngestService pulls RSS feeds, embeds new articles and keeps their
// metadata fresh. It owns the article_embeddings table; the ranking core
// only reads it.
type IngestService struct {
	articles ArticleStore
	embedder ai.IEmbedder
	dim      int
	parser   *gofeed.Parser
	client   *http.Client
	cfg      config.IngestConfig
}

// NewIngestService wires the scan pipeline. embeddingDim is the configured
// vector column size; embedder output of any other length is rejected before
// it reaches the database.
func NewIngestService(articles ArticleStore, embedder ai.IEmbedder, embeddingDim int, cfg config.IngestConfig) *IngestService {
	return &IngestService{
		articles: articles,
		embedder: embedder,
		dim:      embeddingDim,
		parser:   gofeed.NewParser(),
		client:   &http.Client{Timeout: time.Duration(cfg.FetchTimeoutSec) * time.Second},
		cfg:      cfg,
	}
}

// ScanFeeds parses the given feeds (configured/default ones when empty),
// dedupes by link, embeds new items and upserts them. Feed failures are
// logged and skipped; a single bad feed never aborts the scan.
func (s *IngestService) ScanFeeds(ctx context.Context, feeds []string) (*IngestStats, error) {
	if len(feeds) == 0 {
		feeds = s.cfg.Feeds
	}
	if len(feeds) == 0 {
		feeds = defaultFeeds
	}
	if len(feeds) > s.cfg.MaxFeeds {
		feeds = feeds[:s.cfg.MaxFeeds]
	}

	existing, err := s.articles.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]*model.Article, len(existing))
	for i := range existing {
		known[existing[i].Link] = &existing[i]
	}

	stats := &IngestStats{Feeds: len(feeds)}
	logger := logutil.GetLogger(ctx)
	for _, feedURL := range feeds {
		feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			logger.Warn("feed parse failed", zap.String("feed", feedURL), zap.Error(err))
			continue
		}
		for _, item := range feed.Items {
			if err := s.ingestItem(ctx, item, known, stats); err != nil {
				return nil, err
			}
		}
	}
	logger.Info("feed scan finished",
		zap.Int("feeds", stats.Feeds),
		zap.Int("inserted", stats.Inserted),
		zap.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

func (s *IngestService) ingestItem(ctx context.Context, item *gofeed.Item, known map[string]*model.Article, stats *IngestStats) error {
	link := item.Link
	if link == "" && strings.HasPrefix(strings.ToLower(item.GUID), "http") {
		link = item.GUID
	}
	if link == "" {
		stats.Skipped++
		return nil
	}

	title := stripHTML(item.Title)
	desc := stripHTML(item.Description)
	if desc == "" {
		desc = stripHTML(item.Content)
	}
	if title == "" || desc == "" {
		metaTitle, metaDesc := s.fetchPageMeta(ctx, link)
		if title == "" {
			title = metaTitle
		}
		if desc == "" {
			desc = metaDesc
		}
	}

	if art, ok := known[link]; ok {
		// Backfill metadata the feed was missing last time around.
		needTitle := art.Title == "" && title != ""
		needDesc := art.Description == "" && desc != ""
		if needTitle || needDesc {
			if needTitle {
				art.Title = title
			}
			if needDesc {
				art.Description = desc
			}
			if err := s.articles.UpdateMeta(ctx, art.ID, art.Title, art.Description, timeutil.NowUnixMilli()); err != nil {
				return err
			}
		}
		stats.Skipped++
		return nil
	}

	if title == "" {
		title = deriveTitleFromURL(link)
	}
	vec, err := s.embedder.Embed(ctx, joinText(title, desc))
	if err != nil {
		return err
	}
	if s.dim > 0 && len(vec) != s.dim {
		return fmt.Errorf("embedder %q returned %d dims, column expects %d",
			s.embedder.ModelName(), len(vec), s.dim)
	}
	art := &model.Article{
		ID:          link,
		Title:       title,
		Description: desc,
		Link:        link,
		Dim:         len(vec),
		Vector:      vec,
		UpdatedAt:   timeutil.NowUnixMilli(),
	}
	if err := s.articles.Upsert(ctx, art); err != nil {
		return err
	}
	known[link] = art
	stats.Fetched++
	stats.Inserted++
	return nil
}

// RepairEmptyArticles re-scrapes stored rows that still lack a title or
// description and returns how many were updated.
func (s *IngestService) RepairEmptyArticles(ctx context.Context) (int, error) {
	rows, err := s.articles.ListEmptyMeta(ctx)
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, art := range rows {
		title, desc := s.fetchPageMeta(ctx, art.Link)
		if title == "" && desc == "" {
			continue
		}
		if err := s.articles.UpdateMeta(ctx, art.ID, title, desc, timeutil.NowUnixMilli()); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// fetchPageMeta pulls og:title/og:description (falling back to <title> and
// the description meta tag) from the article page. Scrape failures degrade
// to empty strings; ingest carries on without metadata.
func (s *IngestService) fetchPageMeta(ctx context.Context, link string) (string, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", ""
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", ""
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", ""
	}
	title, _ := doc.Find(`meta[property="og:title"]`).Attr("content")
	if title == "" {
		title = doc.Find("title").First().Text()
	}
	desc, _ := doc.Find(`meta[property="og:description"]`).Attr("content")
	if desc == "" {
		desc, _ = doc.Find(`meta[name="description"]`).Attr("content")
	}
	return clip(stripHTML(title), 500), clip(stripHTML(desc), 2000)
}

var (
	tagRegex   = regexp.MustCompile(`<[^>]*>`)
	spaceRegex = regexp.MustCompile(`\s+`)
)

func stripHTML(input string) string {
	if input == "" {
		return ""
	}
	out := tagRegex.ReplaceAllString(input, "")
	return strings.TrimSpace(spaceRegex.ReplaceAllString(out, " "))
}

func clip(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

var extRegex = regexp.MustCompile(`\.[a-z0-9]{2,4}$`)

func deriveTitleFromURL(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	parts := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	last := u.Hostname()
	if len(parts) > 0 {
		last = parts[len(parts)-1]
	}
	if unescaped, err := url.PathUnescape(last); err == nil {
		last = unescaped
	}
	cleaned := strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(last))
	cleaned = extRegex.ReplaceAllString(cleaned, "")
	if cleaned == "" {
		return u.Hostname()
	}
	return cleaned
}
