// Package news fetches recent headlines about a fund from the Google News
// RSS feed.
package news

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

const defaultFeedURL = "https://news.google.com/rss/search"

// Item is one headline.
type Item struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"`
}

// Provider fetches headlines for a search query within a trailing window.
type Provider interface {
	Search(ctx context.Context, query string, since time.Time, limit int) ([]Item, error)
}

// rss mirrors the subset of the feed we read.
type rss struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
}

// GoogleNewsClient is the production Provider, querying the pt-BR edition.
type GoogleNewsClient struct {
	feedURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewGoogleNewsClient creates a Google News client. feedURL may be empty for
// production.
func NewGoogleNewsClient(feedURL string, log zerolog.Logger) *GoogleNewsClient {
	if feedURL == "" {
		feedURL = defaultFeedURL
	}
	return &GoogleNewsClient{
		feedURL: feedURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log.With().Str("client", "googlenews").Logger(),
	}
}

// Search fetches the feed for a query and keeps items published after since,
// newest first, up to limit.
func (c *GoogleNewsClient) Search(ctx context.Context, query string, since time.Time, limit int) ([]Item, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", "pt-BR")
	params.Set("gl", "BR")
	params.Set("ceid", "BR:pt-419")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}

	var feed rss
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	var items []Item
	for _, entry := range feed.Channel.Items {
		published, err := parsePubDate(entry.PubDate)
		if err != nil {
			continue // entries without a usable date are dropped
		}
		if published.Before(since) {
			continue
		}

		items = append(items, Item{
			Title:       entry.Title,
			Link:        entry.Link,
			PublishedAt: published,
		})
		if limit > 0 && len(items) >= limit {
			break
		}
	}

	c.log.Debug().Str("query", query).Int("items", len(items)).Msg("Fetched news feed")
	return items, nil
}

// parsePubDate handles the RFC1123 variants Google News emits.
func parsePubDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
