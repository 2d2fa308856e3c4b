package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Google News</title>
    <item>
      <title>MXRF11 anuncia novo rendimento</title>
      <link>https://example.com/a</link>
      <pubDate>Fri, 28 Aug 2026 12:00:00 -0300</pubDate>
    </item>
    <item>
      <title>Análise do setor de papéis</title>
      <link>https://example.com/b</link>
      <pubDate>Mon, 03 Jan 2022 09:00:00 -0300</pubDate>
    </item>
    <item>
      <title>Sem data utilizável</title>
      <link>https://example.com/c</link>
      <pubDate>yesterday</pubDate>
    </item>
  </channel>
</rss>`

func newTestClient(t *testing.T, status int, body string) *GoogleNewsClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pt-BR", r.URL.Query().Get("hl"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewGoogleNewsClient(srv.URL, zerolog.Nop())
}

func TestSearchFiltersByDate(t *testing.T) {
	c := newTestClient(t, http.StatusOK, sampleFeed)

	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	items, err := c.Search(context.Background(), "MXRF11 fundo imobiliário FII", since, 10)
	require.NoError(t, err)

	// The 2022 item is outside the window and the undated one is
	// dropped.
	require.Len(t, items, 1)
	assert.Equal(t, "MXRF11 anuncia novo rendimento", items[0].Title)
	assert.Equal(t, "https://example.com/a", items[0].Link)
}

func TestSearchHonorsLimit(t *testing.T) {
	c := newTestClient(t, http.StatusOK, sampleFeed)

	items, err := c.Search(context.Background(), "FII", time.Time{}, 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestSearchUpstreamFailure(t *testing.T) {
	c := newTestClient(t, http.StatusBadGateway, "")

	_, err := c.Search(context.Background(), "FII", time.Time{}, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSearchMalformedFeed(t *testing.T) {
	c := newTestClient(t, http.StatusOK, "{not xml}")

	_, err := c.Search(context.Background(), "FII", time.Time{}, 5)
	require.Error(t, err)
}

type fakeProvider struct {
	query string
	items []Item
}

func (f *fakeProvider) Search(_ context.Context, query string, _ time.Time, _ int) ([]Item, error) {
	f.query = query
	return f.items, nil
}

func TestFundNewsBuildsQuery(t *testing.T) {
	p := &fakeProvider{items: []Item{{Title: "t"}}}
	s := NewService(p, 30, 5, zerolog.Nop())

	items, err := s.FundNews(context.Background(), "HGLG11")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "HGLG11 fundo imobiliário FII", p.query)
}
