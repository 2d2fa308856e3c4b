package brapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "test-token", zerolog.Nop())
	c.retries = 1
	return srv, c
}

func TestGetPriceHistory(t *testing.T) {
	recent := time.Now().AddDate(0, 0, -5).Unix()
	old := time.Now().AddDate(0, 0, -400).Unix()

	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote/MXRF11", r.URL.Path)
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))
		assert.Equal(t, "1mo", r.URL.Query().Get("range"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{{
				"symbol": "MXRF11",
				"historicalDataPrice": []map[string]interface{}{
					{"date": recent, "close": 10.25},
					{"date": recent, "close": 0}, // holiday padding
					{"date": old, "close": 9.80}, // outside the window
				},
			}},
		})
	})

	points, err := c.GetPriceHistory(context.Background(), "MXRF11", 30)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.InDelta(t, 10.25, points[0].Close, 1e-9)
}

func TestGetDividendHistory(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("dividends"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{{
				"symbol": "MXRF11",
				"dividendsData": map[string]interface{}{
					"cashDividends": []map[string]interface{}{
						{"paymentDate": "2026-07-15", "rate": 0.10},
						{"paymentDate": "2026-08-14T00:00:00Z", "rate": 0.11},
						{"paymentDate": "not-a-date", "rate": 0.12},
					},
				},
			}},
		})
	})

	payments, err := c.GetDividendHistory(context.Background(), "MXRF11")
	require.NoError(t, err)
	require.Len(t, payments, 2, "unparseable dates are skipped, not fatal")
	assert.InDelta(t, 0.10, payments[0].Amount, 1e-9)
	assert.InDelta(t, 0.11, payments[1].Amount, 1e-9)
}

func TestGetQuoteAPIError(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error":   true,
			"message": "ticker not found",
		})
	})

	_, err := c.GetPriceHistory(context.Background(), "ZZZZ99", 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ticker not found")
}

func TestGetQuoteHTTPError(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := c.GetPriceHistory(context.Background(), "MXRF11", 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestRangeFor(t *testing.T) {
	assert.Equal(t, "1mo", rangeFor(30))
	assert.Equal(t, "3mo", rangeFor(90))
	assert.Equal(t, "6mo", rangeFor(180))
	assert.Equal(t, "1y", rangeFor(365))
	assert.Equal(t, "2y", rangeFor(729))
	assert.Equal(t, "5y", rangeFor(1825))
}
