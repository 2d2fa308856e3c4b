// Package brapi is a thin client for the brapi.dev quote API, the price and
// dividend source for B3-listed funds.
package brapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/refera/fiish/internal/modules/marketdata"
)

const defaultBaseURL = "https://brapi.dev/api"

// Client talks to brapi.dev. It implements marketdata.PriceProvider and
// marketdata.DividendProvider.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	retries int
	log     zerolog.Logger
}

// NewClient creates a brapi client. baseURL may be empty for production;
// token may be empty for the anonymous tier.
func NewClient(baseURL, token string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		retries: 3,
		log:     log.With().Str("client", "brapi").Logger(),
	}
}

type historicalPrice struct {
	Date  int64   `json:"date"`
	Close float64 `json:"close"`
}

type cashDividend struct {
	PaymentDate string  `json:"paymentDate"`
	Rate        float64 `json:"rate"`
}

type quoteResult struct {
	Symbol              string            `json:"symbol"`
	HistoricalDataPrice []historicalPrice `json:"historicalDataPrice"`
	DividendsData       struct {
		CashDividends []cashDividend `json:"cashDividends"`
	} `json:"dividendsData"`
}

type quoteResponse struct {
	Results []quoteResult `json:"results"`
	Error   bool          `json:"error"`
	Message string        `json:"message"`
}

// GetPriceHistory fetches daily closes covering at least the trailing number
// of days.
func (c *Client) GetPriceHistory(ctx context.Context, ticker string, days int) ([]marketdata.PricePoint, error) {
	params := url.Values{}
	params.Set("range", rangeFor(days))
	params.Set("interval", "1d")

	resp, err := c.getQuote(ctx, ticker, params)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	var points []marketdata.PricePoint
	for _, p := range resp.HistoricalDataPrice {
		if p.Close <= 0 {
			continue // the API pads holidays with zeros
		}
		date := time.Unix(p.Date, 0)
		if date.Before(cutoff) {
			continue
		}
		points = append(points, marketdata.PricePoint{Date: date, Close: p.Close})
	}

	c.log.Debug().Str("ticker", ticker).Int("points", len(points)).Msg("Fetched price history")
	return points, nil
}

// GetDividendHistory fetches the cash payout history.
func (c *Client) GetDividendHistory(ctx context.Context, ticker string) ([]marketdata.DividendPayment, error) {
	params := url.Values{}
	params.Set("dividends", "true")

	resp, err := c.getQuote(ctx, ticker, params)
	if err != nil {
		return nil, err
	}

	var payments []marketdata.DividendPayment
	for _, d := range resp.DividendsData.CashDividends {
		date, err := parsePaymentDate(d.PaymentDate)
		if err != nil {
			c.log.Warn().Str("ticker", ticker).Str("date", d.PaymentDate).Msg("Skipping dividend with unparseable date")
			continue
		}
		payments = append(payments, marketdata.DividendPayment{Date: date, Amount: d.Rate})
	}

	c.log.Debug().Str("ticker", ticker).Int("payments", len(payments)).Msg("Fetched dividend history")
	return payments, nil
}

func (c *Client) getQuote(ctx context.Context, ticker string, params url.Values) (*quoteResult, error) {
	if c.token != "" {
		params.Set("token", c.token)
	}
	reqURL := c.baseURL + "/quote/" + url.PathEscape(ticker) + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<uint(attempt-1)) * time.Second
			c.log.Warn().Err(lastErr).
				Str("ticker", ticker).
				Int("attempt", attempt+1).
				Dur("wait", wait).
				Msg("Retrying brapi request")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := c.doRequest(ctx, reqURL)
		if err != nil {
			lastErr = err
			continue
		}
		return result, nil
	}
	return nil, fmt.Errorf("failed after %d attempts: %w", c.retries, lastErr)
}

func (c *Client) doRequest(ctx context.Context, reqURL string) (*quoteResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("brapi returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result quoteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Error {
		return nil, fmt.Errorf("brapi error: %s", result.Message)
	}
	if len(result.Results) == 0 {
		return nil, fmt.Errorf("no quote data returned")
	}
	return &result.Results[0], nil
}

// parsePaymentDate accepts the two formats the API is known to emit.
func parsePaymentDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// rangeFor maps a trailing day count to the closest brapi range label.
func rangeFor(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	case days <= 730:
		return "2y"
	default:
		return "5y"
	}
}
