// Package marketdata layers price-history and dividend analysis on top of a
// pluggable quote provider.
package marketdata

import (
	"context"
	"time"
)

// PricePoint is one daily close.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// DividendPayment is one historical payout per share.
type DividendPayment struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// PriceProvider fetches daily closes for a ticker over a trailing window.
type PriceProvider interface {
	GetPriceHistory(ctx context.Context, ticker string, days int) ([]PricePoint, error)
}

// DividendProvider fetches the payout history for a ticker.
type DividendProvider interface {
	GetDividendHistory(ctx context.Context, ticker string) ([]DividendPayment, error)
}

// HistoryAnalysis is the computed view of a price series.
type HistoryAnalysis struct {
	Ticker        string       `json:"ticker"`
	Period        string       `json:"period"`
	Points        []PricePoint `json:"points"`
	FirstClose    float64      `json:"first_close"`
	LastClose     float64      `json:"last_close"`
	TotalReturn   *float64     `json:"total_return_pct"`
	AnnualReturn  *float64     `json:"annualized_return_pct"`
	VolatilityPct float64      `json:"annualized_volatility_pct"`

	// SMA carries the moving-average overlay aligned with Points; leading
	// entries without enough history are NaN-free zeros trimmed by the
	// SMAOffset.
	SMAWindow int       `json:"sma_window,omitempty"`
	SMAOffset int       `json:"sma_offset,omitempty"`
	SMA       []float64 `json:"sma,omitempty"`
}

// DividendSummary is the computed view of a payout history.
type DividendSummary struct {
	Ticker      string            `json:"ticker"`
	Payments    []DividendPayment `json:"payments"`
	Sum12M      float64           `json:"sum_12m"`
	MeanPayment float64           `json:"mean_payment"`
	LastPayment *DividendPayment  `json:"last_payment,omitempty"`
}
