package marketdata

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/markcheno/go-talib"
	"github.com/rs/zerolog"

	"github.com/refera/fiish/pkg/formulas"
)

// periodDays maps the accepted period names to trailing calendar days.
var periodDays = map[string]int{
	"1m": 30,
	"3m": 90,
	"6m": 180,
	"1y": 365,
	"2y": 730,
	"5y": 1825,
}

// Service computes return, volatility and moving-average overlays from the
// provider's raw series.
type Service struct {
	prices    PriceProvider
	dividends DividendProvider
	log       zerolog.Logger
}

// NewService creates a new market data service.
func NewService(prices PriceProvider, dividends DividendProvider, log zerolog.Logger) *Service {
	return &Service{
		prices:    prices,
		dividends: dividends,
		log:       log.With().Str("service", "marketdata").Logger(),
	}
}

// History fetches and analyzes the close series for a period. smaWindow <= 0
// disables the overlay; an unknown period is a hard error.
func (s *Service) History(ctx context.Context, ticker, period string, smaWindow int) (HistoryAnalysis, error) {
	days, ok := periodDays[period]
	if !ok {
		return HistoryAnalysis{}, fmt.Errorf("unknown period %q", period)
	}

	points, err := s.prices.GetPriceHistory(ctx, ticker, days)
	if err != nil {
		return HistoryAnalysis{}, fmt.Errorf("failed to fetch price history for %s: %w", ticker, err)
	}
	if len(points) == 0 {
		return HistoryAnalysis{}, fmt.Errorf("no price history for %s over %s", ticker, period)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Close
	}

	analysis := HistoryAnalysis{
		Ticker:        ticker,
		Period:        period,
		Points:        points,
		FirstClose:    closes[0],
		LastClose:     closes[len(closes)-1],
		TotalReturn:   formulas.TotalReturnPct(closes),
		VolatilityPct: formulas.AnnualizedVolatility(formulas.DailyReturns(closes)) * 100,
	}

	span := points[len(points)-1].Date.Sub(points[0].Date).Hours() / 24
	analysis.AnnualReturn = formulas.AnnualizedReturnPct(closes, span)

	if smaWindow > 0 && len(closes) >= smaWindow {
		analysis.SMAWindow = smaWindow
		analysis.SMAOffset = smaWindow - 1
		analysis.SMA = talib.Sma(closes, smaWindow)
	}

	return analysis, nil
}

// Dividends fetches and summarizes the payout history.
func (s *Service) Dividends(ctx context.Context, ticker string) (DividendSummary, error) {
	payments, err := s.dividends.GetDividendHistory(ctx, ticker)
	if err != nil {
		return DividendSummary{}, fmt.Errorf("failed to fetch dividends for %s: %w", ticker, err)
	}

	sort.Slice(payments, func(i, j int) bool { return payments[i].Date.Before(payments[j].Date) })

	summary := DividendSummary{
		Ticker:   ticker,
		Payments: payments,
	}
	if len(payments) == 0 {
		return summary, nil
	}

	cutoff := time.Now().AddDate(-1, 0, 0)
	amounts := make([]float64, 0, len(payments))
	for _, p := range payments {
		amounts = append(amounts, p.Amount)
		if p.Date.After(cutoff) {
			summary.Sum12M += p.Amount
		}
	}

	summary.MeanPayment = formulas.Mean(amounts)
	last := payments[len(payments)-1]
	summary.LastPayment = &last
	return summary, nil
}
