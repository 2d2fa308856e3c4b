package funds

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refera/fiish/internal/modules/scoring"
	"github.com/refera/fiish/internal/modules/snapshot"
)

func newTestService() *Service {
	return NewService(DefaultConfig(), zerolog.Nop())
}

func fundWith(price, dy12 float64) scoring.ScoredFund {
	return scoring.ScoredFund{
		FundRecord: snapshot.FundRecord{Ticker: "MXRF11", Price: price, DY12M: dy12},
		Score:      9,
		MaxScore:   9,
		Tier:       scoring.TierApproved,
	}
}

func TestCompareWithSelic(t *testing.T) {
	s := newTestService()

	// Net Selic: 15.0 × (1 − 0.225) = 11.625, band ±2pp.
	tests := []struct {
		name   string
		dy12   float64
		status string
	}{
		{"well above", 14.0, "Acima da Selic"},
		{"at upper edge", 13.625, "Acima da Selic"},
		{"inside band", 12.0, "Em linha com a Selic"},
		{"at net rate", 11.625, "Em linha com a Selic"},
		{"at lower edge", 9.625, "Abaixo da Selic"},
		{"well below", 6.0, "Abaixo da Selic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.compareWithSelic(tt.dy12)
			assert.Equal(t, tt.status, got.Status)
			assert.InDelta(t, 11.625, got.NetRatePct, 1e-9)
		})
	}
}

func TestSimulateIncome(t *testing.T) {
	s := newTestService()

	sim := s.simulateIncome(fundWith(100.0, 12.0), 10000.0)

	assert.Equal(t, 100, sim.Shares)
	assert.InDelta(t, 10000.0, sim.Invested, 1e-9)
	assert.InDelta(t, 1200.0, sim.AnnualIncome, 1e-9)
	assert.InDelta(t, 100.0, sim.MonthlyIncome, 1e-9)
	// Compound equivalent of 12% a year is just under 1% a month.
	assert.InDelta(t, 0.9489, sim.MonthlyYieldPct, 1e-3)

	// Fractional shares are not bought.
	sim = s.simulateIncome(fundWith(300.0, 12.0), 1000.0)
	assert.Equal(t, 3, sim.Shares)
	assert.InDelta(t, 900.0, sim.Invested, 1e-9)
}

func TestReinvestmentPlan(t *testing.T) {
	s := newTestService()

	plan := s.reinvestmentPlan(fundWith(100.0, 12.0))
	require.NotNil(t, plan)

	// R$ 1,00 of dividends per share per month: 100 shares buy one new
	// share a month.
	assert.InDelta(t, 1.0, plan.MonthlyDividendPerShare, 1e-9)
	assert.Equal(t, 100, plan.SharesNeeded)
	assert.InDelta(t, 10000.0, plan.CapitalRequired, 1e-9)

	// A ratio that does not divide evenly rounds up, never down.
	plan = s.reinvestmentPlan(fundWith(10.0, 11.0))
	require.NotNil(t, plan)
	assert.Equal(t, 110, plan.SharesNeeded)

	assert.Nil(t, s.reinvestmentPlan(fundWith(10.0, 0)))
	assert.Nil(t, s.reinvestmentPlan(fundWith(0, 12.0)))
}

func TestAnalyzeUsesDefaultNotional(t *testing.T) {
	s := newTestService()

	a := s.Analyze(fundWith(100.0, 12.0), 0)
	assert.InDelta(t, 10000.0, a.Income.Notional, 1e-9)
	require.NotNil(t, a.Reinvestment)

	a = s.Analyze(fundWith(100.0, 12.0), 50000.0)
	assert.InDelta(t, 50000.0, a.Income.Notional, 1e-9)
	assert.Equal(t, 500, a.Income.Shares)
}
