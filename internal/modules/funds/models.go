// Package funds serves the per-fund views: the scored record itself plus
// the derived income analysis shown on a fund's page.
package funds

import "github.com/refera/fiish/internal/modules/scoring"

// SelicComparison relates a fund's trailing yield to the net risk-free rate.
type SelicComparison struct {
	GrossRatePct float64 `json:"gross_rate_pct"`
	NetRatePct   float64 `json:"net_rate_pct"` // gross after income tax
	BandPP       float64 `json:"band_pp"`      // tolerance in percentage points
	Status       string  `json:"status"`       // pt-BR display string
}

// IncomeSimulation projects dividends for a notional investment at the
// fund's current price and trailing yield.
type IncomeSimulation struct {
	Notional        float64 `json:"notional"`
	Shares          int     `json:"shares"` // whole shares the notional buys
	Invested        float64 `json:"invested"`
	MonthlyIncome   float64 `json:"monthly_income"`
	AnnualIncome    float64 `json:"annual_income"`
	MonthlyYieldPct float64 `json:"monthly_yield_pct"` // compound equivalent
}

// ReinvestmentPlan is the self-sustaining threshold: how many shares must be
// held before one month of dividends buys at least one new share.
type ReinvestmentPlan struct {
	MonthlyDividendPerShare float64 `json:"monthly_dividend_per_share"`
	SharesNeeded            int     `json:"shares_needed"`
	CapitalRequired         float64 `json:"capital_required"`
}

// Analysis is the full per-fund view.
type Analysis struct {
	Fund         scoring.ScoredFund `json:"fund"`
	Selic        SelicComparison    `json:"selic"`
	Income       IncomeSimulation   `json:"income"`
	Reinvestment *ReinvestmentPlan  `json:"reinvestment,omitempty"` // nil when the fund pays nothing
}
