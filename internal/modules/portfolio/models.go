// Package portfolio reviews user positions against the scored snapshot.
package portfolio

// Position is one user holding as submitted for review.
type Position struct {
	Ticker      string  `json:"ticker"`
	Quantity    int     `json:"quantity"`
	AverageCost float64 `json:"average_cost"`
}

// PositionReport is the per-position slice of a review.
type PositionReport struct {
	Ticker       string  `json:"ticker"`
	Quantity     int     `json:"quantity"`
	AverageCost  float64 `json:"average_cost"`
	CurrentPrice float64 `json:"current_price"`
	MarketValue  float64 `json:"market_value"`

	// UnrealizedReturnPct is nil when the average cost is zero: the
	// return is undefined there, never infinite.
	UnrealizedReturnPct *float64 `json:"unrealized_return_pct"`
	CostBasisUndefined  bool     `json:"cost_basis_undefined,omitempty"`

	MonthlyIncomeEstimate float64 `json:"monthly_income_estimate"`

	Score    int      `json:"score"`
	MaxScore int      `json:"max_score"`
	Tier     string   `json:"tier"`
	Blockers []string `json:"blockers"`
}

// Totals aggregates the whole portfolio. Annualization is simple (monthly
// yield times twelve), not compound.
type Totals struct {
	TotalInvested       float64  `json:"total_invested"`
	TotalMarketValue    float64  `json:"total_market_value"`
	TotalMonthlyIncome  float64  `json:"total_monthly_income"`
	MonthlyYieldPct     *float64 `json:"monthly_yield_pct"`
	AnnualizedYieldPct  *float64 `json:"annualized_yield_pct"`
	UnrealizedReturnPct *float64 `json:"unrealized_return_pct"`
}

// RiskSummary counts the portfolio's weak spots.
type RiskSummary struct {
	BlockedCount     int `json:"blocked_count"`
	LosingCount      int `json:"losing_count"`
	BlockedAndLosing int `json:"blocked_and_losing"`
}

// Report is one full portfolio review.
type Report struct {
	ID            string           `json:"id"`
	ReferenceDate string           `json:"reference_date"`
	Positions     []PositionReport `json:"positions"`
	Unresolved    []string         `json:"unresolved,omitempty"`
	Totals        Totals           `json:"totals"`
	Risk          RiskSummary      `json:"risk"`
}
