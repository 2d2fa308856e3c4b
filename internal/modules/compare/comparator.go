// Package compare ranks two funds head-to-head across a weighted metric set.
package compare

import (
	"github.com/rs/zerolog"

	"github.com/refera/fiish/internal/modules/snapshot"
)

// Config carries the metric weights. A zero weight removes the metric from
// the duel entirely.
type Config struct {
	WPrice     int // lower price wins
	WPVP       int // lower P/VP wins
	WDY12      int // higher 12-month yield wins
	WLiquidity int // higher liquidity wins
	WNetAssets int // higher net assets wins; off by default
}

// DefaultConfig returns the production weights: yield dominates, valuation
// is next, price and liquidity break the rest.
func DefaultConfig() Config {
	return Config{
		WPrice:     1,
		WPVP:       2,
		WDY12:      3,
		WLiquidity: 1,
		WNetAssets: 0,
	}
}

// MetricResult is one round of the duel.
type MetricResult struct {
	Name          string  `json:"name"`
	A             float64 `json:"a"`
	B             float64 `json:"b"`
	Weight        int     `json:"weight"`
	LowerIsBetter bool    `json:"lower_is_better"`
	Winner        string  `json:"winner"` // "a", "b" or "tie"
}

// Verdict is the full outcome of a comparison.
type Verdict struct {
	TickerA string         `json:"ticker_a"`
	TickerB string         `json:"ticker_b"`
	Metrics []MetricResult `json:"metrics"`
	PointsA int            `json:"points_a"`
	PointsB int            `json:"points_b"`
	Winner  string         `json:"winner"` // "a", "b" or "tie"
}

type metric struct {
	name          string
	weight        int
	lowerIsBetter bool
	value         func(snapshot.FundRecord) float64
}

// Comparator runs weighted pairwise comparisons. Pure and antisymmetric:
// swapping the operands swaps the verdict.
type Comparator struct {
	metrics []metric
	log     zerolog.Logger
}

// NewComparator builds the metric list from the configured weights.
func NewComparator(cfg Config, log zerolog.Logger) *Comparator {
	all := []metric{
		{"price", cfg.WPrice, true, func(f snapshot.FundRecord) float64 { return f.Price }},
		{"p_vp", cfg.WPVP, true, func(f snapshot.FundRecord) float64 { return f.PVP }},
		{"dy_12m", cfg.WDY12, false, func(f snapshot.FundRecord) float64 { return f.DY12M }},
		{"liquidity", cfg.WLiquidity, false, func(f snapshot.FundRecord) float64 { return f.LiquidityMM }},
		{"net_assets", cfg.WNetAssets, false, func(f snapshot.FundRecord) float64 { return f.NetAssetsMM }},
	}

	enabled := make([]metric, 0, len(all))
	for _, m := range all {
		if m.weight > 0 {
			enabled = append(enabled, m)
		}
	}

	return &Comparator{
		metrics: enabled,
		log:     log.With().Str("service", "compare").Logger(),
	}
}

// Compare runs every enabled metric and totals the points. Equal values are
// a tie for that metric and award nothing.
func (c *Comparator) Compare(a, b snapshot.FundRecord) Verdict {
	v := Verdict{
		TickerA: a.Ticker,
		TickerB: b.Ticker,
		Metrics: make([]MetricResult, 0, len(c.metrics)),
	}

	for _, m := range c.metrics {
		va, vb := m.value(a), m.value(b)

		mr := MetricResult{
			Name:          m.name,
			A:             va,
			B:             vb,
			Weight:        m.weight,
			LowerIsBetter: m.lowerIsBetter,
			Winner:        "tie",
		}

		switch {
		case va == vb:
			// no points
		case (va < vb) == m.lowerIsBetter:
			mr.Winner = "a"
			v.PointsA += m.weight
		default:
			mr.Winner = "b"
			v.PointsB += m.weight
		}

		v.Metrics = append(v.Metrics, mr)
	}

	switch {
	case v.PointsA > v.PointsB:
		v.Winner = "a"
	case v.PointsB > v.PointsA:
		v.Winner = "b"
	default:
		v.Winner = "tie"
	}
	return v
}
