// Package screening implements the stock screens: pure filters and sorts
// over a scored snapshot. Filters decide membership; sorting only orders
// what the filter admitted.
package screening

import (
	"fmt"
	"strings"
)

// Config holds the screen thresholds.
type Config struct {
	// Discount-with-quality screen: a P/VP band plus quality floors.
	// The band's lower bound keeps deep-discount funds out; a price far
	// below book usually prices in a real problem.
	DiscountPVPLow           float64 // inclusive
	DiscountPVPHigh          float64 // exclusive
	DiscountDY3Min           float64 // percent
	DiscountDY6Min           float64 // percent
	DiscountDY12Min          float64 // percent
	DiscountLiquidityMinMM   float64
	DiscountNetAssetsMinMM   float64
	DiscountShareholdersMinK float64
	DiscountTopN             int // 0 returns every match; truncation is opt-in

	// Largest-funds screen.
	LargestTopN int

	// Entry-level screen: cheap tickets from the discount screen whose
	// yield is still believable.
	EntryPriceMax float64 // currency units
	EntryDY12Max  float64 // percent, excludes implausible yields
	EntryTopN     int
}

// DefaultConfig returns the production screen thresholds.
func DefaultConfig() Config {
	return Config{
		DiscountPVPLow:           0.85,
		DiscountPVPHigh:          1.00,
		DiscountDY3Min:           3.0,
		DiscountDY6Min:           6.0,
		DiscountDY12Min:          12.0,
		DiscountLiquidityMinMM:   1.0,
		DiscountNetAssetsMinMM:   500.0,
		DiscountShareholdersMinK: 10.0,
		DiscountTopN:             0,
		LargestTopN:              10,
		EntryPriceMax:            30.0,
		EntryDY12Max:             24.0,
		EntryTopN:                10,
	}
}

// Criteria is the free-form screen: every set bound must hold (AND
// semantics); nil bounds are ignored.
type Criteria struct {
	PVPMin           *float64 `json:"pvp_min,omitempty"`
	PVPMax           *float64 `json:"pvp_max,omitempty"`
	DY12Min          *float64 `json:"dy_12m_min,omitempty"`
	PriceMax         *float64 `json:"price_max,omitempty"`
	LiquidityMinMM   *float64 `json:"liquidity_min_mm,omitempty"`
	NetAssetsMinMM   *float64 `json:"net_assets_min_mm,omitempty"`
	ShareholdersMinK *float64 `json:"shareholders_min_k,omitempty"`
	MinScore         *int     `json:"min_score,omitempty"`

	// SortBy orders the admitted funds: one of "dy_12m" (default, desc),
	// "price" (asc), "pvp" (asc), "net_assets" (desc), "liquidity"
	// (desc), "score" (desc). Unknown names are a hard error, not a
	// silent default.
	SortBy string `json:"sort_by,omitempty"`

	Limit int `json:"limit,omitempty"`
}

var sortKeys = map[string]bool{
	"":           true,
	"dy_12m":     true,
	"price":      true,
	"pvp":        true,
	"net_assets": true,
	"liquidity":  true,
	"score":      true,
}

// Validate rejects criteria that reference unknown sort keys or nonsense
// bounds before any filtering runs.
func (c Criteria) Validate() error {
	if !sortKeys[strings.ToLower(c.SortBy)] {
		return fmt.Errorf("unknown sort key %q", c.SortBy)
	}
	if c.PVPMin != nil && c.PVPMax != nil && *c.PVPMin > *c.PVPMax {
		return fmt.Errorf("pvp_min %.2f exceeds pvp_max %.2f", *c.PVPMin, *c.PVPMax)
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	return nil
}
