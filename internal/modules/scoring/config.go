// Package scoring evaluates the rule battery that turns a normalized fund
// record into a score, its human-readable reasons and a recommendation tier.
package scoring

// Config holds every threshold of the rule battery. The rule set is built
// from this value once at startup; MaxScore is derived from the enabled
// rules, never hard-coded.
type Config struct {
	// Valuation band for P/VP (fractions of book value). Passing requires
	// PVPBandLow <= P/VP < PVPBandHigh.
	PVPBandLow  float64
	PVPBandHigh float64

	// Minimum dividend yields per window, percent.
	DY3Min  float64
	DY6Min  float64
	DY12Min float64

	// Structure floors.
	LiquidityMinMM   float64 // R$ millions traded per day
	NetAssetsMinMM   float64 // R$ millions
	ShareholdersMinK float64 // thousands of holders

	// Implausibility ceiling for the 12-month yield, percent. Evaluated
	// last so its message never shadows a more specific one.
	DY12Ceiling float64

	// AdminFeeCap enables an extra rule capping the annual administration
	// fee, percent. Zero disables the rule entirely. Funds that do not
	// disclose the fee skip the rule without score or message.
	AdminFeeCap float64

	// TierMargin is how many points below MaxScore a fund may sit and
	// still be WATCH instead of BLOCKED.
	TierMargin int
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		PVPBandLow:       0.80,
		PVPBandHigh:      1.00,
		DY3Min:           3.0,
		DY6Min:           6.0,
		DY12Min:          12.0,
		LiquidityMinMM:   1.0,
		NetAssetsMinMM:   500.0,
		ShareholdersMinK: 10.0,
		DY12Ceiling:      30.0,
		AdminFeeCap:      0,
		TierMargin:       3,
	}
}
