package snapshot

import "fmt"

// requiredField pairs a metric name with its accessor on the normalized row.
// Funds missing any of these cannot be scored and are dropped from the
// snapshot rather than carried with holes.
var requiredFields = []struct {
	name string
	get  func(normalizedRecord) *float64
}{
	{"price", func(r normalizedRecord) *float64 { return r.Price }},
	{"p_vp", func(r normalizedRecord) *float64 { return r.PVP }},
	{"dy_3m", func(r normalizedRecord) *float64 { return r.DY3M }},
	{"dy_6m", func(r normalizedRecord) *float64 { return r.DY6M }},
	{"dy_12m", func(r normalizedRecord) *float64 { return r.DY12M }},
	{"last_dividend", func(r normalizedRecord) *float64 { return r.LastDividend }},
	{"net_assets", func(r normalizedRecord) *float64 { return r.NetAssetsMM }},
	{"daily_liquidity", func(r normalizedRecord) *float64 { return r.LiquidityMM }},
	{"shareholders", func(r normalizedRecord) *float64 { return r.ShareholdersK }},
}

// ValidationError reports why a normalized row was rejected.
type ValidationError struct {
	Ticker  string
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("fund %s is missing required fields: %v", e.Ticker, e.Missing)
}

// Validate promotes a normalized row to a FundRecord, or explains why it
// cannot be used. Optional metrics stay pointers; required ones become plain
// values so downstream code never re-checks them.
func Validate(rec normalizedRecord) (FundRecord, error) {
	if rec.Ticker == "" {
		return FundRecord{}, &ValidationError{Ticker: "?", Missing: []string{"ticker"}}
	}

	var missing []string
	for _, f := range requiredFields {
		if f.get(rec) == nil {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return FundRecord{}, &ValidationError{Ticker: rec.Ticker, Missing: missing}
	}

	return FundRecord{
		Ticker:         rec.Ticker,
		Sector:         rec.Sector,
		Price:          *rec.Price,
		PVP:            *rec.PVP,
		PVPA:           rec.PVPA,
		DY3M:           *rec.DY3M,
		DY6M:           *rec.DY6M,
		DY12M:          *rec.DY12M,
		LastDividend:   *rec.LastDividend,
		NetAssetsMM:    *rec.NetAssetsMM,
		LiquidityMM:    *rec.LiquidityMM,
		ShareholdersK:  *rec.ShareholdersK,
		AssetCount:     rec.AssetCount,
		AdminFee:       rec.AdminFee,
		ManagementFee:  rec.ManagementFee,
		PerformanceFee: rec.PerformanceFee,
	}, nil
}
