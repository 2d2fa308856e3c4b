// Package snapshot owns the daily fund dataset: loading the raw
// locale-formatted rows, normalizing them into typed records and serving an
// immutable, cached Snapshot to the rest of the application.
package snapshot

import "time"

// RawFundRecord is one row of the externally refreshed dataset, exactly as it
// arrives: Brazilian locale strings (thousands ".", decimals ",", "%" and
// "a.a" suffixes) that still need normalization. The json tags are the ingest
// payload contract; the scraper posts rows verbatim.
type RawFundRecord struct {
	Ticker         string `json:"ticker"`
	Sector         string `json:"sector,omitempty"`
	Price          string `json:"price"` // integer cents, e.g. "10.250" = R$ 102,50
	PVP            string `json:"pvp"`   // raw percentage, e.g. "92" = 0.92
	PVPA           string `json:"pvpa,omitempty"`
	DY3M           string `json:"dy_3m"`
	DY6M           string `json:"dy_6m"`
	DY12M          string `json:"dy_12m"`
	LastDividend   string `json:"last_dividend"` // integer cents
	NetAssets      string `json:"net_assets"`    // currency units
	AssetCount     *int   `json:"asset_count,omitempty"`
	Shareholders   string `json:"shareholders"`
	DailyLiquidity string `json:"daily_liquidity"` // currency units
	AdminFee       string `json:"admin_fee,omitempty"` // e.g. "1,10% a.a", may be empty
	ManagementFee  string `json:"management_fee,omitempty"`
	PerformanceFee string `json:"performance_fee,omitempty"`
}

// FundRecord is a fully normalized fund row. All required metrics are plain
// values in canonical units (fractions, millions, thousands); optional
// metrics are pointers where nil means "not disclosed", which is distinct
// from zero.
type FundRecord struct {
	Ticker string `json:"ticker"`
	Sector string `json:"sector,omitempty"`

	// Valuation
	Price float64  `json:"price"`           // currency units
	PVP   float64  `json:"p_vp"`            // fraction, 0.92 = 92% of book
	PVPA  *float64 `json:"p_vpa,omitempty"` // fraction, nil if undisclosed

	// Income, percentages on the 0-100 scale
	DY3M         float64 `json:"dy_3m"`
	DY6M         float64 `json:"dy_6m"`
	DY12M        float64 `json:"dy_12m"`
	LastDividend float64 `json:"last_dividend"`

	// Structure
	NetAssetsMM   float64 `json:"net_assets_mm"`      // millions
	LiquidityMM   float64 `json:"daily_liquidity_mm"` // millions per day
	ShareholdersK float64 `json:"shareholders_k"`     // thousands
	AssetCount    *int    `json:"asset_count,omitempty"`

	// Costs, percentages per annum, nil if undisclosed
	AdminFee       *float64 `json:"admin_fee,omitempty"`
	ManagementFee  *float64 `json:"management_fee,omitempty"`
	PerformanceFee *float64 `json:"performance_fee,omitempty"`
}

// Snapshot is one dated, immutable collection of normalized fund records.
// Components never mutate it; derived data is always newly constructed.
type Snapshot struct {
	ReferenceDate string       `json:"reference_date"` // YYYY-MM-DD
	LoadedAt      time.Time    `json:"loaded_at"`
	Funds         []FundRecord `json:"funds"`

	byTicker map[string]int
}

// NewSnapshot builds a Snapshot and its ticker index.
func NewSnapshot(referenceDate string, funds []FundRecord) *Snapshot {
	s := &Snapshot{
		ReferenceDate: referenceDate,
		LoadedAt:      time.Now(),
		Funds:         funds,
		byTicker:      make(map[string]int, len(funds)),
	}
	for i, f := range funds {
		s.byTicker[f.Ticker] = i
	}
	return s
}

// Get returns the record for a ticker, or nil when the fund is not present
// in this snapshot.
func (s *Snapshot) Get(ticker string) *FundRecord {
	if i, ok := s.byTicker[ticker]; ok {
		f := s.Funds[i]
		return &f
	}
	return nil
}

// Len returns the number of funds in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.Funds)
}

// Tickers returns all fund tickers in snapshot order.
func (s *Snapshot) Tickers() []string {
	out := make([]string, len(s.Funds))
	for i, f := range s.Funds {
		out[i] = f.Ticker
	}
	return out
}

// reindex rebuilds the ticker index after deserialization.
func (s *Snapshot) reindex() {
	s.byTicker = make(map[string]int, len(s.Funds))
	for i, f := range s.Funds {
		s.byTicker[f.Ticker] = i
	}
}
