package screening

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/refera/fiish/internal/modules/scoring"
)

// Screener runs the built-in and free-form screens over a scored snapshot.
type Screener struct {
	cfg Config
	log zerolog.Logger
}

// NewScreener creates a screener with the given thresholds.
func NewScreener(cfg Config, log zerolog.Logger) *Screener {
	return &Screener{
		cfg: cfg,
		log: log.With().Str("service", "screening").Logger(),
	}
}

// DiscountWithQuality returns funds trading at a healthy discount to book
// that clear every quality floor, best yields first.
func (s *Screener) DiscountWithQuality(funds []scoring.ScoredFund) []scoring.ScoredFund {
	out := filter(funds, s.discountOK)
	sortBy(out, byDY12Desc)
	return truncate(out, s.cfg.DiscountTopN)
}

// discountOK is the discount-with-quality membership predicate, shared with
// the entry-level screen.
func (s *Screener) discountOK(f scoring.ScoredFund) bool {
	return f.PVP >= s.cfg.DiscountPVPLow && f.PVP < s.cfg.DiscountPVPHigh &&
		f.DY3M >= s.cfg.DiscountDY3Min &&
		f.DY6M >= s.cfg.DiscountDY6Min &&
		f.DY12M >= s.cfg.DiscountDY12Min &&
		f.LiquidityMM >= s.cfg.DiscountLiquidityMinMM &&
		f.NetAssetsMM >= s.cfg.DiscountNetAssetsMinMM &&
		f.ShareholdersK >= s.cfg.DiscountShareholdersMinK
}

// Largest returns the biggest funds by net assets.
func (s *Screener) Largest(funds []scoring.ScoredFund) []scoring.ScoredFund {
	out := filter(funds, func(scoring.ScoredFund) bool { return true })
	sortBy(out, func(a, b scoring.ScoredFund) bool { return a.NetAssetsMM > b.NetAssetsMM })
	return truncate(out, s.cfg.LargestTopN)
}

// EntryLevel narrows the discount-with-quality screen to cheap tickets
// whose yield is attractive but still believable: implausibly high DY-12M
// is excluded, not rewarded.
func (s *Screener) EntryLevel(funds []scoring.ScoredFund) []scoring.ScoredFund {
	out := filter(funds, func(f scoring.ScoredFund) bool {
		return s.discountOK(f) && f.Price <= s.cfg.EntryPriceMax && f.DY12M <= s.cfg.EntryDY12Max
	})
	sortBy(out, byDY12Desc)
	return truncate(out, s.cfg.EntryTopN)
}

// Custom applies free-form criteria. Criteria must be validated by the
// caller or here; an invalid sort key is a hard error.
func (s *Screener) Custom(funds []scoring.ScoredFund, c Criteria) ([]scoring.ScoredFund, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	out := filter(funds, func(f scoring.ScoredFund) bool {
		switch {
		case c.PVPMin != nil && f.PVP < *c.PVPMin:
			return false
		case c.PVPMax != nil && f.PVP > *c.PVPMax:
			return false
		case c.DY12Min != nil && f.DY12M < *c.DY12Min:
			return false
		case c.PriceMax != nil && f.Price > *c.PriceMax:
			return false
		case c.LiquidityMinMM != nil && f.LiquidityMM < *c.LiquidityMinMM:
			return false
		case c.NetAssetsMinMM != nil && f.NetAssetsMM < *c.NetAssetsMinMM:
			return false
		case c.ShareholdersMinK != nil && f.ShareholdersK < *c.ShareholdersMinK:
			return false
		case c.MinScore != nil && f.Score < *c.MinScore:
			return false
		}
		return true
	})

	sortBy(out, lessFor(c.SortBy))

	if c.Limit > 0 {
		out = truncate(out, c.Limit)
	}
	s.log.Debug().Int("matches", len(out)).Str("sort_by", c.SortBy).Msg("Custom screen evaluated")
	return out, nil
}

func byDY12Desc(a, b scoring.ScoredFund) bool { return a.DY12M > b.DY12M }

func lessFor(key string) func(a, b scoring.ScoredFund) bool {
	switch strings.ToLower(key) {
	case "price":
		return func(a, b scoring.ScoredFund) bool { return a.Price < b.Price }
	case "pvp":
		return func(a, b scoring.ScoredFund) bool { return a.PVP < b.PVP }
	case "net_assets":
		return func(a, b scoring.ScoredFund) bool { return a.NetAssetsMM > b.NetAssetsMM }
	case "liquidity":
		return func(a, b scoring.ScoredFund) bool { return a.LiquidityMM > b.LiquidityMM }
	case "score":
		return func(a, b scoring.ScoredFund) bool { return a.Score > b.Score }
	default: // "", "dy_12m"
		return byDY12Desc
	}
}

// filter always allocates so callers can sort without mutating the shared
// snapshot slice.
func filter(funds []scoring.ScoredFund, keep func(scoring.ScoredFund) bool) []scoring.ScoredFund {
	out := make([]scoring.ScoredFund, 0, len(funds))
	for _, f := range funds {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// sortBy is stable with a ticker tiebreak so equal metrics keep a
// deterministic order across runs.
func sortBy(funds []scoring.ScoredFund, less func(a, b scoring.ScoredFund) bool) {
	sort.SliceStable(funds, func(i, j int) bool {
		if less(funds[i], funds[j]) {
			return true
		}
		if less(funds[j], funds[i]) {
			return false
		}
		return funds[i].Ticker < funds[j].Ticker
	})
}

func truncate(funds []scoring.ScoredFund, n int) []scoring.ScoredFund {
	if n > 0 && len(funds) > n {
		return funds[:n]
	}
	return funds
}
