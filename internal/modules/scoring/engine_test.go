package scoring

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refera/fiish/internal/modules/snapshot"
)

// healthyFund passes every default rule.
func healthyFund() snapshot.FundRecord {
	return snapshot.FundRecord{
		Ticker:        "MXRF11",
		Price:         10.25,
		PVP:           0.92,
		DY3M:          3.5,
		DY6M:          6.8,
		DY12M:         13.2,
		LastDividend:  0.10,
		NetAssetsMM:   3200,
		LiquidityMM:   5.4,
		ShareholdersK: 1100,
	}
}

func newTestEngine(cfg Config) *Engine {
	return NewEngine(cfg, zerolog.Nop())
}

func TestScorePerfectFund(t *testing.T) {
	e := newTestEngine(DefaultConfig())

	res := e.Score(healthyFund())

	assert.Equal(t, 9, e.MaxScore())
	assert.Equal(t, e.MaxScore(), res.Score)
	assert.Equal(t, TierApproved, res.Tier)
	assert.Empty(t, res.Blockers)
	assert.Len(t, res.Positives, 9)
}

func TestScoreExtremeYieldDowngradesToWatch(t *testing.T) {
	e := newTestEngine(DefaultConfig())

	f := healthyFund()
	f.DY12M = 35.0

	res := e.Score(f)

	assert.Equal(t, e.MaxScore()-1, res.Score)
	assert.Equal(t, TierWatch, res.Tier)
	require.Len(t, res.Blockers, 1)
	assert.Contains(t, res.Blockers[0], "insustentável")
	// The ceiling is evaluated last: its blocker never shadows a more
	// specific one, so here it is the only entry.
}

func TestScoreBlockedFund(t *testing.T) {
	e := newTestEngine(DefaultConfig())

	f := snapshot.FundRecord{
		Ticker:        "ZZZZ11",
		Price:         5.00,
		PVP:           0.55, // excessive discount
		DY3M:          0.5,
		DY6M:          1.0,
		DY12M:         2.0,
		LastDividend:  0,
		NetAssetsMM:   80,
		LiquidityMM:   0.1,
		ShareholdersK: 2,
	}

	res := e.Score(f)

	assert.Equal(t, 1, res.Score) // only the yield ceiling passes
	assert.Equal(t, TierBlocked, res.Tier)
	assert.Contains(t, res.Blockers[0], "desconto excessivo")
}

func TestScorePVPBandMessages(t *testing.T) {
	e := newTestEngine(DefaultConfig())

	tests := []struct {
		name    string
		pvp     float64
		blocked bool
		substr  string
	}{
		{"below band", 0.70, true, "desconto excessivo"},
		{"at lower edge", 0.80, false, "faixa ideal"},
		{"inside band", 0.95, false, "faixa ideal"},
		{"at upper edge", 1.00, true, "prêmio"},
		{"above band", 1.20, true, "prêmio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := healthyFund()
			f.PVP = tt.pvp
			res := e.Score(f)
			if tt.blocked {
				require.NotEmpty(t, res.Blockers)
				assert.Contains(t, res.Blockers[0], tt.substr)
			} else {
				assert.Contains(t, res.Positives[0], tt.substr)
			}
		})
	}
}

func TestScorePartitionInvariant(t *testing.T) {
	e := newTestEngine(DefaultConfig())

	funds := []snapshot.FundRecord{
		healthyFund(),
		{Ticker: "AAAA11", PVP: 1.3, DY12M: 40},
		{Ticker: "BBBB11", Price: 100, PVP: 0.85, DY3M: 3, DY6M: 6, DY12M: 12,
			LastDividend: 1, NetAssetsMM: 500, LiquidityMM: 1, ShareholdersK: 10},
	}

	for _, f := range funds {
		res := e.Score(f)
		assert.Equal(t, res.AppliedRules, len(res.Blockers)+len(res.Positives),
			"every applied rule lands in exactly one list for %s", f.Ticker)
		assert.GreaterOrEqual(t, res.Score, 0)
		assert.LessOrEqual(t, res.Score, res.MaxScore)
	}
}

func TestScoreThresholdsAreInclusive(t *testing.T) {
	e := newTestEngine(DefaultConfig())

	f := healthyFund()
	f.DY3M = 3.0
	f.DY6M = 6.0
	f.DY12M = 12.0
	f.LiquidityMM = 1.0
	f.NetAssetsMM = 500.0
	f.ShareholdersK = 10.0

	res := e.Score(f)
	assert.Equal(t, e.MaxScore(), res.Score, "minimums are >= comparisons")
}

func TestAdminFeeRuleSkipsUndisclosed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AdminFeeCap = 1.5
	e := newTestEngine(cfg)

	require.Equal(t, 10, e.MaxScore())

	// Undisclosed fee: rule is skipped, so the fund cannot reach MaxScore
	// but loses no message.
	f := healthyFund()
	res := e.Score(f)
	assert.Equal(t, 9, res.Score)
	assert.Equal(t, 9, res.AppliedRules)
	assert.Empty(t, res.Blockers)
	assert.Len(t, res.Positives, 9)

	// Disclosed fee over the cap blocks.
	fee := 2.0
	f.AdminFee = &fee
	res = e.Score(f)
	assert.Equal(t, 9, res.Score)
	assert.Equal(t, 10, res.AppliedRules)
	require.Len(t, res.Blockers, 1)
	assert.Contains(t, res.Blockers[0], "Taxa de administração")

	// Disclosed fee under the cap passes.
	fee = 1.0
	res = e.Score(f)
	assert.Equal(t, 10, res.Score)
	assert.Equal(t, TierApproved, res.Tier)
}

func TestScoreIsDeterministic(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	f := healthyFund()
	f.DY12M = 35

	first := e.Score(f)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.Score(f))
	}
}

func TestScoreAll(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	snap := snapshot.NewSnapshot("2026-08-28", []snapshot.FundRecord{
		healthyFund(),
		{Ticker: "ZZZZ11", PVP: 1.5},
	})

	scored := e.ScoreAll(snap)
	require.Len(t, scored, 2)
	assert.Equal(t, "MXRF11", scored[0].Ticker)
	assert.Equal(t, TierApproved, scored[0].Tier)
	assert.Equal(t, TierBlocked, scored[1].Tier)

	one, ok := e.ScoreTicker(snap, "MXRF11")
	require.True(t, ok)
	assert.Equal(t, scored[0], one)

	_, ok = e.ScoreTicker(snap, "NOPE11")
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		max      int
		margin   int
		expected Tier
	}{
		{"perfect score approved", 9, 9, 3, TierApproved},
		{"one point lost is watch", 8, 9, 3, TierWatch},
		{"watch lower edge", 6, 9, 3, TierWatch},
		{"below margin blocked", 5, 9, 3, TierBlocked},
		{"zero blocked", 0, 9, 3, TierBlocked},
		{"zero margin makes watch empty", 8, 9, 0, TierBlocked},
		{"thresholds follow max score", 10, 10, 3, TierApproved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.score, tt.max, tt.margin))
		})
	}
}
