package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocaleFloat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"plain integer", "92", 92, true},
		{"decimal comma", "12,5", 12.5, true},
		{"thousands and decimals", "1.234,56", 1234.56, true},
		{"large currency amount", "1.219.580.000", 1219580000, true},
		{"empty", "", 0, false},
		{"dash placeholder", "-", 0, false},
		{"not available", "N/A", 0, false},
		{"garbage", "abc", 0, false},
		{"whitespace padded", "  42  ", 42, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLocaleFloat(tt.input)
			if !tt.ok {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 1e-9)
		})
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"percent suffix", "12,5%", 12.5, true},
		{"bare number", "12,5", 12.5, true},
		{"annual fee", "1,10% a.a", 1.10, true},
		{"annual fee with dot", "0,95% a.a.", 0.95, true},
		{"spaced suffix", "3,2 %", 3.2, true},
		{"empty", "", 0, false},
		{"only suffix", "% a.a", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePercent(tt.input)
			if !tt.ok {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 1e-9)
		})
	}
}

func TestParseCents(t *testing.T) {
	got := ParseCents("10.250")
	require.NotNil(t, got)
	assert.InDelta(t, 102.50, *got, 1e-9)

	got = ParseCents("98")
	require.NotNil(t, got)
	assert.InDelta(t, 0.98, *got, 1e-9)

	assert.Nil(t, ParseCents(""))
}

func TestParseScaled(t *testing.T) {
	netAssets := ParseScaled("1.219.580.000", 1e6)
	require.NotNil(t, netAssets)
	assert.InDelta(t, 1219.58, *netAssets, 1e-9)

	holders := ParseScaled("215.000", 1e3)
	require.NotNil(t, holders)
	assert.InDelta(t, 215, *holders, 1e-9)
}

func TestNormalize(t *testing.T) {
	raw := RawFundRecord{
		Ticker:         " mxrf11 ",
		Sector:         "Papéis",
		Price:          "10.250",
		PVP:            "92",
		DY3M:           "3,1%",
		DY6M:           "6,4%",
		DY12M:          "12,8%",
		LastDividend:   "10",
		NetAssets:      "3.200.000.000",
		Shareholders:   "1.100.000",
		DailyLiquidity: "5.400.000",
		AdminFee:       "1,10% a.a",
	}

	rec := Normalize(raw)

	assert.Equal(t, "MXRF11", rec.Ticker)
	require.NotNil(t, rec.Price)
	assert.InDelta(t, 102.50, *rec.Price, 1e-9)
	require.NotNil(t, rec.PVP)
	assert.InDelta(t, 0.92, *rec.PVP, 1e-9)
	require.NotNil(t, rec.DY12M)
	assert.InDelta(t, 12.8, *rec.DY12M, 1e-9)
	require.NotNil(t, rec.LastDividend)
	assert.InDelta(t, 0.10, *rec.LastDividend, 1e-9)
	require.NotNil(t, rec.NetAssetsMM)
	assert.InDelta(t, 3200, *rec.NetAssetsMM, 1e-9)
	require.NotNil(t, rec.ShareholdersK)
	assert.InDelta(t, 1100, *rec.ShareholdersK, 1e-9)
	require.NotNil(t, rec.LiquidityMM)
	assert.InDelta(t, 5.4, *rec.LiquidityMM, 1e-9)
	require.NotNil(t, rec.AdminFee)
	assert.InDelta(t, 1.10, *rec.AdminFee, 1e-9)

	// Undisclosed fields stay nil, not zero.
	assert.Nil(t, rec.PVPA)
	assert.Nil(t, rec.ManagementFee)
	assert.Nil(t, rec.PerformanceFee)
}

func TestValidate(t *testing.T) {
	complete := Normalize(RawFundRecord{
		Ticker: "HGLG11", Price: "16.000", PVP: "95",
		DY3M: "2,2", DY6M: "4,4", DY12M: "8,8", LastDividend: "110",
		NetAssets: "5.000.000.000", Shareholders: "400.000", DailyLiquidity: "8.000.000",
	})

	rec, err := Validate(complete)
	require.NoError(t, err)
	assert.Equal(t, "HGLG11", rec.Ticker)
	assert.InDelta(t, 160.0, rec.Price, 1e-9)
	assert.InDelta(t, 0.95, rec.PVP, 1e-9)

	missing := Normalize(RawFundRecord{
		Ticker: "XXXX11", Price: "10.000", PVP: "",
		DY3M: "1", DY6M: "2", DY12M: "4", LastDividend: "5",
		NetAssets: "100.000.000", Shareholders: "", DailyLiquidity: "500.000",
	})

	_, err = Validate(missing)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "XXXX11", verr.Ticker)
	assert.ElementsMatch(t, []string{"p_vp", "shareholders"}, verr.Missing)
}

func TestSnapshotGet(t *testing.T) {
	snap := NewSnapshot("2026-08-28", []FundRecord{
		{Ticker: "MXRF11", Price: 10.25},
		{Ticker: "HGLG11", Price: 160.0},
	})

	require.Equal(t, 2, snap.Len())

	f := snap.Get("HGLG11")
	require.NotNil(t, f)
	assert.InDelta(t, 160.0, f.Price, 1e-9)

	assert.Nil(t, snap.Get("ZZZZ11"))
	assert.Equal(t, []string{"MXRF11", "HGLG11"}, snap.Tickers())
}
