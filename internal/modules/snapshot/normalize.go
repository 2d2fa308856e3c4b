package snapshot

import (
	"strconv"
	"strings"
)

// The upstream dataset formats every number for Brazilian display: "." as the
// thousands separator, "," as the decimal mark, "%" and "a.a" suffixes on
// rates. Parsing is lenient about suffixes and whitespace but never guesses:
// anything that does not survive the cleanup parses to nil and the field is
// treated as undisclosed.

// ParseLocaleFloat parses a pt-BR formatted number such as "1.234,56".
// Returns nil for empty or malformed input.
func ParseLocaleFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || strings.EqualFold(s, "N/A") {
		return nil
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParsePercent parses a rate like "12,5%", "1,10% a.a" or a bare "12,5" into
// its numeric value on the 0-100 scale. Returns nil for empty or malformed
// input.
func ParsePercent(s string) *float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "a.a.")
	s = strings.TrimSuffix(s, "a.a")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	return ParseLocaleFloat(s)
}

// ParseCents parses an integer-cents string such as "10.250" (= 102.50 in
// currency units). The dataset publishes prices and dividends this way.
func ParseCents(s string) *float64 {
	v := ParseLocaleFloat(s)
	if v == nil {
		return nil
	}
	units := *v / 100
	return &units
}

// ParseScaled parses a currency amount and rescales it by the given divisor,
// e.g. divisor 1e6 converts units to millions.
func ParseScaled(s string, divisor float64) *float64 {
	v := ParseLocaleFloat(s)
	if v == nil {
		return nil
	}
	scaled := *v / divisor
	return &scaled
}

// normalizedRecord carries every metric as a pointer so validation can tell
// "missing" apart from zero before committing to a FundRecord.
type normalizedRecord struct {
	Ticker string
	Sector string

	Price *float64
	PVP   *float64
	PVPA  *float64

	DY3M         *float64
	DY6M         *float64
	DY12M        *float64
	LastDividend *float64

	NetAssetsMM   *float64
	LiquidityMM   *float64
	ShareholdersK *float64
	AssetCount    *int

	AdminFee       *float64
	ManagementFee  *float64
	PerformanceFee *float64
}

// Normalize converts a raw dataset row into canonical units. It never fails;
// unparseable fields come back nil and are handled by validation.
func Normalize(raw RawFundRecord) normalizedRecord {
	rec := normalizedRecord{
		Ticker: strings.ToUpper(strings.TrimSpace(raw.Ticker)),
		Sector: strings.TrimSpace(raw.Sector),

		Price:        ParseCents(raw.Price),
		PVPA:         fractionOf(ParseLocaleFloat(raw.PVPA)),
		DY3M:         ParsePercent(raw.DY3M),
		DY6M:         ParsePercent(raw.DY6M),
		DY12M:        ParsePercent(raw.DY12M),
		LastDividend: ParseCents(raw.LastDividend),

		NetAssetsMM:   ParseScaled(raw.NetAssets, 1e6),
		LiquidityMM:   ParseScaled(raw.DailyLiquidity, 1e6),
		ShareholdersK: ParseScaled(raw.Shareholders, 1e3),
		AssetCount:    raw.AssetCount,

		AdminFee:       ParsePercent(raw.AdminFee),
		ManagementFee:  ParsePercent(raw.ManagementFee),
		PerformanceFee: ParsePercent(raw.PerformanceFee),
	}

	// P/VP arrives as a raw percentage of book value ("92" = trading at 92%
	// of book); canonical form is the 0.92 fraction.
	rec.PVP = fractionOf(ParseLocaleFloat(raw.PVP))

	return rec
}

func fractionOf(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v / 100
	return &f
}
