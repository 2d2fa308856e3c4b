package formulas

import "math"

// TotalReturnPct computes the cumulative return of a close-price series,
// in percent. Returns nil when the series is too short to measure.
func TotalReturnPct(prices []float64) *float64 {
	if len(prices) < 2 || prices[0] == 0 {
		return nil
	}

	total := (prices[len(prices)-1]/prices[0] - 1) * 100
	return &total
}

// AnnualizedReturnPct computes the compound annual return of a close-price
// series spanning the given number of days, in percent. Returns nil when the
// series is too short or spans less than a day.
func AnnualizedReturnPct(prices []float64, spanDays float64) *float64 {
	if len(prices) < 2 || prices[0] <= 0 || spanDays <= 0 {
		return nil
	}

	years := spanDays / 365
	if years <= 0 {
		return nil
	}

	annual := (math.Pow(prices[len(prices)-1]/prices[0], 1/years) - 1) * 100
	return &annual
}
