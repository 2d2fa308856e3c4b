package funds

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/refera/fiish/internal/modules/scoring"
)

// Config holds the analysis parameters.
type Config struct {
	SelicGrossPct float64 // annual Selic, percent
	SelicIR       float64 // income tax on fixed income, fraction
	SelicBandPP   float64 // tolerance band, percentage points
	Notional      float64 // default simulated investment, currency units
}

// DefaultConfig returns the production analysis parameters.
func DefaultConfig() Config {
	return Config{
		SelicGrossPct: 15.0,
		SelicIR:       0.225,
		SelicBandPP:   2.0,
		Notional:      10000.0,
	}
}

// Service derives the income analysis of a scored fund.
type Service struct {
	cfg Config
	log zerolog.Logger
}

// NewService creates a new funds service.
func NewService(cfg Config, log zerolog.Logger) *Service {
	return &Service{
		cfg: cfg,
		log: log.With().Str("service", "funds").Logger(),
	}
}

// Analyze builds the full per-fund view. notional <= 0 falls back to the
// configured default.
func (s *Service) Analyze(fund scoring.ScoredFund, notional float64) Analysis {
	if notional <= 0 {
		notional = s.cfg.Notional
	}
	return Analysis{
		Fund:         fund,
		Selic:        s.compareWithSelic(fund.DY12M),
		Income:       s.simulateIncome(fund, notional),
		Reinvestment: s.reinvestmentPlan(fund),
	}
}

// compareWithSelic relates the trailing yield to the net risk-free rate.
// Funds are income-tax exempt for individuals, so the fair benchmark is
// Selic after IR, with a tolerance band on both sides.
func (s *Service) compareWithSelic(dy12 float64) SelicComparison {
	net := s.cfg.SelicGrossPct * (1 - s.cfg.SelicIR)

	status := "Em linha com a Selic"
	switch {
	case dy12 >= net+s.cfg.SelicBandPP:
		status = "Acima da Selic"
	case dy12 <= net-s.cfg.SelicBandPP:
		status = "Abaixo da Selic"
	}

	return SelicComparison{
		GrossRatePct: s.cfg.SelicGrossPct,
		NetRatePct:   net,
		BandPP:       s.cfg.SelicBandPP,
		Status:       status,
	}
}

// simulateIncome projects the dividends a notional buys at current price.
// The monthly yield is the compound equivalent of the trailing annual rate,
// not a twelfth of it.
func (s *Service) simulateIncome(fund scoring.ScoredFund, notional float64) IncomeSimulation {
	sim := IncomeSimulation{Notional: notional}
	if fund.Price <= 0 {
		return sim
	}

	sim.Shares = int(notional / fund.Price)
	sim.Invested = float64(sim.Shares) * fund.Price
	sim.AnnualIncome = sim.Invested * fund.DY12M / 100
	sim.MonthlyIncome = sim.AnnualIncome / 12

	if fund.DY12M > 0 {
		sim.MonthlyYieldPct = (math.Pow(1+fund.DY12M/100, 1.0/12) - 1) * 100
	}
	return sim
}

// reinvestmentPlan finds how many shares make the position self-sustaining:
// one month of dividends buying at least one new share. Funds without a
// positive yield have no plan.
func (s *Service) reinvestmentPlan(fund scoring.ScoredFund) *ReinvestmentPlan {
	if fund.Price <= 0 || fund.DY12M <= 0 {
		return nil
	}

	perShare := fund.Price * (fund.DY12M / 100) / 12
	shares := int(math.Ceil(fund.Price / perShare))

	return &ReinvestmentPlan{
		MonthlyDividendPerShare: perShare,
		SharesNeeded:            shares,
		CapitalRequired:         float64(shares) * fund.Price,
	}
}
