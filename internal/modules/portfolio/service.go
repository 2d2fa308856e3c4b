package portfolio

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/refera/fiish/internal/modules/scoring"
)

// Service turns a set of positions plus the scored snapshot into a Report.
type Service struct {
	log zerolog.Logger
}

// NewService creates a new portfolio service.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("service", "portfolio").Logger(),
	}
}

// Review values every position at snapshot prices and aggregates the totals.
// Positions whose ticker is absent from the snapshot are reported under
// Unresolved and excluded from every total. Bad input (non-positive
// quantity, negative cost) is a hard error, not a partial report.
func (s *Service) Review(positions []Position, referenceDate string, funds []scoring.ScoredFund) (Report, error) {
	if len(positions) == 0 {
		return Report{}, fmt.Errorf("portfolio review requires at least one position")
	}

	byTicker := make(map[string]scoring.ScoredFund, len(funds))
	for _, f := range funds {
		byTicker[f.Ticker] = f
	}

	report := Report{
		ID:            uuid.New().String(),
		ReferenceDate: referenceDate,
		Positions:     make([]PositionReport, 0, len(positions)),
	}

	for i, pos := range positions {
		ticker := strings.ToUpper(strings.TrimSpace(pos.Ticker))
		if ticker == "" {
			return Report{}, fmt.Errorf("position %d has no ticker", i)
		}
		if pos.Quantity <= 0 {
			return Report{}, fmt.Errorf("position %s has non-positive quantity %d", ticker, pos.Quantity)
		}
		if pos.AverageCost < 0 {
			return Report{}, fmt.Errorf("position %s has negative average cost %.2f", ticker, pos.AverageCost)
		}

		fund, ok := byTicker[ticker]
		if !ok {
			report.Unresolved = append(report.Unresolved, ticker)
			continue
		}

		report.Positions = append(report.Positions, s.buildPositionReport(pos, ticker, fund))
	}

	s.aggregate(&report)

	s.log.Info().
		Str("report_id", report.ID).
		Int("positions", len(report.Positions)).
		Int("unresolved", len(report.Unresolved)).
		Msg("Portfolio reviewed")
	return report, nil
}

func (s *Service) buildPositionReport(pos Position, ticker string, fund scoring.ScoredFund) PositionReport {
	qty := float64(pos.Quantity)
	marketValue := qty * fund.Price

	// DY-12M is a trailing annual rate; one twelfth of it over the
	// current price approximates next month's payout per share.
	monthlyIncome := marketValue * fund.DY12M / 100 / 12

	pr := PositionReport{
		Ticker:                ticker,
		Quantity:              pos.Quantity,
		AverageCost:           pos.AverageCost,
		CurrentPrice:          fund.Price,
		MarketValue:           marketValue,
		MonthlyIncomeEstimate: monthlyIncome,
		Score:                 fund.Score,
		MaxScore:              fund.MaxScore,
		Tier:                  string(fund.Tier),
		Blockers:              fund.Blockers,
	}

	if pos.AverageCost > 0 {
		ret := (fund.Price/pos.AverageCost - 1) * 100
		pr.UnrealizedReturnPct = &ret
	} else {
		pr.CostBasisUndefined = true
	}
	return pr
}

func (s *Service) aggregate(report *Report) {
	for _, pr := range report.Positions {
		report.Totals.TotalInvested += pr.AverageCost * float64(pr.Quantity)
		report.Totals.TotalMarketValue += pr.MarketValue
		report.Totals.TotalMonthlyIncome += pr.MonthlyIncomeEstimate

		losing := pr.UnrealizedReturnPct != nil && *pr.UnrealizedReturnPct < 0
		blocked := pr.Tier == string(scoring.TierBlocked)
		if blocked {
			report.Risk.BlockedCount++
		}
		if losing {
			report.Risk.LosingCount++
		}
		if blocked && losing {
			report.Risk.BlockedAndLosing++
		}
	}

	if report.Totals.TotalInvested > 0 {
		monthly := report.Totals.TotalMonthlyIncome / report.Totals.TotalInvested * 100
		annual := monthly * 12
		unrealized := (report.Totals.TotalMarketValue/report.Totals.TotalInvested - 1) * 100
		report.Totals.MonthlyYieldPct = &monthly
		report.Totals.AnnualizedYieldPct = &annual
		report.Totals.UnrealizedReturnPct = &unrealized
	}
}
