package news

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Service builds the fund-specific query and applies the trailing window.
type Service struct {
	provider Provider
	days     int
	limit    int
	log      zerolog.Logger
}

// NewService creates a news service. days and limit fall back to 30 and 5,
// the defaults of the fund page.
func NewService(provider Provider, days, limit int, log zerolog.Logger) *Service {
	if days <= 0 {
		days = 30
	}
	if limit <= 0 {
		limit = 5
	}
	return &Service{
		provider: provider,
		days:     days,
		limit:    limit,
		log:      log.With().Str("service", "news").Logger(),
	}
}

// FundNews fetches recent headlines mentioning the fund using the
// configured window and limit.
func (s *Service) FundNews(ctx context.Context, ticker string) ([]Item, error) {
	return s.FundNewsWithin(ctx, ticker, s.days, s.limit)
}

// FundNewsWithin is FundNews with per-call window and limit overrides.
// Non-positive values fall back to the configured defaults.
func (s *Service) FundNewsWithin(ctx context.Context, ticker string, days, limit int) ([]Item, error) {
	if days <= 0 {
		days = s.days
	}
	if limit <= 0 {
		limit = s.limit
	}

	query := fmt.Sprintf("%s fundo imobiliário FII", ticker)
	since := time.Now().AddDate(0, 0, -days)

	items, err := s.provider.Search(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news for %s: %w", ticker, err)
	}
	return items, nil
}
