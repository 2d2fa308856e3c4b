package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"
)

// ErrNoData is returned when no dataset has been ingested yet.
var ErrNoData = errors.New("no fund dataset available")

// Service serves the current Snapshot to every other component. Loads are
// collapsed through a singleflight group so a burst of concurrent requests
// after expiry triggers exactly one read, and the last good snapshot is
// mirrored to disk so restarts within the TTL skip the database entirely.
type Service struct {
	repo      *Repository
	ttl       time.Duration
	cachePath string
	log       zerolog.Logger

	mu      sync.RWMutex
	current *Snapshot

	group singleflight.Group
}

// NewService creates the snapshot service. cacheDir may be empty to disable
// the warm-start mirror.
func NewService(repo *Repository, ttl time.Duration, cacheDir string, log zerolog.Logger) *Service {
	s := &Service{
		repo: repo,
		ttl:  ttl,
		log:  log.With().Str("service", "snapshot").Logger(),
	}
	if cacheDir != "" {
		s.cachePath = filepath.Join(cacheDir, "snapshot.msgpack")
	}
	s.restoreFromDisk()
	return s
}

// Current returns the active snapshot, loading or reloading it when the TTL
// has lapsed. Safe for concurrent use.
func (s *Service) Current(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	snap := s.current
	s.mu.RUnlock()

	if snap != nil && time.Since(snap.LoadedAt) < s.ttl {
		return snap, nil
	}

	v, err, _ := s.group.Do("load", func() (interface{}, error) {
		// Re-check under the group: the winner of a racing burst has
		// usually already refreshed by the time followers get here.
		s.mu.RLock()
		cur := s.current
		s.mu.RUnlock()
		if cur != nil && time.Since(cur.LoadedAt) < s.ttl {
			return cur, nil
		}
		return s.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Ingest replaces the stored rows for a reference date with a freshly
// scraped batch, then drops the cached snapshot so the next read observes
// the new data. Rows arrive as raw locale strings; normalization still
// happens at load time.
func (s *Service) Ingest(ctx context.Context, referenceDate string, rows []RawFundRecord) error {
	if referenceDate == "" {
		return fmt.Errorf("reference date is required")
	}
	if len(rows) == 0 {
		return fmt.Errorf("no fund rows to ingest")
	}

	if err := s.repo.ReplaceAll(ctx, referenceDate, rows); err != nil {
		return fmt.Errorf("failed to ingest dataset for %s: %w", referenceDate, err)
	}
	s.Invalidate()

	s.log.Info().
		Str("reference_date", referenceDate).
		Int("rows", len(rows)).
		Msg("Dataset ingested")
	return nil
}

// Invalidate discards the cached snapshot so the next Current forces a fresh
// load.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if s.cachePath != "" {
		// A mirror that survives removal would be restored on the next
		// restart within the TTL, resurrecting data we just discarded.
		if err := os.Remove(s.cachePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", s.cachePath).Msg("Failed to remove snapshot mirror")
		}
	}
	s.log.Info().Msg("Snapshot invalidated")
}

// Meta describes the cached snapshot without exposing the records.
type Meta struct {
	ReferenceDate string    `json:"reference_date"`
	LoadedAt      time.Time `json:"loaded_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	FundCount     int       `json:"fund_count"`
}

// Info returns cache metadata, or nil when nothing is loaded.
func (s *Service) Info() *Meta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	return &Meta{
		ReferenceDate: s.current.ReferenceDate,
		LoadedAt:      s.current.LoadedAt,
		ExpiresAt:     s.current.LoadedAt.Add(s.ttl),
		FundCount:     s.current.Len(),
	}
}

func (s *Service) load(ctx context.Context) (*Snapshot, error) {
	date, err := s.repo.LatestReferenceDate(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, err
	}

	raw, err := s.repo.LoadRaw(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrNoData
	}

	funds := make([]FundRecord, 0, len(raw))
	dropped := 0
	for _, row := range raw {
		rec, err := Validate(Normalize(row))
		if err != nil {
			dropped++
			s.log.Warn().Err(err).Str("ticker", row.Ticker).Msg("Dropping fund row")
			continue
		}
		funds = append(funds, rec)
	}
	if len(funds) == 0 {
		return nil, fmt.Errorf("all %d fund rows for %s failed validation", len(raw), date)
	}

	snap := NewSnapshot(date, funds)

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	s.persistToDisk(snap)

	s.log.Info().
		Str("reference_date", date).
		Int("funds", len(funds)).
		Int("dropped", dropped).
		Msg("Snapshot loaded")
	return snap, nil
}

func (s *Service) persistToDisk(snap *Snapshot) {
	if s.cachePath == "" {
		return
	}
	data, err := msgpack.Marshal(snap)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to encode snapshot mirror")
		return
	}
	tmp := s.cachePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.log.Warn().Err(err).Msg("Failed to write snapshot mirror")
		return
	}
	if err := os.Rename(tmp, s.cachePath); err != nil {
		s.log.Warn().Err(err).Msg("Failed to swap snapshot mirror")
	}
}

func (s *Service) restoreFromDisk() {
	if s.cachePath == "" {
		return
	}
	data, err := os.ReadFile(s.cachePath)
	if err != nil {
		return
	}

	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		s.log.Warn().Err(err).Msg("Discarding unreadable snapshot mirror")
		os.Remove(s.cachePath)
		return
	}
	if time.Since(snap.LoadedAt) >= s.ttl {
		return
	}

	snap.reindex()
	s.current = &snap
	s.log.Info().
		Str("reference_date", snap.ReferenceDate).
		Int("funds", snap.Len()).
		Msg("Snapshot restored from disk mirror")
}
