package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refera/fiish/internal/database"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	return NewRepository(db.Conn())
}

func rawRow(ticker string) RawFundRecord {
	return RawFundRecord{
		Ticker:         ticker,
		Sector:         "Papéis",
		Price:          "10.250",
		PVP:            "92",
		DY3M:           "3,1",
		DY6M:           "6,4",
		DY12M:          "12,8",
		LastDividend:   "10",
		NetAssets:      "3.200.000.000",
		Shareholders:   "215.000",
		DailyLiquidity: "5.400.000",
	}
}

func TestLatestReferenceDateEmptyStore(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.LatestReferenceDate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestReplaceAllRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	assets := 120
	withCount := rawRow("HGLG11")
	withCount.AssetCount = &assets
	withCount.AdminFee = "1,10% a.a"

	require.NoError(t, repo.ReplaceAll(ctx, "2026-08-29", []RawFundRecord{rawRow("MXRF11"), withCount}))

	got, err := repo.LoadRaw(ctx, "2026-08-29")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Rows come back ordered by ticker, locale strings untouched.
	assert.Equal(t, "HGLG11", got[0].Ticker)
	assert.Equal(t, "MXRF11", got[1].Ticker)
	assert.Equal(t, "10.250", got[1].Price)
	assert.Equal(t, "1,10% a.a", got[0].AdminFee)
	require.NotNil(t, got[0].AssetCount)
	assert.Equal(t, 120, *got[0].AssetCount)

	// Undisclosed optionals survive as empty/nil, not zero values.
	assert.Empty(t, got[1].AdminFee)
	assert.Nil(t, got[1].AssetCount)

	date, err := repo.LatestReferenceDate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-29", date)
}

func TestReplaceAllSwapsExistingRows(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, "2026-08-29", []RawFundRecord{rawRow("MXRF11"), rawRow("HGLG11")}))
	require.NoError(t, repo.ReplaceAll(ctx, "2026-08-29", []RawFundRecord{rawRow("XPML11")}))

	got, err := repo.LoadRaw(ctx, "2026-08-29")
	require.NoError(t, err)
	require.Len(t, got, 1, "re-ingesting a date replaces its rows, never appends")
	assert.Equal(t, "XPML11", got[0].Ticker)
}

func TestLatestReferenceDateAcrossDates(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, "2026-08-28", []RawFundRecord{rawRow("MXRF11")}))
	require.NoError(t, repo.ReplaceAll(ctx, "2026-08-29", []RawFundRecord{rawRow("MXRF11")}))

	date, err := repo.LatestReferenceDate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-29", date)
}
