package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, cacheDir string) *Service {
	t.Helper()
	return NewService(newTestRepository(t), time.Hour, cacheDir, zerolog.Nop())
}

func TestIngestServesNormalizedSnapshot(t *testing.T) {
	svc := newTestService(t, "")
	ctx := context.Background()

	require.NoError(t, svc.Ingest(ctx, "2026-08-29", []RawFundRecord{rawRow("MXRF11"), rawRow("HGLG11")}))

	snap, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-29", snap.ReferenceDate)
	require.Equal(t, 2, snap.Len())

	f := snap.Get("MXRF11")
	require.NotNil(t, f)
	assert.InDelta(t, 102.50, f.Price, 1e-9)
	assert.InDelta(t, 0.92, f.PVP, 1e-9)
	assert.InDelta(t, 12.8, f.DY12M, 1e-9)
}

func TestIngestReplacesCachedSnapshot(t *testing.T) {
	svc := newTestService(t, "")
	ctx := context.Background()

	require.NoError(t, svc.Ingest(ctx, "2026-08-28", []RawFundRecord{rawRow("MXRF11")}))
	first, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-28", first.ReferenceDate)

	// A fresh batch must be visible immediately, not after the TTL.
	require.NoError(t, svc.Ingest(ctx, "2026-08-29", []RawFundRecord{rawRow("XPML11")}))
	second, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-29", second.ReferenceDate)
	require.Equal(t, 1, second.Len())
	assert.NotNil(t, second.Get("XPML11"))
}

func TestIngestRejectsBadInput(t *testing.T) {
	svc := newTestService(t, "")
	ctx := context.Background()

	err := svc.Ingest(ctx, "", []RawFundRecord{rawRow("MXRF11")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reference date")

	err = svc.Ingest(ctx, "2026-08-29", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no fund rows")
}

func TestIngestDropsIncompleteRows(t *testing.T) {
	svc := newTestService(t, "")
	ctx := context.Background()

	broken := rawRow("XXXX11")
	broken.PVP = ""

	require.NoError(t, svc.Ingest(ctx, "2026-08-29", []RawFundRecord{rawRow("MXRF11"), broken}))

	snap, err := svc.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, snap.Len())
	assert.Nil(t, snap.Get("XXXX11"))
}

func TestInvalidateRemovesDiskMirror(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(t, dir)
	ctx := context.Background()

	require.NoError(t, svc.Ingest(ctx, "2026-08-29", []RawFundRecord{rawRow("MXRF11")}))
	_, err := svc.Current(ctx)
	require.NoError(t, err)

	mirror := filepath.Join(dir, "snapshot.msgpack")
	_, err = os.Stat(mirror)
	require.NoError(t, err, "mirror written after load")

	svc.Invalidate()

	_, err = os.Stat(mirror)
	assert.True(t, os.IsNotExist(err), "a stale mirror must not survive invalidation")
	assert.Nil(t, svc.Info())
}
