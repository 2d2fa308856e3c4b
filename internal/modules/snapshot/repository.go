package snapshot

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository reads the raw fund rows that the external refresh pipeline
// writes into SQLite. The table keeps the upstream locale strings untouched
// so a normalization fix never requires re-ingesting data.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a snapshot repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// LatestReferenceDate returns the most recent dataset date present in the
// store, or sql.ErrNoRows when the store is empty.
func (r *Repository) LatestReferenceDate(ctx context.Context) (string, error) {
	var date string
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(reference_date) FROM funds_raw`).Scan(&date)
	if err != nil {
		return "", fmt.Errorf("failed to query latest reference date: %w", err)
	}
	if date == "" {
		return "", sql.ErrNoRows
	}
	return date, nil
}

// LoadRaw returns every raw fund row for the given reference date.
func (r *Repository) LoadRaw(ctx context.Context, referenceDate string) ([]RawFundRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ticker, sector, price, pvp, pvpa,
		       dy_3m, dy_6m, dy_12m, last_dividend,
		       net_assets, asset_count, shareholders, daily_liquidity,
		       admin_fee, management_fee, performance_fee
		FROM funds_raw
		WHERE reference_date = ?
		ORDER BY ticker`, referenceDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query funds for %s: %w", referenceDate, err)
	}
	defer rows.Close()

	var out []RawFundRecord
	for rows.Next() {
		var rec RawFundRecord
		var sector, pvpa, adminFee, mgmtFee, perfFee sql.NullString
		var assetCount sql.NullInt64

		err := rows.Scan(
			&rec.Ticker, &sector, &rec.Price, &rec.PVP, &pvpa,
			&rec.DY3M, &rec.DY6M, &rec.DY12M, &rec.LastDividend,
			&rec.NetAssets, &assetCount, &rec.Shareholders, &rec.DailyLiquidity,
			&adminFee, &mgmtFee, &perfFee,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund row: %w", err)
		}

		rec.Sector = sector.String
		rec.PVPA = pvpa.String
		rec.AdminFee = adminFee.String
		rec.ManagementFee = mgmtFee.String
		rec.PerformanceFee = perfFee.String
		if assetCount.Valid {
			n := int(assetCount.Int64)
			rec.AssetCount = &n
		}

		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fund rows: %w", err)
	}
	return out, nil
}

// ReplaceAll swaps in a fresh set of raw rows for a reference date inside a
// single transaction. Used by the ingest endpoint.
func (r *Repository) ReplaceAll(ctx context.Context, referenceDate string, recs []RawFundRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin ingest transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM funds_raw WHERE reference_date = ?`, referenceDate); err != nil {
		return fmt.Errorf("failed to clear rows for %s: %w", referenceDate, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO funds_raw (
			reference_date, ticker, sector, price, pvp, pvpa,
			dy_3m, dy_6m, dy_12m, last_dividend,
			net_assets, asset_count, shareholders, daily_liquidity,
			admin_fee, management_fee, performance_fee
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare ingest statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		var assetCount interface{}
		if rec.AssetCount != nil {
			assetCount = *rec.AssetCount
		}
		_, err := stmt.ExecContext(ctx,
			referenceDate, rec.Ticker, nullable(rec.Sector), rec.Price, rec.PVP, nullable(rec.PVPA),
			rec.DY3M, rec.DY6M, rec.DY12M, rec.LastDividend,
			rec.NetAssets, assetCount, rec.Shareholders, rec.DailyLiquidity,
			nullable(rec.AdminFee), nullable(rec.ManagementFee), nullable(rec.PerformanceFee),
		)
		if err != nil {
			return fmt.Errorf("failed to insert fund %s: %w", rec.Ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ingest transaction: %w", err)
	}
	return nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
