package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/andresuchdata/sales-dashboard/internal/domain"
)

var salesColumns = []string{
	"report_date", "zone_id", "zone_name", "area_id", "area_name",
	"supermarket_name", "product_name", "category_name", "sku_name",
	"system", "quantity", "total",
}

// InsertSales writes records into the dataset table in one transaction,
// optionally truncating it first. Empty strings are stored as NULL.
func InsertSales(ctx context.Context, db *DB, dataset string, records []domain.SalesRecord, truncate bool) (int, error) {
	table, err := quoteDataset(dataset)
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if truncate {
		if _, err := tx.ExecContext(ctx, "TRUNCATE TABLE "+table); err != nil {
			return 0, classifyError(err)
		}
	}

	query := buildInsertQuery(table)
	for i, r := range records {
		_, err := tx.ExecContext(ctx, query,
			r.ReportDate,
			nullInt(r.ZoneID),
			nullIfEmpty(r.ZoneName),
			nullInt(r.AreaID),
			nullIfEmpty(r.AreaName),
			nullIfEmpty(r.SupermarketName),
			nullIfEmpty(r.ProductName),
			nullIfEmpty(r.CategoryName),
			nullIfEmpty(r.SKUName),
			nullIfEmpty(r.System),
			r.Quantity,
			r.Total,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert record %d: %w", i+1, classifyError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return len(records), nil
}

func buildInsertQuery(table string) string {
	placeholders := make([]string, len(salesColumns))
	for i := range salesColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(salesColumns, ", "),
		strings.Join(placeholders, ", "),
	)
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
