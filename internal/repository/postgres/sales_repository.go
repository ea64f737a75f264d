package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/andresuchdata/sales-dashboard/internal/domain"
	"github.com/andresuchdata/sales-dashboard/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type salesRow struct {
	ReportDate      time.Time           `db:"report_date"`
	ZoneID          sql.NullInt64       `db:"zone_id"`
	ZoneName        sql.NullString      `db:"zone_name"`
	AreaID          sql.NullInt64       `db:"area_id"`
	AreaName        sql.NullString      `db:"area_name"`
	SupermarketName sql.NullString      `db:"supermarket_name"`
	ProductName     sql.NullString      `db:"product_name"`
	CategoryName    sql.NullString      `db:"category_name"`
	SKUName         sql.NullString      `db:"sku_name"`
	System          sql.NullString      `db:"system"`
	Quantity        sql.NullInt64       `db:"quantity"`
	Total           decimal.NullDecimal `db:"total"`
}

func (r salesRow) toDomain() domain.SalesRecord {
	total := decimal.Zero
	if r.Total.Valid {
		total = r.Total.Decimal
	}
	return domain.SalesRecord{
		ReportDate:      domain.TruncateDay(r.ReportDate),
		ZoneID:          nullableID(r.ZoneID),
		ZoneName:        r.ZoneName.String,
		AreaID:          nullableID(r.AreaID),
		AreaName:        r.AreaName.String,
		SupermarketName: r.SupermarketName.String,
		ProductName:     r.ProductName.String,
		CategoryName:    r.CategoryName.String,
		SKUName:         r.SKUName.String,
		System:          r.System.String,
		Quantity:        r.Quantity.Int64,
		Total:           total,
	}
}

func nullableID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return domain.NewID(v.Int64)
}

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) FetchPage(ctx context.Context, dataset string, dates domain.DateRange, offset, limit int) ([]domain.SalesRecord, error) {
	query, err := buildPageQuery(dataset)
	if err != nil {
		return nil, err
	}

	var rows []salesRow
	err = r.db.WithSlot(ctx, func() error {
		return r.db.SelectContext(ctx, &rows, query, dates.Start, dates.End, limit, offset)
	})
	if err != nil {
		return nil, classifyError(err)
	}

	records := make([]domain.SalesRecord, len(rows))
	for i, row := range rows {
		records[i] = row.toDomain()
	}
	return records, nil
}

// buildPageQuery returns the paged range query for a dataset. The ORDER BY
// keeps offsets stable between pages.
func buildPageQuery(dataset string) (string, error) {
	table, err := quoteDataset(dataset)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`
		SELECT
			report_date, zone_id, zone_name, area_id, area_name,
			supermarket_name, product_name, category_name, sku_name,
			system, quantity, total
		FROM %s
		WHERE report_date >= $1 AND report_date <= $2
		ORDER BY report_date, zone_id, area_id, supermarket_name, product_name, sku_name
		LIMIT $3 OFFSET $4
	`, table), nil
}

// quoteDataset validates a table or schema-qualified view name and quotes
// each part.
func quoteDataset(dataset string) (string, error) {
	parts := strings.Split(strings.TrimSpace(dataset), ".")
	if len(parts) > 2 {
		return "", fmt.Errorf("invalid dataset name %q", dataset)
	}
	for i, part := range parts {
		if !identifierPattern.MatchString(part) {
			return "", fmt.Errorf("invalid dataset name %q", dataset)
		}
		parts[i] = pq.QuoteIdentifier(part)
	}
	return strings.Join(parts, "."), nil
}

// classifyError turns driver-reported server errors into
// domain.BackendError and leaves everything else untouched.
func classifyError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &domain.BackendError{Message: pqErr.Message, Err: err}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &domain.BackendError{Message: pgErr.Message, Err: err}
	}
	return fmt.Errorf("error fetching sales page: %w", err)
}
