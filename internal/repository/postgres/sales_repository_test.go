package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/sales-dashboard/internal/access"
	"github.com/andresuchdata/sales-dashboard/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteDataset(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "sales_summary_view", want: `"sales_summary_view"`},
		{in: " reporting.sales ", want: `"reporting"."sales"`},
		{in: "a.b.c", wantErr: true},
		{in: "sales; DROP TABLE users", wantErr: true},
		{in: "1sales", wantErr: true},
		{in: "", wantErr: true},
		{in: "reporting.", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := quoteDataset(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildPageQuery(t *testing.T) {
	query, err := buildPageQuery("reporting.sales_summary_view")
	require.NoError(t, err)
	assert.Contains(t, query, `FROM "reporting"."sales_summary_view"`)
	assert.Contains(t, query, "report_date >= $1 AND report_date <= $2")
	assert.Contains(t, query, "ORDER BY report_date")
	assert.Contains(t, query, "LIMIT $3 OFFSET $4")

	_, err = buildPageQuery("bad name")
	assert.Error(t, err)
}

func TestClassifyError(t *testing.T) {
	var backendErr *domain.BackendError

	err := classifyError(fmt.Errorf("select: %w", &pq.Error{Message: `relation "sales" does not exist`}))
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, `relation "sales" does not exist`, backendErr.Message)

	err = classifyError(&pgconn.PgError{Message: "permission denied for view sales"})
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, "permission denied for view sales", backendErr.Message)

	err = classifyError(sql.ErrConnDone)
	assert.False(t, errors.As(err, &backendErr))
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestSalesRowToDomain(t *testing.T) {
	row := salesRow{
		ReportDate:      time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC),
		ZoneID:          sql.NullInt64{Int64: 3, Valid: true},
		ZoneName:        sql.NullString{String: "North", Valid: true},
		SupermarketName: sql.NullString{String: "Fresh Mart", Valid: true},
		Quantity:        sql.NullInt64{Int64: 4, Valid: true},
		Total:           decimal.NullDecimal{Decimal: decimal.RequireFromString("19.99"), Valid: true},
	}

	rec := row.toDomain()
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), rec.ReportDate)
	assert.Equal(t, domain.NewID(3), rec.ZoneID)
	assert.Nil(t, rec.AreaID)
	assert.Equal(t, "North", rec.ZoneName)
	assert.Empty(t, rec.ProductName)
	assert.Equal(t, int64(4), rec.Quantity)
	assert.True(t, decimal.RequireFromString("19.99").Equal(rec.Total))

	assert.True(t, salesRow{}.toDomain().Total.IsZero())
}

func TestNullZoneRowsStayOutOfZoneScopes(t *testing.T) {
	rec := salesRow{
		ReportDate:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		ProductName: sql.NullString{String: "Tea", Valid: true},
	}.toDomain()

	assert.Nil(t, rec.ZoneID)
	assert.Nil(t, rec.AreaID)
	assert.False(t, access.ParseScope("TL", "0", "").Allows(rec))
	assert.False(t, access.ParseScope("AD", "", "0").Allows(rec))
}

func TestBuildInsertQuery(t *testing.T) {
	query := buildInsertQuery(`"sales"`)
	assert.True(t, strings.HasPrefix(query, `INSERT INTO "sales" (report_date, zone_id,`))
	assert.True(t, strings.HasSuffix(query, "$11, $12)"))
}

func TestNullHelpers(t *testing.T) {
	assert.False(t, nullIfEmpty("").Valid)
	assert.Equal(t, sql.NullString{String: "Tea", Valid: true}, nullIfEmpty("Tea"))
	assert.False(t, nullInt(nil).Valid)
	assert.Equal(t, sql.NullInt64{Int64: 0, Valid: true}, nullInt(domain.NewID(0)))
	assert.Equal(t, sql.NullInt64{Int64: 4, Valid: true}, nullInt(domain.NewID(4)))
}
