package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/sales-dashboard/internal/domain"
	"github.com/andresuchdata/sales-dashboard/internal/repository/postgres"
	"github.com/andresuchdata/sales-dashboard/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

// runSeed loads a sales CSV into the dataset table inside one transaction.
func runSeed(c *cli.Context) error {
	db, ok := c.Context.Value(dbKey).(*postgres.DB)
	if !ok || db == nil {
		return errors.New("database connection not initialized")
	}

	filePath := c.String("file")
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	records, err := parseSalesCSV(file)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", filePath, err)
	}

	n, err := postgres.InsertSales(c.Context, db, c.String("dataset"), records, c.Bool("truncate"))
	if err != nil {
		return err
	}

	logger.Log.Info().Str("file", filePath).Int("rows", n).Msg("Seeded sales data")
	return nil
}

// parseSalesCSV reads rows keyed by header name. Column order does not
// matter; empty cells are nulls.
func parseSalesCSV(r io.Reader) ([]domain.SalesRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range []string{"report_date", "product_name", "quantity", "total"} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	var records []domain.SalesRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec, err := parseSalesRow(get)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseSalesRow(get func(string) string) (domain.SalesRecord, error) {
	date, err := time.Parse("2006-01-02", get("report_date"))
	if err != nil {
		return domain.SalesRecord{}, fmt.Errorf("invalid report_date: %w", err)
	}
	zoneID, err := parseOptionalID(get("zone_id"))
	if err != nil {
		return domain.SalesRecord{}, fmt.Errorf("invalid zone_id: %w", err)
	}
	areaID, err := parseOptionalID(get("area_id"))
	if err != nil {
		return domain.SalesRecord{}, fmt.Errorf("invalid area_id: %w", err)
	}
	var quantity int64
	if raw := get("quantity"); raw != "" {
		quantity, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return domain.SalesRecord{}, fmt.Errorf("invalid quantity: %w", err)
		}
	}
	total := decimal.Zero
	if raw := get("total"); raw != "" {
		total, err = decimal.NewFromString(raw)
		if err != nil {
			return domain.SalesRecord{}, fmt.Errorf("invalid total: %w", err)
		}
	}

	return domain.SalesRecord{
		ReportDate:      date,
		ZoneID:          zoneID,
		ZoneName:        get("zone_name"),
		AreaID:          areaID,
		AreaName:        get("area_name"),
		SupermarketName: get("supermarket_name"),
		ProductName:     get("product_name"),
		CategoryName:    get("category_name"),
		SKUName:         get("sku_name"),
		System:          get("system"),
		Quantity:        quantity,
		Total:           total,
	}, nil
}

// parseOptionalID returns nil for an empty cell so the row stays outside
// every zone and area scope.
func parseOptionalID(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return domain.NewID(v), nil
}
