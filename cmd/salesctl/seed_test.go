package main

import (
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/sales-dashboard/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestParseSalesCSV(t *testing.T) {
	input := `product_name,report_date,zone_id,zone_name,supermarket_name,sku_name,quantity,total
Tea,2024-03-01,1,North,Fresh Mart,Tea 1kg,3,45.75
Coffee,2024-03-02,,,Value Store,,1,
`
	records, err := parseSalesCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), records[0].ReportDate)
	assert.Equal(t, domain.NewID(1), records[0].ZoneID)
	assert.Equal(t, "Fresh Mart", records[0].SupermarketName)
	assert.Equal(t, int64(3), records[0].Quantity)
	assert.True(t, decimal.RequireFromString("45.75").Equal(records[0].Total))

	assert.Nil(t, records[1].ZoneID)
	assert.Empty(t, records[1].ZoneName)
	assert.True(t, records[1].Total.IsZero())
}

func TestParseSalesCSVErrors(t *testing.T) {
	_, err := parseSalesCSV(strings.NewReader("product_name,quantity,total\nTea,1,2\n"))
	assert.ErrorContains(t, err, "report_date")

	_, err = parseSalesCSV(strings.NewReader("report_date,product_name,quantity,total\n01/03/2024,Tea,1,2\n"))
	assert.ErrorContains(t, err, "line 2")

	_, err = parseSalesCSV(strings.NewReader("report_date,product_name,quantity,total\n2024-03-01,Tea,x,2\n"))
	assert.ErrorContains(t, err, "quantity")
}

func TestReportRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	r, err := reportRange("", "", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01..2024-03-15", r.String())

	r, err = reportRange("2024-02-01", "2024-02-29", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01..2024-02-29", r.String())
}

func seedDataset(t *testing.T) string {
	t.Helper()
	var dataset string
	app := &cli.App{
		Name: "salesctl",
		Commands: []*cli.Command{{
			Name:  "seed",
			Flags: seedFlags(),
			Action: func(c *cli.Context) error {
				dataset = c.String("dataset")
				return nil
			},
		}},
	}
	require.NoError(t, app.Run([]string{"salesctl", "seed", "--db-url", "unused"}))
	return dataset
}

func TestSeedTargetsBaseTable(t *testing.T) {
	t.Setenv("SALES_DATASET", "sales_summary_view")

	dataset := seedDataset(t)
	assert.Equal(t, defaultSeedTable, dataset)
	assert.NotEqual(t, "sales_summary_view", dataset)

	t.Setenv("SALES_SEED_TABLE", "sales_fixture")
	assert.Equal(t, "sales_fixture", seedDataset(t))
}
