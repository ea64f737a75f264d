package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/andresuchdata/sales-dashboard/internal/config"
	"github.com/andresuchdata/sales-dashboard/internal/repository/postgres"
	"github.com/andresuchdata/sales-dashboard/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type contextKey string

const dbKey contextKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func reportFlags() []cli.Flag {
	return []cli.Flag{
		newDBURLFlag(),
		&cli.StringFlag{
			Name:    "dataset",
			Usage:   "Table or view holding the sales rows",
			Value:   "sales_summary_view",
			EnvVars: []string{"SALES_DATASET"},
		},
		&cli.StringFlag{Name: "start", Usage: "First report date (YYYY-MM-DD), defaults to the first of this month"},
		&cli.StringFlag{Name: "end", Usage: "Last report date (YYYY-MM-DD), defaults to today"},
		&cli.StringFlag{Name: "role", Usage: "Access role: TL, AD or SP", Value: "SP"},
		&cli.StringFlag{Name: "zone", Usage: "Zone id for the TL role"},
		&cli.StringFlag{Name: "area", Usage: "Area id for the AD role"},
		&cli.StringFlag{Name: "mode", Usage: "Metric to report: sales or product", Value: "sales"},
		&cli.StringFlag{Name: "view", Usage: "Time bucket: day, week or month", Value: "day"},
		&cli.StringFlag{Name: "by", Usage: "Row dimension: supermarket, sku or product", Value: "supermarket"},
		&cli.StringSliceFlag{Name: "zone-name", Usage: "Only include these zones"},
		&cli.StringSliceFlag{Name: "area-name", Usage: "Only include these areas"},
		&cli.StringSliceFlag{Name: "supermarket", Usage: "Only include these supermarkets"},
		&cli.StringSliceFlag{Name: "product", Usage: "Only include these products"},
		&cli.StringSliceFlag{Name: "category", Usage: "Only include these categories"},
		&cli.StringSliceFlag{Name: "sku", Usage: "Only include these SKUs"},
		&cli.StringSliceFlag{Name: "system", Usage: "Only include these systems"},
		&cli.IntFlag{
			Name:    "page-size",
			Usage:   "Rows per range read",
			Value:   1000,
			EnvVars: []string{"FETCH_PAGE_SIZE"},
		},
		&cli.IntFlag{
			Name:    "concurrency",
			Usage:   "Pages read at once",
			Value:   1,
			EnvVars: []string{"FETCH_CONCURRENCY"},
		},
	}
}

// defaultSeedTable is the base table behind the reporting view. Seeding
// never targets the view itself.
const defaultSeedTable = "sales_summary"

func seedFlags() []cli.Flag {
	return []cli.Flag{
		newDBURLFlag(),
		&cli.StringFlag{
			Name:    "dataset",
			Usage:   "Base table receiving the rows",
			Value:   defaultSeedTable,
			EnvVars: []string{"SALES_SEED_TABLE"},
		},
		&cli.StringFlag{
			Name:    "file",
			Usage:   "CSV file with a header row",
			Value:   "./data/seeds/sales.csv",
			EnvVars: []string{"SALES_SEED_FILE"},
		},
		&cli.BoolFlag{
			Name:  "truncate",
			Usage: "Empty the table before loading",
		},
	}
}

func initDB(c *cli.Context) error {
	ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
	defer cancel()

	db, err := postgres.Open(ctx, c.String("db-url"), config.Load().Database.MaxConcurrentQueries)
	if err != nil {
		return err
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load .env file: %v\n", err)
	}
	cfg := config.Load()
	logger.Configure(cfg.Log.Level, cfg.Log.Format)

	app := &cli.App{
		Name:  "salesctl",
		Usage: "Print, export and seed sales pivot reports",
		Commands: []*cli.Command{
			{
				Name:   "report",
				Usage:  "Print a pivot table for a date range",
				Flags:  append(reportFlags(), &cli.StringFlag{Name: "format", Usage: "Output format: table or csv", Value: "table"}),
				Before: initDB,
				After:  closeDB,
				Action: runReport,
			},
			{
				Name:  "export",
				Usage: "Write a pivot table to a CSV file, optionally uploading it",
				Flags: append(reportFlags(),
					&cli.StringFlag{Name: "out", Usage: "CSV file to write", Required: true},
					&cli.BoolFlag{Name: "upload", Usage: "Upload the CSV to the configured export bucket"},
				),
				Before: initDB,
				After:  closeDB,
				Action: runExport,
			},
			{
				Name:   "seed",
				Usage:  "Load a development fixture CSV into a base table",
				Flags:  seedFlags(),
				Before: initDB,
				After:  closeDB,
				Action: runSeed,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("salesctl failed")
	}
}
