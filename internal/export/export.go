// Package export renders pivot tables as CSV and terminal tables.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/andresuchdata/sales-dashboard/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Matrix lays out a pivot table as a header plus one line per row, with
// the TOTAL column last and the TOTAL row at the bottom. format renders
// each value.
func Matrix(t domain.PivotTable, format func(decimal.Decimal) string) (header []string, rows [][]string) {
	header = make([]string, 0, len(t.Columns)+2)
	header = append(header, string(t.RowDimension))
	for _, c := range t.Columns {
		header = append(header, c.Label)
	}
	header = append(header, domain.TotalLabel)

	line := func(r domain.PivotRow) []string {
		out := make([]string, 0, len(r.Cells)+2)
		out = append(out, r.Label)
		for _, v := range r.Cells {
			out = append(out, format(v))
		}
		return append(out, format(r.Total))
	}

	rows = make([][]string, 0, len(t.Rows)+1)
	for _, r := range t.Rows {
		rows = append(rows, line(r))
	}
	rows = append(rows, line(t.Totals))
	return header, rows
}

// WriteCSV writes the table with plain decimal values.
func WriteCSV(w io.Writer, t domain.PivotTable) error {
	header, rows := Matrix(t, func(d decimal.Decimal) string { return d.String() })

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// RenderTable draws the table for a terminal with thousands separators.
func RenderTable(t domain.PivotTable) string {
	header, rows := Matrix(t, FormatValue)

	cell := lipgloss.NewStyle().Padding(0, 1)
	number := cell.Align(lipgloss.Right)

	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return cell
			}
			return number
		}).
		Headers(header...).
		Rows(rows...).
		String()
}

// FormatValue prints d with thousands separators and at most two decimals.
func FormatValue(d decimal.Decimal) string {
	d = d.Round(2)
	whole := d.Truncate(0)
	out := humanize.Comma(whole.IntPart())
	if d.IsNegative() && whole.IsZero() {
		out = "-" + out
	}

	frac := d.Sub(whole).Abs()
	if !frac.IsZero() {
		out += strings.TrimPrefix(frac.StringFixed(2), "0")
	}
	return out
}
