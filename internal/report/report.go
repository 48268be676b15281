// Package report runs the canned season reports over the normalized
// tables. Reports are read-only SQL aggregations registered as prepared
// statements in internal/db; nothing here touches the ingestion pipeline.
package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cricstats/cricsheet-data/internal/db"
)

// Registry maps report names to their prepared statement. All reports take
// a single season parameter.
var Registry = map[string]string{
	"top_batsmen":             db.StmtTopBatsmen,
	"top_batter_strike_rates": db.StmtTopBatterStrikeRates,
	"top_wicket_takers":       db.StmtTopWicketTakers,
}

// Names returns the registered report names, sorted for CLI help.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Result is one executed report: ordered columns plus row values.
type Result struct {
	Name    string
	Season  string
	Columns []string
	Rows    [][]interface{}
}

// Maps converts rows to column-keyed maps for JSON responses.
func (r *Result) Maps() []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(r.Rows))
	for _, row := range r.Rows {
		m := make(map[string]interface{}, len(r.Columns))
		for i, col := range r.Columns {
			m[col] = row[i]
		}
		out = append(out, m)
	}
	return out
}

// Run executes a registered report for a season.
func Run(ctx context.Context, pool *pgxpool.Pool, name, season string) (*Result, error) {
	stmt, ok := Registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown report %q (available: %s)", name, strings.Join(Names(), ", "))
	}

	rows, err := pool.Query(ctx, stmt, season)
	if err != nil {
		return nil, fmt.Errorf("run report %q: %w", name, err)
	}
	defer rows.Close()

	result := &Result{Name: name, Season: season}
	for _, fd := range rows.FieldDescriptions() {
		result.Columns = append(result.Columns, fd.Name)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read report rows: %w", err)
	}

	return result, nil
}

// RenderTable writes the result as an ASCII table, one row per line.
func RenderTable(w io.Writer, r *Result) {
	if len(r.Rows) == 0 {
		fmt.Fprintln(w, "No data to display.")
		return
	}

	widths := make([]int, len(r.Columns))
	for i, col := range r.Columns {
		widths[i] = len(col)
	}
	cells := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		cells[i] = make([]string, len(row))
		for j, v := range row {
			cells[i][j] = fmt.Sprintf("%v", v)
			if len(cells[i][j]) > widths[j] {
				widths[j] = len(cells[i][j])
			}
		}
	}

	header := make([]string, len(r.Columns))
	sep := make([]string, len(r.Columns))
	for i, col := range r.Columns {
		header[i] = pad(col, widths[i])
		sep[i] = strings.Repeat("-", widths[i])
	}
	fmt.Fprintln(w, strings.Join(header, " | "))
	fmt.Fprintln(w, strings.Join(sep, "-+-"))

	for _, row := range cells {
		line := make([]string, len(row))
		for j, cell := range row {
			line[j] = pad(cell, widths[j])
		}
		fmt.Fprintln(w, strings.Join(line, " | "))
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
