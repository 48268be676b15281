package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamesSorted(t *testing.T) {
	names := Names()
	require.Len(t, names, 3)
	assert.Equal(t, []string{
		"top_batsmen",
		"top_batter_strike_rates",
		"top_wicket_takers",
	}, names)
}

func TestResultMaps(t *testing.T) {
	r := &Result{
		Name:    "top_batsmen",
		Season:  "2022",
		Columns: []string{"name", "total_runs"},
		Rows: [][]interface{}{
			{"V Kohli", int64(765)},
			{"R Sharma", int64(701)},
		},
	}

	maps := r.Maps()
	require.Len(t, maps, 2)
	assert.Equal(t, "V Kohli", maps[0]["name"])
	assert.Equal(t, int64(765), maps[0]["total_runs"])
}

func TestRenderTable(t *testing.T) {
	r := &Result{
		Columns: []string{"name", "total_runs"},
		Rows: [][]interface{}{
			{"V Kohli", int64(765)},
			{"R Sharma", int64(701)},
		},
	}

	var buf strings.Builder
	RenderTable(&buf, r)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "name")
	assert.Contains(t, lines[0], "total_runs")
	assert.Contains(t, lines[1], "-+-")
	assert.Contains(t, lines[2], "V Kohli")

	// Columns line up: every row is as wide as the header.
	assert.Len(t, lines[2], len(lines[0]))
	assert.Len(t, lines[3], len(lines[0]))
}

func TestRenderTableEmpty(t *testing.T) {
	var buf strings.Builder
	RenderTable(&buf, &Result{Columns: []string{"name"}})
	assert.Equal(t, "No data to display.\n", buf.String())
}
