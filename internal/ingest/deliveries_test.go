package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cricstats/cricsheet-data/internal/cricsheet"
	"github.com/cricstats/cricsheet-data/internal/store"
)

func TestNormalizeDeliveries(t *testing.T) {
	doc := testDoc("Deliveries", 1)
	r := NewResolver(store.NewMemory())

	rows, err := normalizeDeliveries(context.Background(), doc, r, testTeamIDs)
	require.NoError(t, err)
	require.Len(t, rows, 6)

	// 1-based positional numbering, source over number verbatim.
	for i, row := range rows {
		assert.Equal(t, 1, row.InningsNumber)
		assert.Equal(t, 0, row.OverNumber)
		assert.Equal(t, i+1, row.DeliveryNumber)
		assert.Equal(t, int64(1), row.TeamID)
	}

	wide := rows[0]
	require.NotNil(t, wide.ExtrasWides)
	assert.Equal(t, 1, *wide.ExtrasWides)
	assert.Nil(t, wide.ExtrasByes)
	assert.Nil(t, wide.ExtrasLegByes)
	assert.Nil(t, wide.ExtrasNoBalls)
	assert.Nil(t, wide.ExtrasPenalty)
	assert.Equal(t, 1, wide.RunsExtras)
	assert.Equal(t, 1, wide.RunsTotal)
	assert.Equal(t, "p1", wide.BatterID)
	assert.Equal(t, "p4", wide.BowlerID)
	assert.Equal(t, "p2", wide.NonStrikerID)

	// Exactly one delivery carries a wickets payload.
	withWickets := 0
	for _, row := range rows {
		if row.Wickets != nil {
			withWickets++
		}
		assert.Nil(t, row.Review)
		assert.Nil(t, row.Replacements)
	}
	assert.Equal(t, 1, withWickets)

	// Clean deliveries keep every extras column null.
	clean := rows[1]
	assert.Nil(t, clean.ExtrasWides)
	assert.Equal(t, 4, clean.RunsBatter)
}

func TestNormalizeDeliveriesPreservesOverGaps(t *testing.T) {
	doc := testDoc("Gappy", 1)
	doc.Innings[0].Overs = append(doc.Innings[0].Overs, cricsheet.Over{
		Over:       7, // overs 1..6 missing in the source; not invented
		Deliveries: testOver()[:2],
	})
	r := NewResolver(store.NewMemory())

	rows, err := normalizeDeliveries(context.Background(), doc, r, testTeamIDs)
	require.NoError(t, err)
	require.Len(t, rows, 8)
	assert.Equal(t, 7, rows[6].OverNumber)
	assert.Equal(t, 1, rows[6].DeliveryNumber)
}

func TestNormalizeDeliveriesSecondInnings(t *testing.T) {
	doc := testDoc("Two Innings", 1)
	doc.Innings = append(doc.Innings, cricsheet.Inning{
		Team: "England",
		Overs: []cricsheet.Over{{Over: 0, Deliveries: []cricsheet.Delivery{{
			Batter: "E Batter", Bowler: "A Bowler", NonStriker: "E Bowler",
			Runs: cricsheet.Runs{Batter: 2, Extras: 0, Total: 2},
		}}}},
	})
	r := NewResolver(store.NewMemory())

	rows, err := normalizeDeliveries(context.Background(), doc, r, testTeamIDs)
	require.NoError(t, err)
	require.Len(t, rows, 7)

	second := rows[6]
	assert.Equal(t, 2, second.InningsNumber)
	assert.Equal(t, int64(2), second.TeamID)
	assert.Equal(t, 1, second.DeliveryNumber)
}

func TestNormalizeDeliveriesDuplicateCoordinates(t *testing.T) {
	doc := testDoc("Duped", 1)
	// Same over number appearing twice in one innings produces colliding
	// delivery coordinates.
	doc.Innings[0].Overs = append(doc.Innings[0].Overs, doc.Innings[0].Overs[0])
	r := NewResolver(store.NewMemory())

	_, err := normalizeDeliveries(context.Background(), doc, r, testTeamIDs)
	require.ErrorIs(t, err, ErrIntegrity)
}

func TestNormalizeDeliveriesUnknownTeam(t *testing.T) {
	doc := testDoc("Mystery", 1)
	doc.Innings[0].Team = "New Zealand"
	r := NewResolver(store.NewMemory())

	_, err := normalizeDeliveries(context.Background(), doc, r, testTeamIDs)
	require.ErrorIs(t, err, ErrIntegrity)
}

func TestNormalizeDeliveriesMissingBatter(t *testing.T) {
	doc := testDoc("Headless", 1)
	doc.Innings[0].Overs[0].Deliveries[2].Batter = ""
	r := NewResolver(store.NewMemory())

	_, err := normalizeDeliveries(context.Background(), doc, r, testTeamIDs)
	require.ErrorIs(t, err, ErrValidation)
}
