package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cricstats/cricsheet-data/internal/store"
)

func TestNormalizeRoster(t *testing.T) {
	doc := testDoc("Roster", 1)
	r := NewResolver(store.NewMemory())

	rows, err := normalizeRoster(context.Background(), doc, r, testTeamIDs)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	// Teams walk in document order, players in list order.
	assert.Equal(t, int64(1), rows[0].TeamID)
	assert.Equal(t, "p1", rows[0].PersonID)
	assert.Equal(t, int64(2), rows[2].TeamID)
	assert.Equal(t, "p3", rows[2].PersonID)
}

func TestNormalizeRosterPlayerOnTwoTeams(t *testing.T) {
	doc := testDoc("Conflict", 1)
	doc.Info.Players["England"] = append(doc.Info.Players["England"], "A Batter")
	r := NewResolver(store.NewMemory())

	_, err := normalizeRoster(context.Background(), doc, r, testTeamIDs)
	require.ErrorIs(t, err, ErrIntegrity)
}

func TestNormalizeRosterDanglingTeam(t *testing.T) {
	doc := testDoc("Ghost Team", 1)
	doc.Info.Players["New Zealand"] = []string{"N Player"}
	r := NewResolver(store.NewMemory())

	_, err := normalizeRoster(context.Background(), doc, r, testTeamIDs)
	require.ErrorIs(t, err, ErrIntegrity)
}

func TestNormalizeRosterDeduplicatesSameTeam(t *testing.T) {
	doc := testDoc("Double Entry", 1)
	doc.Info.Players["Australia"] = append(doc.Info.Players["Australia"], "A Batter")
	r := NewResolver(store.NewMemory())

	rows, err := normalizeRoster(context.Background(), doc, r, testTeamIDs)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}
