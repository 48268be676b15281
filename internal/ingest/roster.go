package ingest

import (
	"context"

	"github.com/cricstats/cricsheet-data/internal/cricsheet"
	"github.com/cricstats/cricsheet-data/internal/store"
)

// normalizeRoster converts each team's player list into match_players rows.
// Walks the document's team list (not the players map) so output order is
// deterministic. A player appearing for two teams in one match would make
// per-team aggregation ambiguous, so that is a hard integrity failure, not
// a pick-one.
func normalizeRoster(ctx context.Context, doc *cricsheet.Match, resolver *Resolver, teamIDs map[string]int64) ([]store.MatchPlayerRow, error) {
	info := &doc.Info

	for team := range info.Players {
		if _, ok := teamIDs[team]; !ok {
			return nil, integrityf("player list references team %q not in the match's team list", team)
		}
	}

	seen := make(map[string]string) // person id -> team name
	var rows []store.MatchPlayerRow

	for _, team := range info.Teams {
		teamID := teamIDs[team]
		for _, player := range info.Players[team] {
			personID, err := resolver.ResolvePerson(ctx, info.PersonID(player), player)
			if err != nil {
				return nil, err
			}
			if other, dup := seen[personID]; dup {
				if other != team {
					return nil, integrityf("player %q listed for both %q and %q", player, other, team)
				}
				// Same player repeated in one list: one row is enough.
				continue
			}
			seen[personID] = team
			rows = append(rows, store.MatchPlayerRow{TeamID: teamID, PersonID: personID})
		}
	}

	return rows, nil
}
