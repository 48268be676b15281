package ingest

import (
	"github.com/cricstats/cricsheet-data/internal/cricsheet"
	"github.com/cricstats/cricsheet-data/internal/store"
)

// normalizeMatch converts the document header and outcome into the matches
// row plus one match_teams row per listed team.
//
// The outcome is a tagged union: only the fields describing how this match
// actually concluded are set, everything else stays nil so "not applicable"
// is distinguishable from "applicable but unknown". Team references inside
// the outcome must come from the document's own team list; anything else is
// a dangling reference.
func normalizeMatch(doc *cricsheet.Match, teamIDs map[string]int64) (store.MatchRow, []store.MatchTeamRow, error) {
	info := &doc.Info

	row := store.MatchRow{
		Name:        info.MatchName(),
		MatchNumber: info.MatchNumber(),
		MatchType:   info.MatchType,
		Season:      string(info.Season),
		Gender:      info.Gender,
	}

	out := &info.Outcome
	if cricsheet.HasPayload(out.By) {
		row.OutcomeBy = out.By
	}
	if out.Method != "" {
		row.OutcomeMethod = strPtr(out.Method)
	}
	if out.Result != "" {
		row.OutcomeResult = strPtr(out.Result)
	}

	var err error
	if row.OutcomeWinnerTeamID, err = outcomeTeam(out.Winner, "winner", teamIDs); err != nil {
		return store.MatchRow{}, nil, err
	}
	if row.OutcomeBowlOutTeamID, err = outcomeTeam(out.BowlOut, "bowl_out", teamIDs); err != nil {
		return store.MatchRow{}, nil, err
	}
	if row.OutcomeEliminatorTeamID, err = outcomeTeam(out.Eliminator, "eliminator", teamIDs); err != nil {
		return store.MatchRow{}, nil, err
	}

	teams := make([]store.MatchTeamRow, 0, len(info.Teams))
	for _, name := range info.Teams {
		teams = append(teams, store.MatchTeamRow{TeamID: teamIDs[name]})
	}

	return row, teams, nil
}

// outcomeTeam resolves an outcome team name against the document's team
// list. Empty means the field does not apply to this outcome kind.
func outcomeTeam(name, field string, teamIDs map[string]int64) (*int64, error) {
	if name == "" {
		return nil, nil
	}
	id, ok := teamIDs[name]
	if !ok {
		return nil, integrityf("outcome %s references team %q not in the match's team list", field, name)
	}
	return &id, nil
}

func strPtr(s string) *string { return &s }
