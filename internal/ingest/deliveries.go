package ingest

import (
	"context"

	"github.com/cricstats/cricsheet-data/internal/cricsheet"
	"github.com/cricstats/cricsheet-data/internal/store"
)

// deliveryCoord is the unique coordinate of one ball within a match.
type deliveryCoord struct {
	teamID   int64
	innings  int
	over     int
	delivery int
}

// normalizeDeliveries walks the innings -> overs -> deliveries nesting and
// emits one overs_deliveries row per ball.
//
// Innings numbers are the 1-based document position; over numbers are taken
// from the source verbatim (gaps preserved, never invented); delivery
// numbers are the 1-based position within the over. Run fields are copied
// verbatim. Extras columns stay nil when the source object lacks that key:
// absence is null, not zero. Replacements, reviews and wickets keep their
// source shape as opaque payloads.
func normalizeDeliveries(ctx context.Context, doc *cricsheet.Match, resolver *Resolver, teamIDs map[string]int64) ([]store.DeliveryRow, error) {
	info := &doc.Info

	var rows []store.DeliveryRow
	seen := make(map[deliveryCoord]struct{})

	for i, inning := range doc.Innings {
		inningsNumber := i + 1

		teamID, ok := teamIDs[inning.Team]
		if !ok {
			return nil, integrityf("innings %d references team %q not in the match's team list", inningsNumber, inning.Team)
		}

		for _, over := range inning.Overs {
			for j, del := range over.Deliveries {
				coord := deliveryCoord{teamID, inningsNumber, over.Over, j + 1}
				if _, dup := seen[coord]; dup {
					return nil, integrityf("duplicate delivery innings=%d over=%d ball=%d for team %q",
						coord.innings, coord.over, coord.delivery, inning.Team)
				}
				seen[coord] = struct{}{}

				row, err := normalizeDelivery(ctx, info, resolver, &del, coord)
				if err != nil {
					return nil, err
				}
				rows = append(rows, row)
			}
		}
	}

	return rows, nil
}

func normalizeDelivery(ctx context.Context, info *cricsheet.Info, resolver *Resolver, del *cricsheet.Delivery, coord deliveryCoord) (store.DeliveryRow, error) {
	if del.Batter == "" || del.Bowler == "" || del.NonStriker == "" {
		return store.DeliveryRow{}, validationf("delivery innings=%d over=%d ball=%d is missing batter, bowler or non-striker",
			coord.innings, coord.over, coord.delivery)
	}

	batterID, err := resolver.ResolvePerson(ctx, info.PersonID(del.Batter), del.Batter)
	if err != nil {
		return store.DeliveryRow{}, err
	}
	bowlerID, err := resolver.ResolvePerson(ctx, info.PersonID(del.Bowler), del.Bowler)
	if err != nil {
		return store.DeliveryRow{}, err
	}
	nonStrikerID, err := resolver.ResolvePerson(ctx, info.PersonID(del.NonStriker), del.NonStriker)
	if err != nil {
		return store.DeliveryRow{}, err
	}

	row := store.DeliveryRow{
		TeamID:         coord.teamID,
		InningsNumber:  coord.innings,
		OverNumber:     coord.over,
		DeliveryNumber: coord.delivery,

		BatterID:     batterID,
		BowlerID:     bowlerID,
		NonStrikerID: nonStrikerID,

		RunsBatter:      del.Runs.Batter,
		RunsExtras:      del.Runs.Extras,
		RunsTotal:       del.Runs.Total,
		RunsNonBoundary: del.Runs.NonBoundary,
	}

	if ex := del.Extras; ex != nil {
		row.ExtrasByes = ex.Byes
		row.ExtrasLegByes = ex.LegByes
		row.ExtrasNoBalls = ex.NoBalls
		row.ExtrasPenalty = ex.Penalty
		row.ExtrasWides = ex.Wides
	}

	if cricsheet.HasPayload(del.Replacements) {
		row.Replacements = del.Replacements
	}
	if cricsheet.HasPayload(del.Review) {
		row.Review = del.Review
	}
	if cricsheet.HasPayload(del.Wickets) {
		row.Wickets = del.Wickets
	}

	return row, nil
}
