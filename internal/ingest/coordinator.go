package ingest

import (
	"context"
	"log/slog"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/cricstats/cricsheet-data/internal/cricsheet"
	"github.com/cricstats/cricsheet-data/internal/store"
)

// Ingestor sequences the normalizers for one match document and commits the
// result as a single atomic unit through the store.
type Ingestor struct {
	store    store.Store
	resolver *Resolver
	logger   *slog.Logger
}

// NewIngestor creates an ingestor with its own resolver. One ingestor is
// shared across all workers of a run; per-match state stays on the stack.
func NewIngestor(st store.Store, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		store:    st,
		resolver: NewResolver(st),
		logger:   logger,
	}
}

// Resolver exposes the run-wide entity resolver.
func (ing *Ingestor) Resolver() *Resolver { return ing.resolver }

// IngestDocument loads one match document. Re-ingesting an already loaded
// match is a no-op returning the existing id with created=false. On any
// failure nothing for this match is persisted beyond the shared identity
// rows, which are match-independent by design.
func (ing *Ingestor) IngestDocument(ctx context.Context, doc *cricsheet.Match) (matchID int64, created bool, err error) {
	info := &doc.Info
	if len(info.Teams) == 0 {
		return 0, false, validationf("document lists no teams")
	}

	name, number := info.MatchName(), info.MatchNumber()

	if id, ok, err := ing.store.FindMatch(ctx, name, number); err != nil {
		return 0, false, storageWrap(err, "probe match %q", name)
	} else if ok {
		ing.logger.Debug("Match already loaded, skipping", "match", name, "match_number", number)
		return id, false, nil
	}

	if err := ing.ensureRegistry(ctx, info); err != nil {
		return 0, false, err
	}

	teamIDs := make(map[string]int64, len(info.Teams))
	for _, team := range info.Teams {
		id, err := ing.resolver.ResolveTeam(ctx, team, info.TeamType)
		if err != nil {
			return 0, false, err
		}
		teamIDs[team] = id
	}

	matchRow, matchTeams, err := normalizeMatch(doc, teamIDs)
	if err != nil {
		return 0, false, err
	}
	players, err := normalizeRoster(ctx, doc, ing.resolver, teamIDs)
	if err != nil {
		return 0, false, err
	}
	deliveries, err := normalizeDeliveries(ctx, doc, ing.resolver, teamIDs)
	if err != nil {
		return 0, false, err
	}

	batch := &store.MatchBatch{
		Match:      matchRow,
		Teams:      matchTeams,
		Players:    players,
		Deliveries: deliveries,
	}

	id, err := ing.store.LoadMatch(ctx, batch)
	if errors.Is(err, store.ErrDuplicateMatch) {
		// Another worker loaded the same match between probe and commit.
		if id, ok, ferr := ing.store.FindMatch(ctx, name, number); ferr == nil && ok {
			return id, false, nil
		}
		return 0, false, storageWrap(err, "load match %q", name)
	}
	if err != nil {
		return 0, false, storageWrap(err, "load match %q", name)
	}

	return id, true, nil
}

// ensureRegistry resolves every person in the document registry, not just
// the playing XIs — umpires and officials get identity rows too, matching
// what downstream joins expect. Sorted so store traffic is deterministic.
func (ing *Ingestor) ensureRegistry(ctx context.Context, info *cricsheet.Info) error {
	names := make([]string, 0, len(info.Registry.People))
	for name := range info.Registry.People {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		// PersonID falls back to the name for registry entries whose id is
		// blank — some older archives ship those.
		if _, err := ing.resolver.ResolvePerson(ctx, info.PersonID(name), name); err != nil {
			return err
		}
	}
	return nil
}
