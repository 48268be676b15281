package ingest

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cricstats/cricsheet-data/internal/cricsheet"
)

// Run ingests a batch of match files with a bounded worker pool. Matches
// are independent units of work: a failing file is recorded and the run
// moves on, so one corrupt document never aborts a bulk load. Workers stop
// pulling new files once ctx is cancelled; in-flight matches finish or
// roll back.
func Run(ctx context.Context, ing *Ingestor, files []string, workers int, logger *slog.Logger) Result {
	var result Result
	result.FilesSeen = len(files)

	if len(files) == 0 {
		logger.Info("No match files to ingest")
		return result
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}

	ch := make(chan string, len(files))
	for _, f := range files {
		ch <- f
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup
	var processed int

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range ch {
				if ctx.Err() != nil {
					return
				}

				loaded, skipped, deliveries, err := ingestFile(ctx, ing, file)

				mu.Lock()
				if err != nil {
					result.AddErrorf("%s: %v", file, err)
				}
				result.MatchesLoaded += loaded
				result.MatchesSkipped += skipped
				result.DeliveriesLoaded += deliveries
				processed++
				if processed%500 == 0 {
					logger.Info("Ingestion progress", "processed", processed, "total", len(files))
				}
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	logger.Info("Ingestion finished", "summary", result.Summary())
	return result
}

// ingestFile decodes and loads one file. The error carries the taxonomy
// mark; the caller attaches the file identity.
func ingestFile(ctx context.Context, ing *Ingestor, file string) (loaded, skipped, deliveries int, err error) {
	doc, err := cricsheet.DecodeFile(file)
	if err != nil {
		return 0, 0, 0, validationf("%v", err)
	}

	_, created, err := ing.IngestDocument(ctx, doc)
	if err != nil {
		return 0, 0, 0, err
	}
	if !created {
		return 0, 1, 0, nil
	}

	n := 0
	for _, inning := range doc.Innings {
		for _, over := range inning.Overs {
			n += len(over.Deliveries)
		}
	}
	return 1, 0, n, nil
}
