// Package pipeline drives one arbitration per input row and collects the
// outcomes into an order-preserving batch result.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/UnknownOlympus/waypoint/internal/metrics"
	"github.com/UnknownOlympus/waypoint/internal/models"
)

// Arbitrator resolves one query into a canonical outcome.
type Arbitrator interface {
	Resolve(ctx context.Context, query models.Query) models.ResolutionOutcome
}

// Pipeline fans rows out to a bounded worker pool and publishes each
// outcome into an order-indexed slot, so BatchResult[i] always
// corresponds to input row i regardless of worker count. One worker
// reproduces strictly sequential processing.
type Pipeline struct {
	resolver   Arbitrator       // Arbitrator invoked once per row
	log        *slog.Logger     // Logger for batch progress
	metrics    *metrics.Metrics // Instruments for row processing
	numWorkers int              // Number of concurrent workers
}

// job carries one row together with its slot index.
type job struct {
	index int
	query models.Query
}

// New creates a Pipeline with the given worker count; counts below one
// are clamped to one.
func New(resolver Arbitrator, log *slog.Logger, mtr *metrics.Metrics, numWorkers int) *Pipeline {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Pipeline{
		resolver:   resolver,
		log:        log,
		metrics:    mtr,
		numWorkers: numWorkers,
	}
}

// Run resolves every row and returns the outcomes in input order.
// Row-level failures are not errors: an unresolvable venue yields an
// empty outcome and the batch continues.
func (p *Pipeline) Run(ctx context.Context, rows []models.Row) models.BatchResult {
	results := make(models.BatchResult, len(rows))
	if len(rows) == 0 {
		return results
	}

	p.log.InfoContext(ctx, "Starting batch resolution", "rows", len(rows), "num_workers", p.numWorkers)

	jobs := make(chan job, len(rows))
	var wgr sync.WaitGroup

	for i := 1; i <= p.numWorkers; i++ {
		wgr.Add(1)
		go p.worker(ctx, i, &wgr, jobs, results)
	}

	for i, row := range rows {
		jobs <- job{
			index: i,
			query: models.Query{
				City:  strings.TrimSpace(row.City),
				Venue: strings.TrimSpace(row.Venue),
			},
		}
	}
	close(jobs)

	wgr.Wait()
	p.log.InfoContext(ctx, "Batch resolution finished", "rows", len(rows))

	return results
}

// worker consumes jobs and writes each outcome into its slot. Workers
// never touch each other's slots, so no locking is needed around results.
func (p *Pipeline) worker(
	ctx context.Context,
	idx int,
	wgr *sync.WaitGroup,
	jobs <-chan job,
	results models.BatchResult,
) {
	defer wgr.Done()
	for jb := range jobs {
		p.metrics.ActiveWorkers.Inc()
		p.log.DebugContext(ctx, "Resolving row", "worker", idx, "row", jb.index, "query", jb.query.FullName())

		outcome := p.resolver.Resolve(ctx, jb.query)
		results[jb.index] = outcome

		if outcome.Point != nil {
			p.metrics.RowsProcessed.WithLabelValues("success").Inc()
		} else {
			p.log.InfoContext(ctx, "Row left unresolved", "worker", idx, "row", jb.index, "query", jb.query.FullName())
			p.metrics.RowsProcessed.WithLabelValues("failure").Inc()
		}

		p.metrics.ActiveWorkers.Dec()
	}
}
