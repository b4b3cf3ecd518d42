package usecase

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/loam-labs/evmkit/internal/domain/models"
)

// OrderedCallback receives one replayed log (or a failed source's error with
// a nil log). Any channels it returns are drained before the next log is
// delivered, letting a slow consumer pace the replay.
type OrderedCallback func(err error, log *models.EventLog) []<-chan error

// OrderedReplayer collects logs from several independent sources, merges
// them into one block-order-consistent sequence and replays it sequentially
// with backpressure-aware callbacks.
type OrderedReplayer struct {
	enricher *Enricher
	log      *slog.Logger
}

// NewOrderedReplayer creates a multi-source replayer.
func NewOrderedReplayer(enricher *Enricher, log *slog.Logger) *OrderedReplayer {
	return &OrderedReplayer{enricher: enricher, log: log}
}

// sourceResult is one source's contribution: its enriched logs and its fetch
// error, if any. A failed source contributes zero logs plus the error; it
// never aborts the collection barrier.
type sourceResult struct {
	logs []*models.EventLog
	err  error
}

// ReplayOrdered starts the three-phase replay and returns a handle
// immediately.
//
// Phase 1 fetches every source concurrently and enriches each source's logs
// as they arrive, tagging the source's error (if any) onto its logs. Phase 2
// begins only after all sources have reported: the lists are concatenated
// and sorted by (block number, transaction index, log index). Phase 3
// replays the sorted sequence through cb, pausing for opts.Delay before each
// log and for every pending channel cb returns after it. Replay order is the
// only ordering callers may rely on; per-source transport order carries no
// meaning.
func (r *OrderedReplayer) ReplayOrdered(ctx context.Context, sources []LogSource, cb OrderedCallback, opts ReplayOptions) *ReplayHandle {
	handle := newReplayHandle()
	for _, source := range sources {
		if sa, ok := source.(StopAttacher); ok {
			sa.AttachStop(handle.Stop)
		}
	}

	go func() {
		handle.setState(StateFetching)
		results := r.collect(ctx, sources)

		merged := lo.Flatten(lo.Map(results, func(res sourceResult, _ int) []*models.EventLog {
			return res.logs
		}))
		sort.SliceStable(merged, func(i, j int) bool {
			return merged[i].Before(merged[j])
		})
		if opts.Transform != nil {
			merged = opts.Transform(merged)
		}

		handle.setState(StateReplaying)

		// A failed source is surfaced once, before the ordered replay, so
		// partial-failure-tolerant consumers can take note and still see
		// every healthy source's logs.
		for _, res := range results {
			if res.err == nil {
				continue
			}
			if !handle.wait(ctx, 0) {
				handle.finish(StateStopped)
				return
			}
			r.awaitPending(ctx, cb(res.err, nil))
		}

		for _, log := range merged {
			if !handle.wait(ctx, opts.Delay) {
				handle.finish(StateStopped)
				return
			}
			r.awaitPending(ctx, cb(log.Err, log))
		}

		if opts.OnFinish != nil {
			opts.OnFinish(merged)
		}
		handle.finish(StateFinished)
	}()

	return handle
}

// collect runs phase 1: one goroutine per source, results indexed by source
// position. It returns only after every source has reported, success or
// error.
func (r *OrderedReplayer) collect(ctx context.Context, sources []LogSource) []sourceResult {
	results := make([]sourceResult, len(sources))
	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		go func(i int, source LogSource) {
			defer wg.Done()
			raws, err := source.FetchLogs(ctx)
			if err != nil {
				r.log.Warn("log source failed, continuing with remaining sources",
					"source", i,
					"error", err,
				)
			}
			logs := make([]*models.EventLog, 0, len(raws))
			for _, raw := range raws {
				log := r.enricher.Enrich(raw)
				log.Err = err
				logs = append(logs, log)
			}
			results[i] = sourceResult{logs: logs, err: err}
		}(i, source)
	}
	wg.Wait()
	return results
}

// awaitPending blocks until every deferred value returned by a callback has
// settled. Stops are deliberately not honored here: once a wait for a
// pending value has started it runs to completion, and only the next
// iteration observes the stop.
func (r *OrderedReplayer) awaitPending(ctx context.Context, pending []<-chan error) {
	for _, ch := range pending {
		if ch == nil {
			continue
		}
		select {
		case err := <-ch:
			if err != nil {
				r.log.Warn("replay consumer reported error", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
