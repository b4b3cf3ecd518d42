package usecase

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/loam-labs/evmkit/internal/domain/models"
)

// ReplayState is a replay's lifecycle phase.
type ReplayState string

const (
	StateIdle      ReplayState = "idle"
	StateFetching  ReplayState = "fetching"
	StateReplaying ReplayState = "replaying"
	StateStopped   ReplayState = "stopped"
	StateFinished  ReplayState = "finished"
)

// Callback receives one replayed log, or a fetch error with a nil log.
type Callback func(err error, log *models.EventLog)

// ReplayOptions configure a replay.
type ReplayOptions struct {
	// Delay is the pause before each replayed log.
	Delay time.Duration

	// Transform is applied to the full ordered log list before replay;
	// nil means identity.
	Transform func([]*models.EventLog) []*models.EventLog

	// OnFinish runs once after the last log has been replayed. It receives
	// the full ordered list (nil for a single-source replay). It does not
	// run after a stop.
	OnFinish func([]*models.EventLog)
}

// ReplayHandle controls a running replay. Stop is cooperative: it is checked
// between iterations, so at most one in-flight wait elapses after a stop,
// and no callback fires once stop has been requested.
type ReplayHandle struct {
	stopCh chan struct{}
	once   sync.Once
	state  atomic.Value
	done   chan struct{}
}

func newReplayHandle() *ReplayHandle {
	h := &ReplayHandle{
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	h.state.Store(StateIdle)
	return h
}

// Stop requests the replay to halt before its next callback.
func (h *ReplayHandle) Stop() {
	h.once.Do(func() { close(h.stopCh) })
}

// State reports the replay's current phase.
func (h *ReplayHandle) State() ReplayState {
	return h.state.Load().(ReplayState)
}

// Done is closed once the replay has stopped or finished.
func (h *ReplayHandle) Done() <-chan struct{} {
	return h.done
}

func (h *ReplayHandle) stopped() bool {
	select {
	case <-h.stopCh:
		return true
	default:
		return false
	}
}

func (h *ReplayHandle) setState(s ReplayState) {
	h.state.Store(s)
}

func (h *ReplayHandle) finish(s ReplayState) {
	h.setState(s)
	close(h.done)
}

// wait sleeps for d unless the replay is stopped or the context ends first.
// It reports whether the replay may proceed to the next callback.
func (h *ReplayHandle) wait(ctx context.Context, d time.Duration) bool {
	if d > 0 {
		select {
		case <-time.After(d):
		case <-h.stopCh:
			return false
		case <-ctx.Done():
			return false
		}
	}
	// A stop landing mid-wait still takes effect before the next callback.
	return !h.stopped() && ctx.Err() == nil
}

// Replayer fetches a single source's full log history and replays it
// sequentially, optionally paced, cancellable between steps.
type Replayer struct {
	enricher *Enricher
	log      *slog.Logger
}

// NewReplayer creates a single-source replayer.
func NewReplayer(enricher *Enricher, log *slog.Logger) *Replayer {
	return &Replayer{enricher: enricher, log: log}
}

// Replay starts replaying source's history through cb and returns a handle
// immediately. The source is fetched once; a fetch error is delivered as a
// single cb(err, nil) invocation. The stop handle is also attached to the
// source when it supports it.
func (r *Replayer) Replay(ctx context.Context, source LogSource, cb Callback, opts ReplayOptions) *ReplayHandle {
	handle := newReplayHandle()
	if sa, ok := source.(StopAttacher); ok {
		sa.AttachStop(handle.Stop)
	}

	go func() {
		handle.setState(StateFetching)
		raws, err := source.FetchLogs(ctx)
		if err != nil {
			r.log.Error("log fetch failed", "error", err)
			cb(err, nil)
			handle.finish(StateStopped)
			return
		}

		logs := make([]*models.EventLog, 0, len(raws))
		for _, raw := range raws {
			logs = append(logs, r.enricher.Enrich(raw))
		}
		if opts.Transform != nil {
			logs = opts.Transform(logs)
		}

		handle.setState(StateReplaying)
		for _, log := range logs {
			if !handle.wait(ctx, opts.Delay) {
				handle.finish(StateStopped)
				return
			}
			cb(nil, log)
		}

		if opts.OnFinish != nil {
			opts.OnFinish(nil)
		}
		handle.finish(StateFinished)
	}()

	return handle
}
