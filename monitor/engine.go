package monitor

import (
	"context"
	"time"

	"sysmon/logging"
	"sysmon/model"
)

// TickResult is everything one tick produces. Views are only meaningful
// relative to Prev, the snapshot they were derived against.
type TickResult struct {
	Snapshot      model.Snapshot
	Prev          *model.Snapshot
	SysCPUPercent float64
	MemUsedKB     uint64
	MemTotalKB    uint64
	Views         []model.ProcessView
	Stats         BuildStats
	Took          time.Duration
}

// Recorder receives every completed tick, e.g. to export metrics.
type Recorder interface {
	RecordTick(TickResult)
}

type Engine struct {
	source     CounterSource
	builder    *Builder
	memTotalKB uint64
	logger     logging.Logger
	recorder   Recorder
	refresh    chan struct{}
}

type Option func(*Engine)

func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithWorkers bounds how many processes are read in parallel.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.builder = NewBuilder(e.source, n) }
}

// NewEngine captures the system memory total once; it is the %MEM
// denominator for the whole run.
func NewEngine(source CounterSource, opts ...Option) *Engine {
	e := &Engine{
		source:     source,
		builder:    NewBuilder(source, 0),
		memTotalKB: source.MemTotalKB(),
		logger:     logging.NewNopLogger(),
		refresh:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MemTotalKB is the memory total captured at startup.
func (e *Engine) MemTotalKB() uint64 { return e.memTotalKB }

// Tick builds a new snapshot and derives it against prev, which may be nil
// on the first tick. The caller keeps the returned Snapshot and passes it
// back on the next call. Tick only fails when ctx is canceled.
func (e *Engine) Tick(ctx context.Context, prev *model.Snapshot) (TickResult, error) {
	start := time.Now()

	cur, stats, err := e.builder.Build(ctx)
	if err != nil {
		return TickResult{}, err
	}
	sysPct, views := Derive(prev, cur, e.memTotalKB)

	res := TickResult{
		Snapshot:      cur,
		Prev:          prev,
		SysCPUPercent: sysPct,
		MemUsedKB:     memUsed(e.memTotalKB, e.source.MemAvailableKB(), e.source.MemFreeKB()),
		MemTotalKB:    e.memTotalKB,
		Views:         views,
		Stats:         stats,
		Took:          time.Since(start),
	}

	if stats.Omitted > 0 {
		e.logger.Debug("processes vanished during sampling",
			logging.Int("listed", stats.Listed), logging.Int("omitted", stats.Omitted))
	}
	if e.recorder != nil {
		e.recorder.RecordTick(res)
	}
	return res, nil
}

// memUsed prefers MemAvailable and falls back to MemFree on kernels that do
// not report it.
func memUsed(total, available, free uint64) uint64 {
	if total > available && available > 0 {
		return total - available
	}
	if total > free {
		return total - free
	}
	return 0
}

// Refresh asks a running loop to sample now. Requests made while a tick is
// in progress collapse into one.
func (e *Engine) Refresh() {
	select {
	case e.refresh <- struct{}{}:
	default:
	}
}

// Run samples immediately, then every interval or on Refresh, handing each
// result to sink. Ticks never overlap: the previous snapshot is owned by
// this loop and replaced only after sink returns. Run returns ctx.Err()
// once ctx is done.
func (e *Engine) Run(ctx context.Context, interval time.Duration, sink func(TickResult)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var prev *model.Snapshot
	sample := func() error {
		res, err := e.Tick(ctx, prev)
		if err != nil {
			return err
		}
		sink(res)
		snap := res.Snapshot
		prev = &snap
		return nil
	}

	e.logger.Info("sampling started", logging.Duration("interval", interval),
		logging.Uint64("mem_total_kb", e.memTotalKB))

	if err := sample(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-e.refresh:
			ticker.Reset(interval)
		}
		if err := sample(); err != nil {
			return err
		}
	}
}
