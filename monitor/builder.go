package monitor

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"sysmon/model"
)

// BuildStats counts what happened during one enumeration.
type BuildStats struct {
	Listed  int // PIDs returned by the source
	Omitted int // PIDs that vanished or could not be read
}

// Builder captures snapshots from a CounterSource.
type Builder struct {
	source  CounterSource
	workers int
	now     func() time.Time
}

// NewBuilder reads up to workers processes in parallel; workers <= 0 means
// one per CPU.
func NewBuilder(source CounterSource, workers int) *Builder {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Builder{source: source, workers: workers, now: time.Now}
}

// Build returns a snapshot of the current instant. Processes that disappear
// between listing and reading are left out. The only error is cancellation
// of ctx, in which case no snapshot is produced.
func (b *Builder) Build(ctx context.Context) (model.Snapshot, BuildStats, error) {
	if err := ctx.Err(); err != nil {
		return model.Snapshot{}, BuildStats{}, err
	}

	system := b.source.SystemCounters()
	pids := b.source.ListPIDs()
	stats := BuildStats{Listed: len(pids)}

	// Workers only write their own slot; the map is assembled after Wait.
	records := make([]model.ProcessRecord, len(pids))
	found := make([]bool, len(pids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, pid := range pids {
		i, pid := i, pid
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, ok := b.source.ReadProcess(pid)
			if !ok {
				return nil
			}
			rec.Pid = pid
			records[i] = rec
			found[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.Snapshot{}, stats, err
	}

	procs := make(map[int]model.ProcessRecord, len(pids))
	for i, pid := range pids {
		if found[i] {
			procs[pid] = records[i]
		}
	}
	stats.Omitted = len(pids) - len(procs)

	return model.Snapshot{
		System:  system,
		Procs:   procs,
		Host:    b.source.Host(),
		TakenAt: b.now(),
	}, stats, nil
}
