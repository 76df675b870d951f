package monitor

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"sysmon/model"
)

// fakeSource is a mutable in-memory CounterSource.
type fakeSource struct {
	mu       sync.Mutex
	sys      model.SystemCounters
	procs    map[int]model.ProcessRecord
	listed   []int // listed but unreadable
	memTotal uint64
	memAvail uint64
	memFree  uint64
}

func newFakeSource() *fakeSource {
	return &fakeSource{procs: make(map[int]model.ProcessRecord)}
}

func (f *fakeSource) set(r model.ProcessRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.procs[r.Pid] = r
}

func (f *fakeSource) remove(pid int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.procs, pid)
}

func (f *fakeSource) setSystem(c model.SystemCounters) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sys = c
}

func (f *fakeSource) SystemCounters() model.SystemCounters {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sys
}

func (f *fakeSource) MemTotalKB() uint64     { return f.memTotal }
func (f *fakeSource) MemAvailableKB() uint64 { return f.memAvail }
func (f *fakeSource) MemFreeKB() uint64      { return f.memFree }
func (f *fakeSource) Host() model.HostInfo   { return model.HostInfo{} }

func (f *fakeSource) ListPIDs() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	pids := append([]int(nil), f.listed...)
	for pid := range f.procs {
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids
}

func (f *fakeSource) ReadProcess(pid int) (model.ProcessRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.procs[pid]
	return r, ok
}

type recorderFunc func(TickResult)

func (f recorderFunc) RecordTick(r TickResult) { f(r) }

func TestEngine_TickThreadsPreviousSnapshot(t *testing.T) {
	src := newFakeSource()
	src.memTotal, src.memAvail, src.memFree = 1000, 600, 100
	src.setSystem(model.SystemCounters{User: 100, Idle: 900})
	src.set(rec(1, 10, 0, 5, 250))
	src.listed = []int{99}

	var recorded []TickResult
	e := NewEngine(src, WithRecorder(recorderFunc(func(r TickResult) { recorded = append(recorded, r) })))

	first, err := e.Tick(context.Background(), nil)
	if err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if first.Prev != nil || first.SysCPUPercent != 0 || first.Views[0].CPU != 0 {
		t.Fatalf("first tick should report zero CPU: %+v", first)
	}
	if first.MemTotalKB != 1000 || first.MemUsedKB != 400 {
		t.Errorf("mem = %d/%d, want 400/1000", first.MemUsedKB, first.MemTotalKB)
	}
	if first.Stats.Omitted != 1 {
		t.Errorf("omitted = %d, want 1", first.Stats.Omitted)
	}

	src.setSystem(model.SystemCounters{User: 150, Idle: 950})
	src.set(rec(1, 30, 0, 5, 250))
	src.set(rec(2, 1000, 0, 6, 0))

	prev := first.Snapshot
	second, err := e.Tick(context.Background(), &prev)
	if err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if second.Prev != &prev {
		t.Error("result should record the snapshot it was derived against")
	}
	if !almostEqual(second.SysCPUPercent, 50) {
		t.Errorf("SysCPUPercent = %v, want 50", second.SysCPUPercent)
	}
	byPID := map[int]model.ProcessView{}
	for _, v := range second.Views {
		byPID[v.Pid] = v
	}
	if !almostEqual(byPID[1].CPU, 20) || !almostEqual(byPID[1].PMem, 25) {
		t.Errorf("PID 1 view = %+v", byPID[1])
	}
	if byPID[2].CPU != 0 {
		t.Errorf("new PID 2 should start at 0%%, got %v", byPID[2].CPU)
	}
	if len(recorded) != 2 {
		t.Errorf("recorder saw %d ticks, want 2", len(recorded))
	}
}

func TestEngine_MemTotalCapturedOnce(t *testing.T) {
	src := newFakeSource()
	src.memTotal = 2000
	e := NewEngine(src)
	src.memTotal = 1

	res, err := e.Tick(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.MemTotalKB != 2000 || e.MemTotalKB() != 2000 {
		t.Fatalf("memory total should stay at the startup value, got %d", res.MemTotalKB)
	}
}

func TestMemUsed(t *testing.T) {
	tests := []struct {
		total, avail, free, want uint64
	}{
		{1000, 600, 100, 400},
		{1000, 0, 100, 900}, // no MemAvailable
		{1000, 1000, 100, 900},
		{1000, 2000, 3000, 0},
		{0, 0, 0, 0},
	}
	for _, tt := range tests {
		if got := memUsed(tt.total, tt.avail, tt.free); got != tt.want {
			t.Errorf("memUsed(%d, %d, %d) = %d, want %d", tt.total, tt.avail, tt.free, got, tt.want)
		}
	}
}

func TestEngine_RunSequentialAndCancelable(t *testing.T) {
	src := newFakeSource()
	src.setSystem(model.SystemCounters{Idle: 1})
	src.set(rec(1, 0, 0, 1, 0))
	e := NewEngine(src, WithWorkers(2))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var results []TickResult
	done := make(chan error, 1)
	go func() {
		done <- e.Run(ctx, 5*time.Millisecond, func(r TickResult) {
			results = append(results, r)
			if len(results) == 3 {
				cancel()
			}
		})
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if len(results) < 3 {
		t.Fatalf("got %d ticks, want at least 3", len(results))
	}
	if results[0].Prev != nil {
		t.Error("first tick should have no previous snapshot")
	}
	for i := 1; i < len(results); i++ {
		if results[i].Prev == nil || !results[i].Prev.TakenAt.Equal(results[i-1].Snapshot.TakenAt) {
			t.Errorf("tick %d was not derived against tick %d", i, i-1)
		}
	}
}

func TestEngine_RefreshTriggersTick(t *testing.T) {
	src := newFakeSource()
	e := NewEngine(src)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticks := make(chan TickResult, 4)
	go func() {
		_ = e.Run(ctx, time.Hour, func(r TickResult) { ticks <- r })
	}()

	<-ticks // initial sample
	e.Refresh()
	e.Refresh() // coalesced with the first request

	select {
	case <-ticks:
	case <-time.After(5 * time.Second):
		t.Fatal("Refresh did not trigger a tick")
	}
}
