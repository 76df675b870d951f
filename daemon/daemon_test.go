package daemon

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sysmon/alert"
	"sysmon/config"
	"sysmon/logging"
	"sysmon/model"
	"sysmon/monitor"
)

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []alert.Alert
	err    error
}

func (r *recordingNotifier) Send(_ context.Context, a alert.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, a)
	return r.err
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.alerts)
}

func pview(pid int, start uint64, cpu, mem float64) model.ProcessView {
	return model.ProcessView{
		ProcessRecord: model.ProcessRecord{Pid: pid, StartTime: start, User: "bob", Cmd: "job"},
		CPU:           cpu,
		PMem:          mem,
	}
}

func tick(first bool, views ...model.ProcessView) monitor.TickResult {
	res := monitor.TickResult{Views: views}
	if !first {
		res.Prev = &model.Snapshot{}
	}
	return res
}

func newTestDaemon(n Notifier) (*Daemon, *time.Time) {
	th := config.Thresholds{CPU: 80, Mem: 50, Cooldown: time.Minute}
	d := New(nil, th, time.Second, logging.NewNopLogger(), n)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }
	return d, &now
}

func TestDaemon_Breaches(t *testing.T) {
	d, _ := newTestDaemon(nil)

	got := d.check(tick(false,
		pview(1, 1, 95, 10), // cpu
		pview(2, 1, 10, 60), // mem
		pview(3, 1, 90, 90), // both
		pview(4, 1, 79.9, 49.9),
	))

	want := []struct {
		pid  int
		kind alert.Kind
	}{{1, alert.KindCPU}, {2, alert.KindMem}, {3, alert.KindCPU}, {3, alert.KindMem}}
	if len(got) != len(want) {
		t.Fatalf("got %d alerts, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Pid != w.pid || got[i].Kind != w.kind {
			t.Errorf("alert %d = %+v, want pid %d kind %s", i, got[i], w.pid, w.kind)
		}
	}
}

func TestDaemon_FirstTickIgnoresCPU(t *testing.T) {
	d, _ := newTestDaemon(nil)

	got := d.check(tick(true, pview(1, 1, 100, 0), pview(2, 1, 0, 75)))
	if len(got) != 1 || got[0].Pid != 2 || got[0].Kind != alert.KindMem {
		t.Fatalf("alerts = %+v, want only the memory alert", got)
	}
}

func TestDaemon_Cooldown(t *testing.T) {
	d, now := newTestDaemon(nil)
	hot := pview(7, 100, 99, 0)

	if got := d.check(tick(false, hot)); len(got) != 1 {
		t.Fatalf("first breach raised %d alerts, want 1", len(got))
	}
	*now = now.Add(30 * time.Second)
	if got := d.check(tick(false, hot)); len(got) != 0 {
		t.Fatalf("alerts within cooldown = %d, want 0", len(got))
	}

	*now = now.Add(31 * time.Second)
	if got := d.check(tick(false, hot)); len(got) != 1 {
		t.Fatalf("alerts after cooldown = %d, want 1", len(got))
	}
}

func TestDaemon_CooldownIsPerKind(t *testing.T) {
	d, now := newTestDaemon(nil)

	d.check(tick(false, pview(7, 100, 99, 0)))
	*now = now.Add(10 * time.Second)

	got := d.check(tick(false, pview(7, 100, 99, 70)))
	if len(got) != 1 || got[0].Kind != alert.KindMem {
		t.Fatalf("memory breach during CPU cooldown = %+v, want one mem alert", got)
	}
}

func TestDaemon_ReusedPIDAlertsAgain(t *testing.T) {
	d, _ := newTestDaemon(nil)

	d.check(tick(false, pview(7, 100, 99, 0)))
	if got := d.check(tick(false, pview(7, 200, 99, 0))); len(got) != 1 {
		t.Fatalf("a new process on a reused PID should alert, got %d alerts", len(got))
	}
	if len(d.lastAlerts) != 1 {
		t.Errorf("exited process should be forgotten, tracking %d", len(d.lastAlerts))
	}
}

// blockingNotifier holds every Send until release is closed.
type blockingNotifier struct {
	recordingNotifier
	release chan struct{}
}

func (b *blockingNotifier) Send(ctx context.Context, a alert.Alert) error {
	select {
	case <-b.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	return b.recordingNotifier.Send(ctx, a)
}

func TestDaemon_CheckDoesNotWaitForDelivery(t *testing.T) {
	n := &blockingNotifier{release: make(chan struct{})}
	d, _ := newTestDaemon(n)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.deliver(ctx)

	done := make(chan []alert.Alert, 1)
	go func() {
		done <- d.check(tick(false, pview(1, 1, 99, 0), pview(2, 1, 99, 0), pview(3, 1, 99, 0)))
	}()

	select {
	case got := <-done:
		if len(got) != 3 {
			t.Fatalf("got %d alerts, want 3", len(got))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("check blocked on a slow notifier")
	}

	close(n.release)
	deadline := time.After(5 * time.Second)
	for n.count() < 3 {
		select {
		case <-deadline:
			t.Fatalf("delivered %d alerts, want 3", n.count())
		case <-time.After(time.Millisecond):
		}
	}
}

func TestDaemon_FullQueueDropsDelivery(t *testing.T) {
	d, _ := newTestDaemon(&recordingNotifier{})

	views := make([]model.ProcessView, alertQueueSize+5)
	for i := range views {
		views[i] = pview(i+1, 1, 99, 0)
	}
	got := d.check(tick(false, views...))

	if len(got) != len(views) {
		t.Errorf("every breach should still be raised, got %d", len(got))
	}
	if len(d.queue) != alertQueueSize {
		t.Errorf("queued %d, want %d", len(d.queue), alertQueueSize)
	}
}

func TestDaemon_NotifierFailureIsNotFatal(t *testing.T) {
	n := &recordingNotifier{err: errors.New("boom")}
	d, _ := newTestDaemon(n)

	if got := d.check(tick(false, pview(1, 1, 99, 0), pview(2, 1, 99, 0))); len(got) != 2 {
		t.Fatalf("alerts should still be raised, got %d", len(got))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.deliver(ctx)

	deadline := time.After(5 * time.Second)
	for n.count() < 2 {
		select {
		case <-deadline:
			t.Fatalf("delivery stopped after a failure, attempted %d", n.count())
		case <-time.After(time.Millisecond):
		}
	}
}

type hotSource struct {
	mu    sync.Mutex
	ticks uint64
}

func (s *hotSource) SystemCounters() model.SystemCounters {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks += 100
	return model.SystemCounters{User: s.ticks}
}

func (s *hotSource) MemTotalKB() uint64     { return 1000 }
func (s *hotSource) MemAvailableKB() uint64 { return 0 }
func (s *hotSource) MemFreeKB() uint64      { return 0 }
func (s *hotSource) ListPIDs() []int        { return []int{1} }
func (s *hotSource) Host() model.HostInfo   { return model.HostInfo{} }

func (s *hotSource) ReadProcess(pid int) (model.ProcessRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.ProcessRecord{Pid: pid, UTime: s.ticks, StartTime: 1, Cmd: "spin"}, true
}

func TestDaemon_Run(t *testing.T) {
	n := &recordingNotifier{}
	engine := monitor.NewEngine(&hotSource{})
	d := New(engine, config.Thresholds{CPU: 50, Mem: 50, Cooldown: time.Hour}, time.Millisecond, logging.NewNopLogger(), n)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	deadline := time.After(5 * time.Second)
	for n.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("no alert raised")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}
	if n.count() != 1 {
		t.Errorf("cooldown should hold the alert count at 1, got %d", n.count())
	}
}
