// Package daemon implements watch mode: a headless sampling loop that
// reports processes crossing CPU or memory thresholds.
package daemon

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"sysmon/alert"
	"sysmon/apperrors"
	"sysmon/config"
	"sysmon/logging"
	"sysmon/model"
	"sysmon/monitor"
)

// Notifier forwards alerts somewhere outside the log.
type Notifier interface {
	Send(ctx context.Context, a alert.Alert) error
}

// processKey tells a reused PID apart from the process that held it before.
type processKey struct {
	pid   int
	start uint64
}

// alertKey scopes the cooldown to one kind of breach of one process.
type alertKey struct {
	proc processKey
	kind alert.Kind
}

const (
	// alertQueueSize bounds alerts waiting for delivery; more are dropped.
	alertQueueSize  = 64
	deliveryTimeout = 10 * time.Second
)

type Daemon struct {
	engine     *monitor.Engine
	thresholds config.Thresholds
	logger     logging.Logger
	notifier   Notifier
	interval   time.Duration
	now        func() time.Time
	lastAlerts map[alertKey]time.Time
	queue      chan alert.Alert
}

// New builds a watcher. notifier may be nil to only log.
func New(engine *monitor.Engine, th config.Thresholds, interval time.Duration, logger logging.Logger, notifier Notifier) *Daemon {
	return &Daemon{
		engine:     engine,
		thresholds: th,
		logger:     logger,
		notifier:   notifier,
		interval:   interval,
		now:        time.Now,
		lastAlerts: make(map[alertKey]time.Time),
		queue:      make(chan alert.Alert, alertQueueSize),
	}
}

// Run samples until ctx is done. Alerts are handed to the notifier by a
// separate goroutine so a slow endpoint never delays a tick.
func (d *Daemon) Run(ctx context.Context) error {
	d.logger.Info("watching processes",
		logging.Float64("cpu_threshold", d.thresholds.CPU),
		logging.Float64("mem_threshold", d.thresholds.Mem),
		logging.Duration("cooldown", d.thresholds.Cooldown),
		logging.String("notify", d.notifyTarget()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if d.notifier != nil {
		g.Go(func() error {
			d.deliver(gctx)
			return nil
		})
	}
	g.Go(func() error {
		defer cancel()
		return d.engine.Run(gctx, d.interval, func(res monitor.TickResult) {
			d.check(res)
		})
	})

	err := g.Wait()
	if apperrors.IsContextError(err) {
		d.logger.Info("watch stopped")
	}
	return err
}

// check raises at most one alert per process and kind per cooldown window.
// CPU is skipped on the first tick since it has no baseline.
func (d *Daemon) check(res monitor.TickResult) []alert.Alert {
	now := d.now()
	seen := make(map[processKey]struct{}, len(res.Views))
	var raised []alert.Alert

	for _, v := range res.Views {
		pk := processKey{pid: v.Pid, start: v.StartTime}
		seen[pk] = struct{}{}

		for _, a := range d.breaches(v, res.Prev != nil) {
			k := alertKey{proc: pk, kind: a.Kind}
			if t, ok := d.lastAlerts[k]; ok && now.Sub(t) < d.thresholds.Cooldown {
				continue
			}
			a.Time = now
			d.lastAlerts[k] = now
			raised = append(raised, a)
			d.emit(a)
		}
	}

	for k := range d.lastAlerts {
		if _, ok := seen[k.proc]; !ok {
			delete(d.lastAlerts, k)
		}
	}
	return raised
}

// breaches lists every threshold v is over, CPU first.
func (d *Daemon) breaches(v model.ProcessView, haveCPU bool) []alert.Alert {
	var out []alert.Alert
	base := alert.Alert{Pid: v.Pid, User: v.User, Command: v.Cmd}
	if haveCPU && v.CPU >= d.thresholds.CPU {
		a := base
		a.Kind, a.Value, a.Threshold = alert.KindCPU, v.CPU, d.thresholds.CPU
		out = append(out, a)
	}
	if v.PMem >= d.thresholds.Mem {
		a := base
		a.Kind, a.Value, a.Threshold = alert.KindMem, v.PMem, d.thresholds.Mem
		out = append(out, a)
	}
	return out
}

func (d *Daemon) notifyTarget() string {
	if d.notifier == nil {
		return "log"
	}
	return "webhook"
}

// emit logs a and queues it for delivery without blocking.
func (d *Daemon) emit(a alert.Alert) {
	d.logger.Warn(a.Message(),
		logging.String("kind", string(a.Kind)),
		logging.Int("pid", a.Pid),
		logging.String("user", a.User),
		logging.Float64("value", a.Value))

	if d.notifier == nil {
		return
	}
	select {
	case d.queue <- a:
	default:
		d.logger.Warn("alert queue full, dropping delivery",
			logging.Int("pid", a.Pid),
			logging.String("kind", string(a.Kind)))
	}
}

// deliver drains the queue until ctx is done.
func (d *Daemon) deliver(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case a := <-d.queue:
			d.send(ctx, a)
		}
	}
}

func (d *Daemon) send(ctx context.Context, a alert.Alert) {
	sendCtx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()
	if err := d.notifier.Send(sendCtx, a); err != nil {
		d.logger.Error("alert delivery failed", err, logging.Int("pid", a.Pid))
	}
}
