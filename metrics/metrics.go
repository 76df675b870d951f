// Package metrics exports sampling results in the Prometheus text format.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sysmon/logging"
	"sysmon/monitor"
)

const namespace = "sysmon"

// Collector implements monitor.Recorder on a private registry.
type Collector struct {
	registry *prometheus.Registry

	cpuPercent   prometheus.Gauge
	memUsed      prometheus.Gauge
	memTotal     prometheus.Gauge
	processes    prometheus.Gauge
	load         *prometheus.GaugeVec
	ticks        prometheus.Counter
	omitted      prometheus.Counter
	tickDuration prometheus.Histogram
}

// New registers the sysmon metrics plus the Go runtime and process
// collectors for the monitor itself.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		cpuPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cpu_usage_percent",
			Help:      "System-wide CPU usage over the last interval.",
		}),
		memUsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_used_bytes",
			Help:      "Memory in use (total minus available).",
		}),
		memTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_total_bytes",
			Help:      "Memory total captured at startup.",
		}),
		processes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "processes",
			Help:      "Processes in the latest snapshot.",
		}),
		load: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "load_average",
			Help:      "Load average from /proc/loadavg.",
		}, []string{"period"}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Completed sampling ticks.",
		}),
		omitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "process_read_failures_total",
			Help:      "Processes listed but gone or unreadable by the time they were read.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Time to build and derive one snapshot.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}

	c.registry.MustRegister(
		c.cpuPercent, c.memUsed, c.memTotal, c.processes, c.load,
		c.ticks, c.omitted, c.tickDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
	)
	return c
}

// RecordTick updates every metric from one tick.
func (c *Collector) RecordTick(res monitor.TickResult) {
	c.cpuPercent.Set(res.SysCPUPercent)
	c.memUsed.Set(float64(res.MemUsedKB) * 1024)
	c.memTotal.Set(float64(res.MemTotalKB) * 1024)
	c.processes.Set(float64(len(res.Snapshot.Procs)))

	host := res.Snapshot.Host
	c.load.WithLabelValues("1m").Set(host.Load1)
	c.load.WithLabelValues("5m").Set(host.Load5)
	c.load.WithLabelValues("15m").Set(host.Load15)

	c.ticks.Inc()
	c.omitted.Add(float64(res.Stats.Omitted))
	c.tickDuration.Observe(res.Took.Seconds())
}

// Handler serves the registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (c *Collector) Serve(ctx context.Context, addr string, logger logging.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return c.serve(ctx, ln, logger)
}

func (c *Collector) serve(ctx context.Context, ln net.Listener, logger logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening", logging.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
