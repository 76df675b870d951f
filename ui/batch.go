package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"sysmon/config"
	"sysmon/model"
	"sysmon/monitor"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Batch prints ranked snapshots as plain text, JSON lines or a YAML stream.
type Batch struct {
	w      io.Writer
	format string
	rows   int
	sort   model.SortMode
	yaml   *yaml.Encoder
}

// NewBatch prints at most rows processes per tick; rows <= 0 prints all.
func NewBatch(w io.Writer, format string, rows int, sort model.SortMode) *Batch {
	b := &Batch{w: w, format: format, rows: rows, sort: sort}
	if format == config.FormatYAML {
		b.yaml = yaml.NewEncoder(w)
		b.yaml.SetIndent(2)
	}
	return b
}

// BatchProcess is one row of structured batch output.
type BatchProcess struct {
	PID        int     `json:"pid" yaml:"pid"`
	User       string  `json:"user" yaml:"user"`
	State      string  `json:"state" yaml:"state"`
	CPUPercent float64 `json:"cpu_percent" yaml:"cpu_percent"`
	MemPercent float64 `json:"mem_percent" yaml:"mem_percent"`
	RSSKB      uint64  `json:"rss_kb" yaml:"rss_kb"`
	Command    string  `json:"command" yaml:"command"`
}

// BatchReport is one tick of structured batch output.
type BatchReport struct {
	Time          time.Time      `json:"time" yaml:"time"`
	CPUPercent    float64        `json:"cpu_percent" yaml:"cpu_percent"`
	MemUsedKB     uint64         `json:"mem_used_kb" yaml:"mem_used_kb"`
	MemTotalKB    uint64         `json:"mem_total_kb" yaml:"mem_total_kb"`
	Tasks         int            `json:"tasks" yaml:"tasks"`
	Load          [3]float64     `json:"load" yaml:"load,flow"`
	UptimeSeconds int64          `json:"uptime_seconds" yaml:"uptime_seconds"`
	Sort          string         `json:"sort" yaml:"sort"`
	Processes     []BatchProcess `json:"processes" yaml:"processes"`
}

func (b *Batch) report(res monitor.TickResult, ranked []model.ProcessView) BatchReport {
	host := res.Snapshot.Host
	r := BatchReport{
		Time:          res.Snapshot.TakenAt,
		CPUPercent:    res.SysCPUPercent,
		MemUsedKB:     res.MemUsedKB,
		MemTotalKB:    res.MemTotalKB,
		Tasks:         len(res.Snapshot.Procs),
		Load:          [3]float64{host.Load1, host.Load5, host.Load15},
		UptimeSeconds: int64(host.Uptime / time.Second),
		Sort:          b.sort.String(),
		Processes:     make([]BatchProcess, 0, len(ranked)),
	}
	for _, v := range ranked {
		r.Processes = append(r.Processes, BatchProcess{
			PID:        v.Pid,
			User:       v.User,
			State:      v.State,
			CPUPercent: v.CPU,
			MemPercent: v.PMem,
			RSSKB:      v.RSSKB,
			Command:    v.Cmd,
		})
	}
	return r
}

// Print writes one tick.
func (b *Batch) Print(res monitor.TickResult) error {
	ranked := model.Rank(res.Views, b.sort, b.rows)

	switch b.format {
	case config.FormatJSON:
		return json.NewEncoder(b.w).Encode(b.report(res, ranked))
	case config.FormatYAML:
		return b.yaml.Encode(b.report(res, ranked))
	}
	return b.printTable(res, ranked)
}

func (b *Batch) printTable(res monitor.TickResult, ranked []model.ProcessView) error {
	host := res.Snapshot.Host
	var sb strings.Builder

	fmt.Fprintf(&sb, "sysmon - %s up %s, load average: %.2f, %.2f, %.2f\n",
		res.Snapshot.TakenAt.Format("15:04:05"), FormatUptime(host.Uptime),
		host.Load1, host.Load5, host.Load15)
	fmt.Fprintf(&sb, "Tasks: %d total\n", len(res.Snapshot.Procs))
	fmt.Fprintf(&sb, "%%Cpu(s): %5.1f   Mem: %s total, %s used\n\n",
		res.SysCPUPercent, FormatKB(res.MemTotalKB), FormatKB(res.MemUsedKB))

	fmt.Fprintf(&sb, "%7s %-10s %1s %6s %6s %10s %s\n",
		"PID", "USER", "S", "%CPU", "%MEM", "RSS", "COMMAND")
	for _, v := range ranked {
		fmt.Fprintf(&sb, "%7d %-10s %1s %6.1f %6.1f %10s %s\n",
			v.Pid, truncate(v.User, 10), v.State, v.CPU, v.PMem, FormatKB(v.RSSKB), v.Cmd)
	}
	sb.WriteString("\n")

	_, err := io.WriteString(b.w, sb.String())
	return err
}

// Close flushes a YAML stream.
func (b *Batch) Close() error {
	if b.yaml != nil {
		return b.yaml.Close()
	}
	return nil
}

// RunBatch prints iterations ticks. The first sample only primes the
// deltas, so output starts one interval after launch.
func RunBatch(ctx context.Context, engine *monitor.Engine, interval time.Duration, b *Batch, iterations int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printed := 0
	var printErr error
	err := engine.Run(ctx, interval, func(res monitor.TickResult) {
		if res.Prev == nil || printed >= iterations {
			return
		}
		if printErr = b.Print(res); printErr != nil {
			cancel()
			return
		}
		printed++
		if printed == iterations {
			cancel()
		}
	})

	if printErr != nil {
		return printErr
	}
	if printed == iterations && errors.Is(err, context.Canceled) {
		return b.Close()
	}
	return err
}
