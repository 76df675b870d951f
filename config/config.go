// Package config turns the command line and SYSMON_* environment variables
// into an AppConfig. Priority is flags, then environment, then defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"sysmon/apperrors"
	"sysmon/model"
)

// EnvPrefix is prepended to every environment override key.
const EnvPrefix = "SYSMON_"

// DefaultInterval is the fixed sampling period.
const DefaultInterval = 2 * time.Second

const (
	DefaultProcRoot     = "/proc"
	DefaultLogLevel     = "info"
	DefaultBatchRows    = 20
	DefaultIterations   = 1
	DefaultFormat       = FormatTable
	DefaultCPUThreshold = 80.0
	DefaultMemThreshold = 80.0
	DefaultCooldown     = 60 * time.Second
)

// Command selects the run mode.
type Command string

const (
	CommandTUI   Command = "tui"
	CommandBatch Command = "batch"
	CommandWatch Command = "watch"
	CommandHelp  Command = "help"
)

// Batch output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// AppConfig is the fully resolved configuration for one run.
type AppConfig struct {
	Command Command

	ProcRoot    string
	LogLevel    string
	LogFile     string
	MetricsAddr string
	Sort        string
	SortMode    model.SortMode
	Workers     int

	// batch
	Rows       int
	Iterations int
	Format     string

	// watch
	CPUThreshold float64
	MemThreshold float64
	Cooldown     time.Duration
	WebhookURL   string
}

// Thresholds extracts the watch-mode alert settings.
func (c AppConfig) Thresholds() Thresholds {
	return Thresholds{
		CPU:      c.CPUThreshold,
		Mem:      c.MemThreshold,
		Cooldown: c.Cooldown,
		Webhook:  c.WebhookURL,
	}
}

// Parse reads the subcommand and its flags from args (without the program
// name). Flag usage and errors are written to errOut.
func Parse(args []string, errOut io.Writer) (AppConfig, error) {
	cmd, rest := splitCommand(args)
	cfg := AppConfig{Command: cmd}
	if cmd == CommandHelp {
		return cfg, nil
	}
	if !cmd.valid() {
		return cfg, apperrors.NewConfigError("unknown command %q (try 'sysmon help')", string(cmd))
	}

	fs := flag.NewFlagSet("sysmon "+string(cmd), flag.ContinueOnError)
	fs.SetOutput(errOut)
	cfg.registerFlags(fs)

	if err := fs.Parse(rest); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			cfg.Command = CommandHelp
			return cfg, nil
		}
		return cfg, apperrors.NewConfigError("%v", err)
	}
	if fs.NArg() > 0 {
		return cfg, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	applyEnvOverrides(&cfg, fs)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func splitCommand(args []string) (Command, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return CommandTUI, args
	}
	return Command(args[0]), args[1:]
}

func (c Command) valid() bool {
	switch c {
	case CommandTUI, CommandBatch, CommandWatch, CommandHelp:
		return true
	}
	return false
}

func (c *AppConfig) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.ProcRoot, "proc", DefaultProcRoot, "procfs mount point")
	fs.StringVar(&c.LogLevel, "log-level", DefaultLogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFile, "log-file", "", "append logs to this file")
	fs.StringVar(&c.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9100)")
	fs.StringVar(&c.Sort, "sort", "cpu", "initial sort key (cpu or mem)")
	fs.IntVar(&c.Workers, "workers", 0, "parallel process readers (0 = one per CPU)")

	switch c.Command {
	case CommandBatch:
		fs.IntVar(&c.Rows, "rows", DefaultBatchRows, "rows printed per tick (0 = all)")
		fs.IntVar(&c.Iterations, "n", DefaultIterations, "number of ticks to print")
		fs.StringVar(&c.Format, "format", DefaultFormat, "output format (table, json, yaml)")
	case CommandWatch:
		fs.Float64Var(&c.CPUThreshold, "cpu", DefaultCPUThreshold, "alert when a process exceeds this %CPU")
		fs.Float64Var(&c.MemThreshold, "mem", DefaultMemThreshold, "alert when a process exceeds this %MEM")
		fs.DurationVar(&c.Cooldown, "cooldown", DefaultCooldown, "minimum time between alerts for one PID")
		fs.StringVar(&c.WebhookURL, "webhook", "", "POST alerts to this URL")
	}
}

// Validate checks ranges and resolves derived fields.
func (c *AppConfig) Validate() error {
	mode, ok := model.ParseSortMode(c.Sort)
	if !ok {
		return apperrors.NewConfigError("invalid sort key %q (want cpu or mem)", c.Sort)
	}
	c.SortMode = mode

	if c.ProcRoot == "" {
		return apperrors.NewConfigError("proc root must not be empty")
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("workers must be >= 0, got %d", c.Workers)
	}

	switch c.Command {
	case CommandBatch:
		if c.Rows < 0 {
			return apperrors.NewConfigError("rows must be >= 0, got %d", c.Rows)
		}
		if c.Iterations < 1 {
			return apperrors.NewConfigError("-n must be >= 1, got %d", c.Iterations)
		}
		switch c.Format {
		case FormatTable, FormatJSON, FormatYAML:
		default:
			return apperrors.NewConfigError("unknown format %q (want table, json or yaml)", c.Format)
		}
	case CommandWatch:
		if err := c.Thresholds().Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Usage writes the command overview.
func Usage(w io.Writer) {
	fmt.Fprint(w, `sysmon - terminal process monitor

Usage:
  sysmon [tui] [flags]    interactive table (default)
  sysmon batch [flags]    print ranked snapshots to stdout
  sysmon watch [flags]    log and forward threshold alerts
  sysmon help             show this help

Run 'sysmon <command> -h' for the flags of a command.
Every flag can also be set as SYSMON_<FLAG>, e.g. SYSMON_LOG_LEVEL=debug.
`)
}
