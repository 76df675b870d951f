// Package app wires configuration, the counter source, the sampling engine
// and the selected run mode together.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"sysmon/alert"
	"sysmon/apperrors"
	"sysmon/config"
	"sysmon/daemon"
	"sysmon/logging"
	"sysmon/metrics"
	"sysmon/monitor"
	"sysmon/proc"
	"sysmon/ui"
)

// Application is one configured sysmon run.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer

	// IsTerminal reports whether stdout can host the interactive table.
	IsTerminal func() bool
}

// New parses args (including the program name).
func New(args []string, errWriter io.Writer) (*Application, error) {
	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}
	cfg, err := config.Parse(cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	return &Application{
		Config:    cfg,
		ErrWriter: errWriter,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdout.Fd()))
		},
	}, nil
}

// Run executes the configured mode and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Command == config.CommandHelp {
		config.Usage(out)
		return apperrors.ExitSuccess
	}

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	err := a.run(ctx, out)
	if err != nil && !apperrors.IsContextError(err) {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
	}
	return apperrors.ExitCode(err)
}

func (a *Application) run(ctx context.Context, out io.Writer) error {
	cfg := a.Config
	interactive := cfg.Command == config.CommandTUI && a.IsTerminal()

	logger, closeLog, err := a.newLogger(interactive)
	if err != nil {
		return err
	}
	defer closeLog()

	source, err := proc.NewSource(cfg.ProcRoot)
	if err != nil {
		return apperrors.NewConfigError("%v", err)
	}

	opts := []monitor.Option{monitor.WithLogger(logger), monitor.WithWorkers(cfg.Workers)}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	if cfg.MetricsAddr != "" {
		collector := metrics.New()
		opts = append(opts, monitor.WithRecorder(collector))
		g.Go(func() error {
			return apperrors.WrapError(collector.Serve(gctx, cfg.MetricsAddr, logger), "metrics server")
		})
	}

	engine := monitor.NewEngine(source, opts...)
	logger.Debug("engine ready",
		logging.String("proc", cfg.ProcRoot),
		logging.String("mode", string(cfg.Command)),
		logging.Uint64("mem_total_kb", engine.MemTotalKB()))

	g.Go(func() error {
		defer cancel()
		return a.runMode(gctx, engine, out, logger, interactive)
	})
	return g.Wait()
}

func (a *Application) runMode(ctx context.Context, engine *monitor.Engine, out io.Writer, logger logging.Logger, interactive bool) error {
	cfg := a.Config
	switch cfg.Command {
	case config.CommandWatch:
		var notifier daemon.Notifier
		if cfg.WebhookURL != "" {
			notifier = alert.NewWebhook(cfg.WebhookURL, nil)
		}
		return daemon.New(engine, cfg.Thresholds(), config.DefaultInterval, logger, notifier).Run(ctx)

	case config.CommandBatch:
		b := ui.NewBatch(out, cfg.Format, cfg.Rows, cfg.SortMode)
		return ui.RunBatch(ctx, engine, config.DefaultInterval, b, cfg.Iterations)
	}

	if !interactive {
		logger.Info("stdout is not a terminal, printing one batch snapshot")
		b := ui.NewBatch(out, config.FormatTable, config.DefaultBatchRows, cfg.SortMode)
		return ui.RunBatch(ctx, engine, config.DefaultInterval, b, config.DefaultIterations)
	}
	return ui.Run(ctx, engine, config.DefaultInterval, ui.Options{
		Sort:   cfg.SortMode,
		Logger: logger,
	})
}

// newLogger picks the log destination. The interactive table owns the
// terminal, so it only logs when a file is given.
func (a *Application) newLogger(interactive bool) (logging.Logger, func(), error) {
	level := logging.ParseLevel(a.Config.LogLevel)
	if a.Config.LogFile != "" {
		f, err := os.OpenFile(a.Config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, apperrors.NewConfigError("open log file: %v", err)
		}
		return logging.NewLeveledLogger(f, "sysmon", level), func() { f.Close() }, nil
	}
	if interactive {
		return logging.NewNopLogger(), func() {}, nil
	}
	return logging.NewConsoleLogger(a.ErrWriter, "sysmon", level), func() {}, nil
}
