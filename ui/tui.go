package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"sysmon/apperrors"
	"sysmon/monitor"
)

// Run drives the interactive table until the user quits or ctx is done.
// The sampling loop feeds the program through Send and is stopped and
// waited for before Run returns.
func Run(ctx context.Context, engine *monitor.Engine, interval time.Duration, opts Options, progOpts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.Refresh == nil {
		opts.Refresh = engine.Refresh
	}

	g, gctx := errgroup.WithContext(ctx)

	progOpts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(gctx)}, progOpts...)
	p := tea.NewProgram(NewModel(opts), progOpts...)

	g.Go(func() error {
		err := engine.Run(gctx, interval, func(res monitor.TickResult) {
			p.Send(dataMsg{res: res})
		})
		if apperrors.IsContextError(err) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			// Killed through ctx: report why ctx ended instead.
			return context.Cause(gctx)
		}
		return err
	})

	return g.Wait()
}
