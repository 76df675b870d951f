package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"sysmon/logging"
	"sysmon/model"
	"sysmon/monitor"
	"sysmon/proc"
)

const (
	// chromeLines is the screen height taken by everything except table rows.
	chromeLines = 12
	// defaultRows is used until the terminal reports its size.
	defaultRows = 20
)

// Column indexes into table.Row.
const (
	colPID = 0
	colCPU = 3
	colMem = 4
	colCmd = 6
)

// Options configures a Model.
type Options struct {
	Sort    model.SortMode
	Kill    func(pid int) error // defaults to proc.RequestKill
	Refresh func()              // asks the sampling loop for an early tick
	Logger  logging.Logger
}

// Model holds TUI state.
type Model struct {
	table    table.Model
	keys     KeyMap
	help     help.Model
	pidInput textinput.Model
	mode     uiMode
	sortMode model.SortMode

	last     monitor.TickResult
	haveData bool
	// views backs m.table's rows index for index.
	views []model.ProcessView

	width  int
	height int

	statusText  string
	statusError bool

	kill    func(pid int) error
	refresh func()
	logger  logging.Logger
}

func NewModel(opts Options) Model {
	columns := []table.Column{
		{Title: "PID", Width: 7},
		{Title: "USER", Width: 10},
		{Title: "S", Width: 2},
		{Title: "%CPU", Width: 6},
		{Title: "%MEM", Width: 6},
		{Title: "RSS", Width: 10},
		{Title: "COMMAND", Width: 50},
	}

	keys := DefaultKeyMap()
	tkm := table.DefaultKeyMap()
	tkm.LineUp = keys.Up
	tkm.LineDown = keys.Down
	tkm.PageUp = keys.PageUp
	tkm.PageDown = keys.PageDown

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(defaultRows),
		table.WithKeyMap(tkm),
	)

	ti := textinput.New()
	ti.Prompt = "PID to kill: "
	ti.Placeholder = "e.g. 1234"
	ti.CharLimit = 10

	if opts.Kill == nil {
		opts.Kill = proc.RequestKill
	}
	if opts.Refresh == nil {
		opts.Refresh = func() {}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}

	return Model{
		table:    t,
		keys:     keys,
		help:     help.New(),
		pidInput: ti,
		mode:     browsingMode,
		sortMode: opts.Sort,
		kill:     opts.Kill,
		refresh:  opts.Refresh,
		logger:   opts.Logger,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// visibleRows is the row budget handed to model.Rank.
func (m Model) visibleRows() int {
	if m.height <= 0 {
		return defaultRows
	}
	if n := m.height - chromeLines; n > 0 {
		return n
	}
	return 1
}

func (m Model) showStatus(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}
