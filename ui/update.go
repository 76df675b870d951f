package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"sysmon/logging"
	"sysmon/model"
	"sysmon/proc"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case killInputMode:
			return m.handleKillInput(msg)
		case helpMode:
			return m.handleHelpMode(msg)
		}
		return m.handleBrowsing(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(m.visibleRows() + 2)
		m.updateTable()
		return m, nil

	case dataMsg:
		m.last = msg.res
		m.haveData = true
		m.updateTable()
		return m, nil

	case statusMsg:
		m.statusText = msg.text
		m.statusError = msg.isError
		return m, nil
	}

	if m.mode == killInputMode {
		var cmd tea.Cmd
		m.pidInput, cmd = m.pidInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = helpMode
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		m.sortMode = m.sortMode.Toggle()
		m.updateTable()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Kill):
		m.mode = killInputMode
		m.statusText = ""
		m.pidInput.Reset()
		focus := m.pidInput.Focus()
		return m, tea.Batch(focus, textinput.Blink)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// handleKillInput is the AwaitingKillInput state: every path out of it
// returns to browsing.
func (m Model) handleKillInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = browsingMode
		m.pidInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		m.mode = browsingMode
		m.pidInput.Blur()

		input := m.pidInput.Value()
		pid, err := proc.ParsePID(input)
		if err != nil {
			m.logger.Debug("rejected kill input", logging.String("input", input))
			return m, m.showStatus(fmt.Sprintf("Invalid PID %q: must be a positive number", input), true)
		}
		return m, m.killCmd(pid)
	}

	var cmd tea.Cmd
	m.pidInput, cmd = m.pidInput.Update(msg)
	return m, cmd
}

func (m Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	m.mode = browsingMode
	return m, nil
}

// killCmd sends the signal off the update loop and reports the outcome.
func (m Model) killCmd(pid int) tea.Cmd {
	kill, logger := m.kill, m.logger
	return func() tea.Msg {
		if err := kill(pid); err != nil {
			logger.Warn("kill failed", logging.Int("pid", pid), logging.Err(err))
			return statusMsg{text: err.Error(), isError: true}
		}
		logger.Info("sent SIGTERM", logging.Int("pid", pid))
		return statusMsg{text: fmt.Sprintf("Sent SIGTERM to PID %d", pid)}
	}
}

func (m *Model) updateTable() {
	ranked := model.Rank(m.last.Views, m.sortMode, m.visibleRows())

	m.table.SetColumns(m.buildColumns())

	selected := m.selectedPID()
	m.views = ranked
	rows := m.buildRows(ranked)
	m.table.SetRows(rows)
	m.restoreSelection(rows, selected)
}

// buildColumns marks the sort column and widens COMMAND to the terminal.
func (m *Model) buildColumns() []table.Column {
	columns := m.table.Columns()
	columns[colCPU].Title = "%CPU"
	columns[colMem].Title = "%MEM"
	switch m.sortMode {
	case model.SortByCPU:
		columns[colCPU].Title = "%CPU↓"
	case model.SortByMem:
		columns[colMem].Title = "%MEM↓"
	}

	if m.width > 0 {
		used := 0
		for _, c := range columns[:len(columns)-1] {
			used += c.Width + 2
		}
		if w := m.width - used - 4; w > 10 {
			columns[len(columns)-1].Width = w
		}
	}
	return columns
}

func (m *Model) buildRows(views []model.ProcessView) []table.Row {
	cmdWidth := m.table.Columns()[colCmd].Width
	rows := make([]table.Row, 0, len(views))
	for _, v := range views {
		rows = append(rows, table.Row{
			strconv.Itoa(v.Pid),
			truncate(v.User, 10),
			v.State,
			FormatPercent(v.CPU),
			FormatPercent(v.PMem),
			FormatKB(v.RSSKB),
			truncate(v.Cmd, cmdWidth),
		})
	}
	return rows
}

// restoreSelection keeps the cursor on the same PID across refreshes.
func (m *Model) restoreSelection(rows []table.Row, pid int) {
	if pid <= 0 {
		return
	}
	want := strconv.Itoa(pid)
	for i := range rows {
		if rows[i][colPID] == want {
			m.table.SetCursor(i)
			return
		}
	}
}

func (m Model) selectedPID() int {
	row := m.table.SelectedRow()
	if len(row) == 0 {
		return 0
	}
	pid, _ := strconv.Atoi(row[colPID])
	return pid
}
