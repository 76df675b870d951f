package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
)

func (m Model) View() string {
	if m.mode == helpMode {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderTitle())
	b.WriteString("\n\n")
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(baseStyle.Render(m.renderTable()))
	b.WriteString("\n")

	switch m.mode {
	case killInputMode:
		b.WriteString(promptStyle.Render(m.pidInput.View()))
		b.WriteString("\n")
		b.WriteString(m.help.View(promptHelp{m.keys}))
	default:
		if m.statusText != "" {
			b.WriteString(m.renderStatus())
			b.WriteString("\n")
		}
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

// renderTable draws the rows held by m.table. The bubbles table only keeps
// cursor state here: its renderer cuts cells by byte width, which breaks
// styled text, so per-cell colors are applied by lipgloss/table instead.
func (m Model) renderTable() string {
	cols := m.table.Columns()
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = fit(c.Title, c.Width)
	}

	rows := m.table.Rows()
	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(row))
		for c, v := range row {
			cells[r][c] = fit(v, cols[c].Width)
		}
	}

	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		Wrap(false).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(m.styleCell).
		String()
}

// styleCell colors %CPU and %MEM by level and highlights the cursor row.
func (m Model) styleCell(row, col int) lipgloss.Style {
	if row == lgtable.HeaderRow {
		return tableHeaderStyle
	}
	style := cellStyle
	if row == m.table.Cursor() {
		style = selectedStyle
	}
	if row >= len(m.views) {
		return style
	}

	v := m.views[row]
	var (
		level lipgloss.Style
		ok    bool
	)
	switch col {
	case colCPU:
		level, ok = levelStyle(v.CPU, 20, 50)
	case colMem:
		level, ok = levelStyle(v.PMem, 5, 10)
	}
	if ok {
		style = style.Foreground(level.GetForeground())
	}
	return style
}

func (m Model) renderTitle() string {
	title := titleStyle.Render("sysmon")
	if m.width <= 0 {
		return title
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Left, title,
		lipgloss.WithWhitespaceBackground(lipgloss.Color("62")))
}

// renderHeader is the two summary lines above the table.
func (m Model) renderHeader() string {
	if !m.haveData {
		return dimStyle.Render("sampling...") + "\n"
	}
	res := m.last
	host := res.Snapshot.Host

	memPct := 0.0
	if res.MemTotalKB > 0 {
		memPct = float64(res.MemUsedKB) * 100 / float64(res.MemTotalKB)
	}

	line1 := fmt.Sprintf("CPU: %5.1f%%   Mem: %s / %s (%.1f%%)",
		res.SysCPUPercent, FormatKB(res.MemUsedKB), FormatKB(res.MemTotalKB), memPct)
	line2 := fmt.Sprintf("Tasks: %d   Load: %.2f %.2f %.2f   Up: %s   Sort: %s",
		len(res.Snapshot.Procs), host.Load1, host.Load5, host.Load15,
		FormatUptime(host.Uptime), sortedColumnStyle.Render(m.sortMode.String()))

	return headerStyle.Render(line1) + "\n" + headerStyle.Render(line2)
}

func (m Model) renderStatus() string {
	style := successStyle
	if m.statusError {
		style = errorStyle
	}
	return style.Render(m.statusText)
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("sysmon - keys"))
	b.WriteString("\n\n")

	full := m.help
	full.ShowAll = true
	b.WriteString(full.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("%CPU is the share of all CPU time since the previous sample."))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("%MEM is resident memory over the total seen at startup."))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Press any key to return..."))

	return helpBoxStyle.Render(b.String())
}
