package ui

import "sysmon/monitor"

// Messages

type dataMsg struct {
	res monitor.TickResult
}

type statusMsg struct {
	text    string
	isError bool
}

// UI modes

type uiMode int

const (
	browsingMode uiMode = iota
	killInputMode
	helpMode
)

func (m uiMode) String() string {
	switch m {
	case killInputMode:
		return "awaiting-kill-input"
	case helpMode:
		return "help"
	}
	return "browsing"
}
