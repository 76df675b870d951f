package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

// FormatUptime renders d as "3d 04:05" or "04:05:06".
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	days := secs / 86400
	h := (secs % 86400) / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if days > 0 {
		return fmt.Sprintf("%dd %02d:%02d", days, h, m)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatKB renders a kibibyte count in IEC units.
func FormatKB(kb uint64) string {
	return humanize.IBytes(kb * 1024)
}

// FormatPercent renders a percentage with one decimal.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f", p)
}

// truncate shortens s to at most width cells, marking the cut with "…".
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// fit truncates s to width cells and pads it to exactly width.
func fit(s string, width int) string {
	s = truncate(s, width)
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
