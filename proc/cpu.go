package proc

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"sysmon/model"
)

// SystemCounters parses the aggregate "cpu" line of /proc/stat. Any read
// failure yields all-zero counters.
//
// procfs exposes these as float64 seconds; the raw integer ticks are read
// here instead so deltas stay exact.
func (s *Source) SystemCounters() model.SystemCounters {
	f, err := os.Open(s.path("stat"))
	if err != nil {
		return model.SystemCounters{}
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return model.SystemCounters{}
	}
	return parseCPULine(line)
}

// parseCPULine fills the ten buckets in kernel order. Missing or malformed
// fields stay zero.
func parseCPULine(line string) model.SystemCounters {
	var c model.SystemCounters

	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "cpu" {
		return c
	}

	dst := []*uint64{
		&c.User, &c.Nice, &c.System, &c.Idle, &c.IOWait,
		&c.IRQ, &c.SoftIRQ, &c.Steal, &c.Guest, &c.GuestNice,
	}
	for i, tok := range fields[1:] {
		if i >= len(dst) {
			break
		}
		if v, err := strconv.ParseUint(tok, 10, 64); err == nil {
			*dst[i] = v
		}
	}
	return c
}
