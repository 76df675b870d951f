package model

import "time"

// SystemCounters holds the cumulative CPU tick buckets from the first line of
// /proc/stat, in the order the kernel prints them.
type SystemCounters struct {
	User      uint64
	Nice      uint64
	System    uint64
	Idle      uint64
	IOWait    uint64
	IRQ       uint64
	SoftIRQ   uint64
	Steal     uint64
	Guest     uint64
	GuestNice uint64
}

// Total is the sum of all ten buckets.
func (c SystemCounters) Total() uint64 {
	return c.User + c.Nice + c.System + c.Idle + c.IOWait +
		c.IRQ + c.SoftIRQ + c.Steal + c.Guest + c.GuestNice
}

// IdleAll counts iowait as idle time.
func (c SystemCounters) IdleAll() uint64 {
	return c.Idle + c.IOWait
}

// ProcessRecord is one process as read from /proc/<pid>.
type ProcessRecord struct {
	Pid   int
	Uid   uint32
	User  string
	Comm  string // short name from /proc/<pid>/stat
	Cmd   string // full command line, untruncated
	State string

	UTime     uint64 // ticks in user mode
	STime     uint64 // ticks in kernel mode
	StartTime uint64 // ticks after boot

	RSSKB uint64
}

// TotalTime is the cumulative CPU time of the process in ticks.
func (r ProcessRecord) TotalTime() uint64 {
	return r.UTime + r.STime
}

// HostInfo carries header-only values that take no part in the deltas.
type HostInfo struct {
	Load1, Load5, Load15 float64
	Uptime               time.Duration
}

// Snapshot is an immutable point-in-time capture. Procs is keyed by PID.
type Snapshot struct {
	System  SystemCounters
	Procs   map[int]ProcessRecord
	Host    HostInfo
	TakenAt time.Time
}

// ProcessView is a record plus the percentages derived against the
// previous snapshot.
type ProcessView struct {
	ProcessRecord
	CPU  float64
	PMem float64
}
