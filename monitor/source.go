// Package monitor turns raw counters into ranked process views. A Builder
// captures immutable snapshots, Derive computes utilization between two of
// them, and Engine drives the tick loop while threading the previous
// snapshot from one tick to the next.
package monitor

import "sysmon/model"

//go:generate mockgen -destination=mock_source_test.go -package=monitor sysmon/monitor CounterSource

// CounterSource is the raw data provider. Implementations never fail:
// unreadable values come back as zero and vanished processes as ok=false.
type CounterSource interface {
	SystemCounters() model.SystemCounters
	MemTotalKB() uint64
	MemAvailableKB() uint64
	MemFreeKB() uint64
	ListPIDs() []int
	ReadProcess(pid int) (model.ProcessRecord, bool)
	Host() model.HostInfo
}
