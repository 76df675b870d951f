package monitor

import (
	"math"
	"sort"

	"sysmon/model"
)

// tickDeltas returns how far the total and idle tick counts advanced. A
// counter that went backwards counts as no progress.
func tickDeltas(prev, cur model.SystemCounters) (total, idle uint64) {
	if cur.Total() > prev.Total() {
		total = cur.Total() - prev.Total()
	}
	if cur.IdleAll() > prev.IdleAll() {
		idle = cur.IdleAll() - prev.IdleAll()
	}
	return total, idle
}

// SystemCPUPercent is the busy share of the ticks elapsed between prev and
// cur. It is 0 when no ticks elapsed.
func SystemCPUPercent(prev, cur model.SystemCounters) float64 {
	total, idle := tickDeltas(prev, cur)
	if total == 0 {
		return 0
	}
	return clampPercent(100 * (float64(total) - float64(idle)) / float64(total))
}

// ProcessCPUPercent is the share of totalDiff system ticks that the process
// spent on a CPU. Like top, the denominator is the system-wide delta, so the
// values of all processes add up to roughly the system figure.
func ProcessCPUPercent(prev, cur model.ProcessRecord, totalDiff uint64) float64 {
	if totalDiff == 0 || cur.TotalTime() <= prev.TotalTime() {
		return 0
	}
	diff := cur.TotalTime() - prev.TotalTime()
	return clampPercent(100 * float64(diff) / float64(totalDiff))
}

// MemPercent is rss relative to total memory, 0 when the total is unknown.
func MemPercent(rssKB, memTotalKB uint64) float64 {
	if memTotalKB == 0 {
		return 0
	}
	return clampPercent(100 * float64(rssKB) / float64(memTotalKB))
}

// sameProcess guards against PID reuse: a PID whose start time changed
// between snapshots belongs to a different process. A zero start time is
// treated as unknown.
func sameProcess(prev, cur model.ProcessRecord) bool {
	if prev.StartTime == 0 || cur.StartTime == 0 {
		return true
	}
	return prev.StartTime == cur.StartTime
}

// Derive computes the system CPU percentage and one view per process in
// cur, ordered by PID. Processes first seen in cur, including reused PIDs,
// get 0% CPU; processes only in prev are dropped. A nil prev yields 0% CPU
// everywhere. Derive never fails.
func Derive(prev *model.Snapshot, cur model.Snapshot, memTotalKB uint64) (float64, []model.ProcessView) {
	var (
		sysPct    float64
		totalDiff uint64
	)
	if prev != nil {
		sysPct = SystemCPUPercent(prev.System, cur.System)
		totalDiff, _ = tickDeltas(prev.System, cur.System)
	}

	views := make([]model.ProcessView, 0, len(cur.Procs))
	for pid, rec := range cur.Procs {
		v := model.ProcessView{ProcessRecord: rec}
		if prev != nil {
			if old, ok := prev.Procs[pid]; ok && sameProcess(old, rec) {
				v.CPU = ProcessCPUPercent(old, rec, totalDiff)
			}
		}
		v.PMem = MemPercent(rec.RSSKB, memTotalKB)
		views = append(views, v)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Pid < views[j].Pid })

	return sysPct, views
}

func clampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
