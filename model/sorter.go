package model

import (
	"sort"
	"strings"
)

type SortMode int

const (
	SortByCPU SortMode = iota
	SortByMem
)

// Toggle flips between CPU and MEM ordering.
func (m SortMode) Toggle() SortMode {
	if m == SortByCPU {
		return SortByMem
	}
	return SortByCPU
}

func (m SortMode) String() string {
	if m == SortByMem {
		return "MEM"
	}
	return "CPU"
}

// ParseSortMode accepts "cpu" or "mem" in any case.
func ParseSortMode(s string) (SortMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cpu":
		return SortByCPU, true
	case "mem":
		return SortByMem, true
	}
	return SortByCPU, false
}

// Rank returns a sorted copy of views, highest first on the mode's metric,
// with the other metric breaking ties. Equal rows keep their input order.
// A limit <= 0 disables truncation.
func Rank(views []ProcessView, mode SortMode, limit int) []ProcessView {
	sorted := make([]ProcessView, len(views))
	copy(sorted, views)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := &sorted[i], &sorted[j]

		primA, primB, secA, secB := a.CPU, b.CPU, a.PMem, b.PMem
		if mode == SortByMem {
			primA, primB, secA, secB = a.PMem, b.PMem, a.CPU, b.CPU
		}
		if primA != primB {
			return primA > primB
		}
		return secA > secB
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
