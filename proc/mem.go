package proc

// MemTotalKB returns MemTotal from /proc/meminfo, or 0 if unknown.
func (s *Source) MemTotalKB() uint64 {
	mi, err := s.fs.Meminfo()
	if err != nil || mi.MemTotal == nil {
		return 0
	}
	return *mi.MemTotal
}

// MemAvailableKB returns MemAvailable, or 0 on kernels that lack it.
func (s *Source) MemAvailableKB() uint64 {
	mi, err := s.fs.Meminfo()
	if err != nil || mi.MemAvailable == nil {
		return 0
	}
	return *mi.MemAvailable
}

func (s *Source) MemFreeKB() uint64 {
	mi, err := s.fs.Meminfo()
	if err != nil || mi.MemFree == nil {
		return 0
	}
	return *mi.MemFree
}
