package proc

import (
	"time"

	"sysmon/model"
)

// Host returns load averages and uptime. Values that cannot be read are zero.
func (s *Source) Host() model.HostInfo {
	var h model.HostInfo

	if la, err := s.fs.LoadAvg(); err == nil && la != nil {
		h.Load1, h.Load5, h.Load15 = la.Load1, la.Load5, la.Load15
	}
	if st, err := s.fs.Stat(); err == nil && st.BootTime > 0 {
		boot := time.Unix(int64(st.BootTime), 0)
		if up := time.Since(boot); up > 0 {
			h.Uptime = up.Truncate(time.Second)
		}
	}
	return h
}
