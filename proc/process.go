package proc

import (
	"os/user"
	"strconv"
	"strings"
	"sync"

	"sysmon/model"
)

// ListPIDs returns the identifiers currently visible under /proc. It never
// fails; an unreadable /proc yields an empty list.
func (s *Source) ListPIDs() []int {
	procs, err := s.fs.AllProcs()
	if err != nil {
		return nil
	}
	pids := make([]int, 0, len(procs))
	for _, p := range procs {
		pids = append(pids, p.PID)
	}
	return pids
}

// ReadProcess reads stat, status and cmdline for pid. It reports false when
// the process is gone or its stat file cannot be read; the other files are
// best effort.
func (s *Source) ReadProcess(pid int) (model.ProcessRecord, bool) {
	p, err := s.fs.Proc(pid)
	if err != nil {
		return model.ProcessRecord{}, false
	}
	stat, err := p.Stat()
	if err != nil {
		return model.ProcessRecord{}, false
	}

	rec := model.ProcessRecord{
		Pid:       pid,
		Comm:      stat.Comm,
		State:     stat.State,
		UTime:     uint64(stat.UTime),
		STime:     uint64(stat.STime),
		StartTime: stat.Starttime,
	}
	if stat.RSS > 0 {
		rec.RSSKB = uint64(stat.RSS) * s.pageKB
	}

	if status, err := p.NewStatus(); err == nil {
		rec.Uid = uint32(status.UIDs[0])
	}
	rec.User = s.users.Lookup(rec.Uid)

	var argv []string
	if args, err := p.CmdLine(); err == nil {
		argv = args
	}
	rec.Cmd = commandLine(argv, rec.Comm)

	return rec, true
}

// commandLine joins argv with spaces, which is what turning the NUL
// separators into blanks amounts to. Kernel threads have no argv and fall
// back to comm.
func commandLine(argv []string, comm string) string {
	cmd := strings.TrimSpace(strings.Join(argv, " "))
	if cmd == "" {
		return comm
	}
	return cmd
}

// UserResolver maps numeric uids to login names and caches the answer.
type UserResolver struct {
	mu     sync.Mutex
	cache  map[uint32]string
	lookup func(uid string) (string, error)
}

// NewUserResolver uses lookup, or os/user when lookup is nil.
func NewUserResolver(lookup func(uid string) (string, error)) *UserResolver {
	if lookup == nil {
		lookup = func(uid string) (string, error) {
			u, err := user.LookupId(uid)
			if err != nil {
				return "", err
			}
			return u.Username, nil
		}
	}
	return &UserResolver{cache: make(map[uint32]string), lookup: lookup}
}

// Lookup falls back to the decimal uid when the name cannot be resolved.
func (r *UserResolver) Lookup(uid uint32) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name, ok := r.cache[uid]; ok {
		return name
	}
	id := strconv.FormatUint(uint64(uid), 10)
	name, err := r.lookup(id)
	if err != nil || name == "" {
		name = id
	}
	r.cache[uid] = name
	return name
}
