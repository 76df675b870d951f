package proc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

var (
	ErrInvalidPID       = errors.New("invalid PID")
	ErrNoSuchProcess    = errors.New("no such process")
	ErrPermissionDenied = errors.New("permission denied")
)

// KillError reports why a signal could not be delivered. Reason is one of
// the Err* sentinels above, or the raw errno for anything else.
type KillError struct {
	Pid    int
	Signal unix.Signal
	Reason error
}

func (e *KillError) Error() string {
	return fmt.Sprintf("failed to send %s to PID %d: %v", unix.SignalName(e.Signal), e.Pid, e.Reason)
}

func (e *KillError) Unwrap() error { return e.Reason }

// ParsePID validates operator input for the kill prompt.
func ParsePID(s string) (int, error) {
	s = strings.TrimSpace(s)
	if !IsNumeric(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPID, s)
	}
	pid, err := strconv.ParseInt(s, 10, 32)
	if err != nil || !validPID(int(pid)) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPID, s)
	}
	return int(pid), nil
}

// validPID reports whether pid survives the conversion to the kernel's
// 32-bit pid_t as a single positive process id.
func validPID(pid int) bool {
	return pid > 0 && pid <= math.MaxInt32
}

// IsNumeric reports whether s is a non-empty run of ASCII digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

var sendSignal = unix.Kill

// KillProcess sends sig to pid.
func KillProcess(pid int, sig unix.Signal) error {
	if !validPID(pid) {
		return &KillError{Pid: pid, Signal: sig, Reason: ErrInvalidPID}
	}
	if err := sendSignal(pid, sig); err != nil {
		return &KillError{Pid: pid, Signal: sig, Reason: classifyErrno(err)}
	}
	return nil
}

// RequestKill sends SIGTERM, the same graceful request top(1) makes.
func RequestKill(pid int) error {
	return KillProcess(pid, unix.SIGTERM)
}

func classifyErrno(err error) error {
	switch {
	case errors.Is(err, unix.ESRCH):
		return ErrNoSuchProcess
	case errors.Is(err, unix.EPERM):
		return ErrPermissionDenied
	case errors.Is(err, unix.EINVAL):
		return ErrInvalidPID
	}
	return err
}
