package telemetry

import (
	"fmt"
)

// Record is one accounting answer: accumulated user-mode CPU time and
// the sum of voluntary and involuntary context switches. It lives for
// one request/response cycle only.
type Record struct {
	PID         int32
	UserTimeMs  int64
	CtxSwitches int64
}

func (r Record) Format() string {
	return fmt.Sprintf("ThreadID:%d Time:%d(ms) context switch times:%d\n", r.PID, r.UserTimeMs, r.CtxSwitches)
}

// ParseRecord inverts Format. A failed parse usually means the slot
// still holds the caller's own id text (a lookup miss).
func ParseRecord(s string) (Record, error) {
	var r Record
	n, err := fmt.Sscanf(s, "ThreadID:%d Time:%d(ms) context switch times:%d", &r.PID, &r.UserTimeMs, &r.CtxSwitches)
	if err != nil {
		return Record{}, fmt.Errorf("bad record %q: %w", s, err)
	}
	if n != 3 {
		return Record{}, fmt.Errorf("bad record %q", s)
	}
	return r, nil
}

// Table answers accounting lookups for the privileged side of the
// channel.
type Table interface {
	Lookup(pid int32) (Record, bool)
}
