package telemetry

import (
	"github.com/shirou/gopsutil/process"

	db "mtmatrix/debug"
)

// ProcTable looks pids up by scanning the host's process table, the
// way the accounting side walks the kernel task list. Unreaped
// children are still present, so a query racing an exit keeps working
// as long as it happens before the parent reaps.
type ProcTable struct{}

func NewProcTable() *ProcTable {
	return &ProcTable{}
}

func (pt *ProcTable) Lookup(pid int32) (Record, bool) {
	ps, err := process.Processes()
	if err != nil {
		db.DPrintf(db.ERROR, "ProcTable scan: %v", err)
		return Record{}, false
	}
	for _, p := range ps {
		if p.Pid != pid {
			continue
		}
		times, err := p.Times()
		if err != nil {
			db.DPrintf(db.ERROR, "ProcTable times pid %d: %v", pid, err)
			return Record{}, false
		}
		cs, err := p.NumCtxSwitches()
		if err != nil {
			db.DPrintf(db.ERROR, "ProcTable ctxsw pid %d: %v", pid, err)
			return Record{}, false
		}
		r := Record{
			PID:         pid,
			UserTimeMs:  int64(times.User * 1000),
			CtxSwitches: cs.Voluntary + cs.Involuntary,
		}
		db.DPrintf(db.TELEM, "Lookup %d -> %v", pid, r)
		return r, true
	}
	db.DPrintf(db.TELEM, "Lookup %d: no entry", pid)
	return Record{}, false
}
