package linuxsched

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// CPUMask is a mask of cores passed to the Linux scheduler.
type CPUMask struct {
	set unix.CPUSet
}

// Test returns true if the core is set in the mask.
func (m *CPUMask) Test(core uint) bool {
	return m.set.IsSet(int(core))
}

// Set sets a core in the mask.
func (m *CPUMask) Set(core uint) {
	m.set.Set(int(core))
}

// Clear clears a core in the mask.
func (m *CPUMask) Clear(core uint) {
	m.set.Clear(int(core))
}

// OnesCount returns the number of one bits.
func (m *CPUMask) OnesCount() int {
	return m.set.Count()
}

// GetNCores returns the maximum number of cores on this machine.
func GetNCores() uint {
	return uint(runtime.NumCPU())
}

// SchedGetAffinity returns the mask of cores pid can run on.
func SchedGetAffinity(pid int) (*CPUMask, error) {
	m := &CPUMask{}
	if err := unix.SchedGetaffinity(pid, &m.set); err != nil {
		return nil, err
	}
	return m, nil
}

// SchedSetAffinity pins pid to a mask of cores.
func SchedSetAffinity(pid int, m *CPUMask) error {
	return unix.SchedSetaffinity(pid, &m.set)
}
