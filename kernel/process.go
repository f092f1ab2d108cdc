package kernel

const maxProcesses = 32

// ProcessID identifies an attached process.
type ProcessID uint8

type processState struct {
	name string
	live bool
}

// ProcessTable tracks attached processes in attachment order. Attachment
// order is stable for the lifetime of the table and is the order used by
// drivers that arbitrate among waiting processes.
type ProcessTable struct {
	procs [maxProcesses]processState
	count ProcessID

	reclaim []func(ProcessID)
}

// NewProcessTable creates an empty process table.
func NewProcessTable() *ProcessTable {
	return &ProcessTable{}
}

// Attach registers a process and returns its ID. It reports false when the
// table is full.
func (pt *ProcessTable) Attach(name string) (ProcessID, bool) {
	if pt.count >= maxProcesses {
		return 0, false
	}
	id := pt.count
	pt.count++
	pt.procs[id] = processState{name: name, live: true}
	return id, true
}

// Teardown marks a process dead and reclaims all grant state bound to it.
// IDs are not reused; a torn-down slot stays dead.
func (pt *ProcessTable) Teardown(id ProcessID) {
	if id >= pt.count || !pt.procs[id].live {
		return
	}
	pt.procs[id].live = false
	for _, f := range pt.reclaim {
		f(id)
	}
}

// Live reports whether the process is attached and not torn down.
func (pt *ProcessTable) Live(id ProcessID) bool {
	return id < pt.count && pt.procs[id].live
}

// Name returns the process name, or "" for an unknown ID.
func (pt *ProcessTable) Name(id ProcessID) string {
	if id >= pt.count {
		return ""
	}
	return pt.procs[id].name
}

// Each calls f for every live process in attachment order until f returns
// false.
func (pt *ProcessTable) Each(f func(ProcessID) bool) {
	for id := ProcessID(0); id < pt.count; id++ {
		if !pt.procs[id].live {
			continue
		}
		if !f(id) {
			return
		}
	}
}

// onTeardown registers a reclaim hook invoked when a process is torn down.
func (pt *ProcessTable) onTeardown(f func(ProcessID)) {
	pt.reclaim = append(pt.reclaim, f)
}
