package kernel

// Grant holds per-process driver state. State is allocated lazily on first
// entry, is scoped to the owning process, and is reclaimed when the process
// is torn down. Storage cost is therefore proportional to the number of
// attached processes.
type Grant[T any] struct {
	table   *ProcessTable
	states  map[ProcessID]*T
	order   []ProcessID
	entered map[ProcessID]bool
}

// NewGrant creates a grant region bound to the process table. Teardown of a
// process reclaims its state in this region.
func NewGrant[T any](pt *ProcessTable) *Grant[T] {
	g := &Grant[T]{
		table:   pt,
		states:  make(map[ProcessID]*T),
		entered: make(map[ProcessID]bool),
	}
	pt.onTeardown(func(id ProcessID) {
		delete(g.states, id)
		delete(g.entered, id)
	})
	return g
}

// Enter runs f with the process's state, allocating it zeroed on first use.
// It fails with ErrNoDevice for a dead or unknown process. Nested entry of
// the same process's state is a driver logic error and fails with ErrReserve
// rather than aliasing the state.
func (g *Grant[T]) Enter(id ProcessID, f func(*T)) ReturnCode {
	if !g.table.Live(id) {
		return ErrNoDevice
	}
	if g.entered[id] {
		return ErrReserve
	}
	st, ok := g.states[id]
	if !ok {
		st = new(T)
		g.states[id] = st
		g.order = append(g.order, id)
	}
	g.entered[id] = true
	f(st)
	delete(g.entered, id)
	return Success
}

// Each calls f for every live process with allocated state, in the order the
// states were first allocated, until f returns false. States currently
// entered via Enter are skipped.
func (g *Grant[T]) Each(f func(ProcessID, *T) bool) {
	for _, id := range g.order {
		if !g.table.Live(id) || g.entered[id] {
			continue
		}
		st, ok := g.states[id]
		if !ok {
			continue
		}
		g.entered[id] = true
		more := f(id, st)
		delete(g.entered, id)
		if !more {
			return
		}
	}
}
