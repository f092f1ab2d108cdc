package kernel

import "context"

const maxDrivers = 8

const eventQueueSlots = 256

// Kernel owns the process table, the driver registry, and the deferred event
// queue. Execution is single-threaded: all driver state mutation happens
// either inside a syscall entry (Command/Allow/Subscribe) or inside an event
// drained by Step, never concurrently. Hardware back ends running on their
// own goroutines hand completions to the kernel with Post; the events run in
// the order they were posted.
type Kernel struct {
	procs   *ProcessTable
	drivers [maxDrivers]Driver
	events  chan func()
}

// New creates a kernel instance.
func New() *Kernel {
	return &Kernel{
		procs:  NewProcessTable(),
		events: make(chan func(), eventQueueSlots),
	}
}

// Processes returns the process table.
func (k *Kernel) Processes() *ProcessTable { return k.procs }

// RegisterDriver installs a driver under the given driver number. It reports
// false when the number is out of range or already taken.
func (k *Kernel) RegisterDriver(num int, d Driver) bool {
	if num < 0 || num >= maxDrivers || d == nil || k.drivers[num] != nil {
		return false
	}
	k.drivers[num] = d
	return true
}

// Command dispatches a command syscall to a driver.
func (k *Kernel) Command(id ProcessID, driver, cmd, arg int) ReturnCode {
	d := k.driver(driver)
	if d == nil {
		return ErrNoDevice
	}
	if !k.procs.Live(id) {
		return ErrNoDevice
	}
	return d.Command(id, cmd, arg)
}

// Allow dispatches a buffer registration syscall to a driver.
func (k *Kernel) Allow(id ProcessID, driver, num int, slice []byte) ReturnCode {
	d := k.driver(driver)
	if d == nil {
		return ErrNoDevice
	}
	if !k.procs.Live(id) {
		return ErrNoDevice
	}
	return d.Allow(id, num, slice)
}

// Subscribe dispatches a callback registration syscall to a driver.
func (k *Kernel) Subscribe(id ProcessID, driver, num int, upcall Upcall) ReturnCode {
	d := k.driver(driver)
	if d == nil {
		return ErrNoDevice
	}
	if !k.procs.Live(id) {
		return ErrNoDevice
	}
	return d.Subscribe(id, num, upcall)
}

func (k *Kernel) driver(num int) Driver {
	if num < 0 || num >= maxDrivers {
		return nil
	}
	return k.drivers[num]
}

// Post schedules fn to run on the kernel loop. Safe to call from any
// goroutine; blocks only when the event queue is full.
func (k *Kernel) Post(fn func()) {
	if fn == nil {
		return
	}
	k.events <- fn
}

// Step runs at most one queued event and reports whether one ran.
func (k *Kernel) Step() bool {
	select {
	case fn := <-k.events:
		fn()
		return true
	default:
		return false
	}
}

// Drain runs queued events until the queue is momentarily empty and returns
// how many ran.
func (k *Kernel) Drain() int {
	n := 0
	for k.Step() {
		n++
	}
	return n
}

// Run drains events as they arrive until the context is cancelled.
func (k *Kernel) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-k.events:
			fn()
		}
	}
}
