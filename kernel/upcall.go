package kernel

// Upcall is a process-registered completion notifier. Drivers invoke it
// exactly once per accepted logical request with (status or count, count, 0)
// arguments; the meaning of the first two arguments is driver-defined.
type Upcall func(arg0, arg1, arg2 int)

// Schedule invokes the upcall, tolerating an unregistered (nil) notifier.
func (u Upcall) Schedule(arg0, arg1, arg2 int) {
	if u != nil {
		u(arg0, arg1, arg2)
	}
}
