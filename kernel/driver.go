package kernel

// Driver is the syscall-facing surface of a peripheral driver, addressed by a
// stable small-integer driver number.
//
// Allow attaches a process-owned byte range, Subscribe attaches a completion
// notifier, and Command starts an operation. All three complete synchronously;
// results of accepted asynchronous operations arrive later through the
// subscribed upcall.
type Driver interface {
	Allow(id ProcessID, num int, slice []byte) ReturnCode
	Subscribe(id ProcessID, num int, upcall Upcall) ReturnCode
	Command(id ProcessID, cmd int, arg int) ReturnCode
}
