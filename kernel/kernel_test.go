package kernel

import "testing"

type stubDriver struct {
	lastCmd int
	lastArg int
}

func (d *stubDriver) Allow(ProcessID, int, []byte) ReturnCode     { return Success }
func (d *stubDriver) Subscribe(ProcessID, int, Upcall) ReturnCode { return Success }
func (d *stubDriver) Command(_ ProcessID, cmd, arg int) ReturnCode {
	d.lastCmd, d.lastArg = cmd, arg
	return Success
}

func TestDriverDispatch(t *testing.T) {
	k := New()
	d := &stubDriver{}
	if !k.RegisterDriver(0, d) {
		t.Fatal("register failed")
	}
	if k.RegisterDriver(0, &stubDriver{}) {
		t.Fatal("double registration accepted")
	}
	p, _ := k.Processes().Attach("p")

	if rc := k.Command(p, 0, 1, 42); rc != Success {
		t.Fatalf("command: %s", rc)
	}
	if d.lastCmd != 1 || d.lastArg != 42 {
		t.Fatalf("command not forwarded: cmd=%d arg=%d", d.lastCmd, d.lastArg)
	}

	if rc := k.Command(p, 5, 0, 0); rc != ErrNoDevice {
		t.Fatalf("expected ErrNoDevice for unknown driver, got %s", rc)
	}
	if rc := k.Command(99, 0, 0, 0); rc != ErrNoDevice {
		t.Fatalf("expected ErrNoDevice for unknown process, got %s", rc)
	}

	k.Processes().Teardown(p)
	if rc := k.Command(p, 0, 1, 0); rc != ErrNoDevice {
		t.Fatalf("expected ErrNoDevice after teardown, got %s", rc)
	}
}

func TestEventQueueFIFO(t *testing.T) {
	k := New()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		k.Post(func() { order = append(order, i) })
	}

	if n := k.Drain(); n != 5 {
		t.Fatalf("expected 5 events drained, got %d", n)
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("events ran out of order: %v", order)
		}
	}
	if k.Step() {
		t.Fatal("step on an empty queue reported work")
	}
}

func TestReturnCodeStrings(t *testing.T) {
	codes := []ReturnCode{Success, ErrFail, ErrBusy, ErrReserve, ErrInvalid,
		ErrSize, ErrCancel, ErrNoSupport, ErrNoDevice}
	for _, rc := range codes {
		if rc.String() == "unknown" {
			t.Fatalf("missing String case for %d", int(rc))
		}
	}
	if !Success.Ok() || ErrBusy.Ok() {
		t.Fatal("Ok misreports")
	}
}
