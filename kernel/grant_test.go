package kernel

import "testing"

type counter struct {
	n int
}

func TestGrantAllocatesLazily(t *testing.T) {
	pt := NewProcessTable()
	g := NewGrant[counter](pt)
	a, _ := pt.Attach("a")

	if len(g.states) != 0 {
		t.Fatal("state allocated before first entry")
	}
	if rc := g.Enter(a, func(c *counter) { c.n++ }); rc != Success {
		t.Fatalf("enter: %s", rc)
	}
	if rc := g.Enter(a, func(c *counter) {
		if c.n != 1 {
			t.Fatalf("state not retained, n=%d", c.n)
		}
	}); rc != Success {
		t.Fatalf("re-enter: %s", rc)
	}
}

func TestGrantUnknownOrDeadProcess(t *testing.T) {
	pt := NewProcessTable()
	g := NewGrant[counter](pt)

	if rc := g.Enter(7, func(*counter) {}); rc != ErrNoDevice {
		t.Fatalf("expected ErrNoDevice for unknown process, got %s", rc)
	}

	a, _ := pt.Attach("a")
	g.Enter(a, func(c *counter) { c.n = 5 })
	pt.Teardown(a)

	if rc := g.Enter(a, func(*counter) {}); rc != ErrNoDevice {
		t.Fatalf("expected ErrNoDevice after teardown, got %s", rc)
	}
	if len(g.states) != 0 {
		t.Fatal("teardown did not reclaim grant state")
	}
}

func TestGrantNestedEntryIsReserveFault(t *testing.T) {
	pt := NewProcessTable()
	g := NewGrant[counter](pt)
	a, _ := pt.Attach("a")

	var inner ReturnCode
	g.Enter(a, func(*counter) {
		inner = g.Enter(a, func(*counter) {
			t.Fatal("nested entry must not run")
		})
	})
	if inner != ErrReserve {
		t.Fatalf("expected ErrReserve for nested entry, got %s", inner)
	}

	// The guard resets once the outer entry returns.
	if rc := g.Enter(a, func(*counter) {}); rc != Success {
		t.Fatalf("enter after nested fault: %s", rc)
	}
}

func TestGrantEachAllocationOrder(t *testing.T) {
	pt := NewProcessTable()
	g := NewGrant[counter](pt)
	a, _ := pt.Attach("a")
	b, _ := pt.Attach("b")
	c, _ := pt.Attach("c")

	// First interaction order differs from attachment order.
	g.Enter(b, func(*counter) {})
	g.Enter(a, func(*counter) {})
	g.Enter(c, func(*counter) {})

	var order []ProcessID
	g.Each(func(id ProcessID, _ *counter) bool {
		order = append(order, id)
		return true
	})
	want := []ProcessID{b, a, c}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestGrantEachSkipsDeadAndStops(t *testing.T) {
	pt := NewProcessTable()
	g := NewGrant[counter](pt)
	a, _ := pt.Attach("a")
	b, _ := pt.Attach("b")
	c, _ := pt.Attach("c")
	for _, id := range []ProcessID{a, b, c} {
		g.Enter(id, func(*counter) {})
	}
	pt.Teardown(b)

	var seen []ProcessID
	g.Each(func(id ProcessID, _ *counter) bool {
		seen = append(seen, id)
		return false // stop after the first live state
	})
	if len(seen) != 1 || seen[0] != a {
		t.Fatalf("expected [a], got %v", seen)
	}
}

func TestProcessTableOrderAndNames(t *testing.T) {
	pt := NewProcessTable()
	a, ok := pt.Attach("alpha")
	if !ok {
		t.Fatal("attach failed")
	}
	b, _ := pt.Attach("beta")

	if pt.Name(a) != "alpha" || pt.Name(b) != "beta" {
		t.Fatal("names not retained")
	}

	var order []ProcessID
	pt.Each(func(id ProcessID) bool {
		order = append(order, id)
		return true
	})
	if len(order) != 2 || order[0] != a || order[1] != b {
		t.Fatalf("expected [%d %d], got %v", a, b, order)
	}

	pt.Teardown(a)
	if pt.Live(a) {
		t.Fatal("torn-down process still live")
	}
	if !pt.Live(b) {
		t.Fatal("unrelated process affected by teardown")
	}
}
