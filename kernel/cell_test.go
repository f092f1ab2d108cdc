package kernel

import "testing"

func TestTakeCellMoveSemantics(t *testing.T) {
	var c TakeCell[[]byte]
	if _, ok := c.Take(); ok {
		t.Fatal("empty cell yielded a value")
	}

	buf := make([]byte, 4)
	c.Replace(buf)
	if !c.Present() {
		t.Fatal("cell empty after Replace")
	}

	got, ok := c.Take()
	if !ok || len(got) != 4 {
		t.Fatalf("take: ok=%v len=%d", ok, len(got))
	}
	if c.Present() {
		t.Fatal("value still present after Take")
	}
	if _, ok := c.Take(); ok {
		t.Fatal("double take yielded a value")
	}
}

func TestOptionalCell(t *testing.T) {
	var c OptionalCell[ProcessID]
	if _, ok := c.Get(); ok {
		t.Fatal("empty cell reported a value")
	}

	c.Set(3)
	if id, ok := c.Get(); !ok || id != 3 {
		t.Fatalf("get: ok=%v id=%d", ok, id)
	}
	// Get observes without consuming.
	if !c.Present() {
		t.Fatal("Get consumed the value")
	}

	if id, ok := c.Take(); !ok || id != 3 {
		t.Fatalf("take: ok=%v id=%d", ok, id)
	}
	if c.Present() {
		t.Fatal("value still present after Take")
	}

	c.Set(1)
	c.Clear()
	if c.Present() {
		t.Fatal("value still present after Clear")
	}
}
