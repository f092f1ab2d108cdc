package kernel

// TakeCell is a move-only ownership cell: the value is either present in the
// cell or held by exactly one borrower. Take moves the value out; Replace
// moves it back in. "Use a buffer you don't own" is unrepresentable because
// there is no way to observe the value without taking it.
type TakeCell[T any] struct {
	v       T
	present bool
}

// Replace moves a value into the cell, dropping any previous occupant.
func (c *TakeCell[T]) Replace(v T) {
	c.v = v
	c.present = true
}

// Take moves the value out of the cell. It reports false when the cell is
// empty, in which case the returned value is the zero value.
func (c *TakeCell[T]) Take() (T, bool) {
	if !c.present {
		var zero T
		return zero, false
	}
	v := c.v
	var zero T
	c.v = zero
	c.present = false
	return v, true
}

// Present reports whether the cell currently holds a value.
func (c *TakeCell[T]) Present() bool { return c.present }

// OptionalCell holds a value that may be absent. Unlike TakeCell, Get
// observes without moving; it models "who owns the slot right now" rather
// than the slot itself.
type OptionalCell[T any] struct {
	v       T
	present bool
}

// Set stores a value.
func (c *OptionalCell[T]) Set(v T) {
	c.v = v
	c.present = true
}

// Get returns the stored value, if any.
func (c *OptionalCell[T]) Get() (T, bool) {
	return c.v, c.present
}

// Take returns the stored value and clears the cell.
func (c *OptionalCell[T]) Take() (T, bool) {
	v, ok := c.v, c.present
	var zero T
	c.v = zero
	c.present = false
	return v, ok
}

// Clear empties the cell.
func (c *OptionalCell[T]) Clear() {
	var zero T
	c.v = zero
	c.present = false
}

// Present reports whether the cell currently holds a value.
func (c *OptionalCell[T]) Present() bool { return c.present }
