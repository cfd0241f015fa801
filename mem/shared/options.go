package shared

// hooks carries the payload lifecycle callbacks shared by every handle to a
// block.
type hooks[T any] struct {
	clone func(T) T  // nil: plain value copy
	drop  func(*T)   // nil: no destructor
}

// Option configures payload lifecycle behavior at construction.
type Option[T any] func(*hooks[T])

// WithClone sets the deep-copy function used when copy-on-write mutation must
// duplicate the payload. Without it the payload is copied by plain
// assignment.
func WithClone[T any](fn func(T) T) Option[T] {
	return func(h *hooks[T]) { h.clone = fn }
}

// WithDrop sets a destructor invoked exactly once, by whichever handle
// observes the last strong Drop. TryUnwrap skips it: ownership of the value
// moves to the caller instead.
func WithDrop[T any](fn func(*T)) Option[T] {
	return func(h *hooks[T]) { h.drop = fn }
}
