package coge

// Shared is a reference-counted handle to a resource that several owners use
// at once, such as an image referenced by many animas or a map shared by
// scenes. The creator holds the first reference. When the last reference is
// released the release hook runs exactly once.
type Shared[T any] struct {
	name    string
	value   T
	refs    int
	release func(T)
}

// NewShared wraps v with one reference held by the caller. release may be nil.
func NewShared[T any](name string, v T, release func(T)) *Shared[T] {
	return &Shared[T]{name: name, value: v, refs: 1, release: release}
}

// Name returns the registry name of the resource.
func (s *Shared[T]) Name() string { return s.name }

// Value returns the wrapped resource. It stays valid until the last Release.
func (s *Shared[T]) Value() T { return s.value }

// Refs returns the number of live references.
func (s *Shared[T]) Refs() int { return s.refs }

// Alive reports whether any reference is still held.
func (s *Shared[T]) Alive() bool { return s.refs > 0 }

// Acquire adds a reference and returns s for chaining. Acquiring a released
// handle is refused and returns nil.
func (s *Shared[T]) Acquire() *Shared[T] {
	if s == nil {
		return nil
	}
	if s.refs <= 0 {
		logger.Warn("acquire on released resource", "name", s.name)
		return nil
	}
	s.refs++
	return s
}

// Release drops a reference. It reports true when this call released the last
// reference. Releasing an already released handle logs and does nothing.
func (s *Shared[T]) Release() bool {
	if s == nil {
		return false
	}
	if s.refs <= 0 {
		logger.Warn("double release", "name", s.name)
		return false
	}
	s.refs--
	if s.refs > 0 {
		return false
	}
	if s.release != nil {
		s.release(s.value)
	}
	var zero T
	s.value = zero
	return true
}
