// Package container provides the foundational growable containers the
// lexer is built on: an ordered sequence of opaque element handles, an
// append-only byte buffer, and a scope-chained string map.
package container

// seqFloor is the smallest capacity a non-empty Sequence ever allocates.
const seqFloor = 8

// Sequence is a growable, ordered container of opaque element handles. It
// backs both the lexer's stream stack and its token buffer stack. Growth
// (Push, Append) rounds capacity up to a power of two no smaller than
// seqFloor, so a Push past capacity doubles it; Copy and Reverse allocate
// exactly their length. There is no shrinking and no removal from the
// middle.
type Sequence struct {
	items []any
}

// NewSequence returns an empty sequence.
func NewSequence() *Sequence {
	return &Sequence{}
}

// NewSequenceWith returns a sequence containing a single element.
func NewSequenceWith(x any) *Sequence {
	s := &Sequence{}
	s.Push(x)
	return s
}

func roundPow2(n int) int {
	if n <= 0 {
		return 0
	}
	r := 1
	for r < n {
		r *= 2
	}
	return r
}

func (s *Sequence) grow(extra int) {
	need := len(s.items) + extra
	if need <= cap(s.items) {
		return
	}
	nc := roundPow2(need)
	if nc < seqFloor {
		nc = seqFloor
	}
	ns := make([]any, len(s.items), nc)
	copy(ns, s.items)
	s.items = ns
}

// Push appends an element to the end of the sequence.
func (s *Sequence) Push(x any) {
	s.grow(1)
	s.items = append(s.items, x)
}

// Pop removes and returns the last element. It panics if the sequence is
// empty; callers must check Len first.
func (s *Sequence) Pop() any {
	n := len(s.items)
	if n == 0 {
		panic("container: pop from empty sequence")
	}
	x := s.items[n-1]
	s.items = s.items[:n-1]
	return x
}

// Get returns the element at index i, bounds-checked.
func (s *Sequence) Get(i int) any {
	if i < 0 || i >= len(s.items) {
		panic("container: sequence index out of range")
	}
	return s.items[i]
}

// Set replaces the element at index i, bounds-checked.
func (s *Sequence) Set(i int, x any) {
	if i < 0 || i >= len(s.items) {
		panic("container: sequence index out of range")
	}
	s.items[i] = x
}

// Head returns the first element. Panics if empty.
func (s *Sequence) Head() any {
	return s.Get(0)
}

// Tail returns the last element. Panics if empty.
func (s *Sequence) Tail() any {
	return s.Get(len(s.items) - 1)
}

// Len returns the number of elements currently stored.
func (s *Sequence) Len() int {
	return len(s.items)
}

// Append copies every element of other onto the end of s.
func (s *Sequence) Append(other *Sequence) {
	s.grow(len(other.items))
	s.items = append(s.items, other.items...)
}

// Copy returns a new sequence with the same elements, independently
// growable from the original.
func (s *Sequence) Copy() *Sequence {
	ns := make([]any, len(s.items))
	copy(ns, s.items)
	return &Sequence{items: ns}
}

// Reverse returns a new sequence with elements in reverse order; s itself
// is left unmodified.
func (s *Sequence) Reverse() *Sequence {
	n := len(s.items)
	ns := make([]any, n)
	for i, v := range s.items {
		ns[n-1-i] = v
	}
	return &Sequence{items: ns}
}
