package expr

import "sync/atomic"

type sharedCell struct {
	refs atomic.Int64
	kind Kind[Shared]
}

// Shared is the reference-counted realization that may be handed between
// goroutines. Owner counts are atomic; the node itself must still be read and
// written by one goroutine at a time, which unique ownership guarantees for
// writes.
type Shared struct {
	cell *sharedCell
}

var _ SharedExpression[Shared] = Shared{}

func (Shared) FromKind(k Kind[Shared]) Shared {
	c := &sharedCell{kind: k}
	c.refs.Store(1)
	return Shared{cell: c}
}

func (s Shared) Kind() *Kind[Shared] {
	return &s.cell.kind
}

func (s Shared) Owners() int {
	if s.cell == nil {
		return 0
	}
	return int(s.cell.refs.Load())
}

func (s Shared) TryKindMut() (*Kind[Shared], bool) {
	if s.Owners() != 1 {
		return nil, false
	}
	return &s.cell.kind, true
}

func (s Shared) TryTakeKind() (Kind[Shared], bool) {
	if s.Owners() != 1 {
		return Kind[Shared]{}, false
	}
	k := s.cell.kind
	s.cell.kind = Kind[Shared]{}
	return k, true
}

// TryIntoKind claims the last reference with a compare-and-swap so a racing
// Clone on another goroutine either happens first and makes this fail, or
// operates on a handle it did not own.
func (s Shared) TryIntoKind() (Kind[Shared], bool) {
	if s.cell == nil || !s.cell.refs.CompareAndSwap(1, 0) {
		return Kind[Shared]{}, false
	}
	k := s.cell.kind
	s.cell.kind = Kind[Shared]{}
	return k, true
}

func (s Shared) Clone() Shared {
	s.cell.refs.Add(1)
	return s
}

func (s Shared) Release() {
	if s.cell == nil {
		return
	}
	if s.cell.refs.Add(-1) != 0 {
		return
	}
	k := s.cell.kind
	s.cell.kind = Kind[Shared]{}
	DropKind(k)
}

func (s Shared) String() string {
	if s.cell == nil {
		return "<nil>"
	}
	return describe(s)
}
