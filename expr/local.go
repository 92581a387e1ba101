package expr

type localCell struct {
	refs int
	kind Kind[Local]
}

// Local is the reference-counted realization for single-goroutine use. Clone
// adds an owner; the node is writable only while exactly one owner remains.
type Local struct {
	cell *localCell
}

var _ SharedExpression[Local] = Local{}

func (Local) FromKind(k Kind[Local]) Local {
	return Local{cell: &localCell{refs: 1, kind: k}}
}

func (l Local) Kind() *Kind[Local] {
	return &l.cell.kind
}

func (l Local) Owners() int {
	if l.cell == nil {
		return 0
	}
	return l.cell.refs
}

func (l Local) TryKindMut() (*Kind[Local], bool) {
	if l.Owners() != 1 {
		return nil, false
	}
	return &l.cell.kind, true
}

func (l Local) TryTakeKind() (Kind[Local], bool) {
	if l.Owners() != 1 {
		return Kind[Local]{}, false
	}
	k := l.cell.kind
	l.cell.kind = Kind[Local]{}
	return k, true
}

func (l Local) TryIntoKind() (Kind[Local], bool) {
	k, ok := l.TryTakeKind()
	if ok {
		l.cell.refs = 0
	}
	return k, ok
}

func (l Local) Clone() Local {
	l.cell.refs++
	return l
}

func (l Local) Release() {
	if l.Owners() == 0 {
		return
	}
	l.cell.refs--
	if l.cell.refs > 0 {
		return
	}
	k := l.cell.kind
	l.cell.kind = Kind[Local]{}
	DropKind(k)
}

func (l Local) String() string {
	if l.cell == nil {
		return "<nil>"
	}
	return describe(l)
}
