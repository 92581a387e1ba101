package expr

// Boxed is the exclusive realization: every handle owns its node outright, so
// mutation and extraction always succeed and Clone copies the whole tree.
type Boxed struct {
	node *Kind[Boxed]
}

var _ Expression[Boxed] = Boxed{}

func (Boxed) FromKind(k Kind[Boxed]) Boxed {
	return Boxed{node: &k}
}

func (b Boxed) Kind() *Kind[Boxed] {
	return b.node
}

func (b Boxed) TryKindMut() (*Kind[Boxed], bool) {
	return b.node, b.node != nil
}

func (b Boxed) TryTakeKind() (Kind[Boxed], bool) {
	if b.node == nil {
		return Kind[Boxed]{}, false
	}
	k := *b.node
	*b.node = Kind[Boxed]{}
	return k, true
}

func (b Boxed) TryIntoKind() (Kind[Boxed], bool) {
	return b.TryTakeKind()
}

func (b Boxed) Clone() Boxed {
	return DeepClone(b)
}

func (b Boxed) Release() {
	DropInPlace(b)
}

func (b Boxed) String() string {
	if b.node == nil {
		return "<nil>"
	}
	return describe(b)
}
