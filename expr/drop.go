package expr

// DropKind tears down the children of a node that has already been detached
// from its handle. Children whose node can be extracted are pushed on a local
// stack; the rest only lose one owner. Nothing recurses, however deep the tree.
func DropKind[E Expression[E]](k Kind[E]) {
	work := []Kind[E]{k}
	for len(work) > 0 {
		k := work[len(work)-1]
		work = work[:len(work)-1]
		switch k.Tag {
		case TagApp:
			work = dropChild(work, k.Fun)
			work = dropChild(work, k.Arg)
		case TagLam:
			work = dropChild(work, k.Body)
		}
	}
}

func dropChild[E Expression[E]](work []Kind[E], child E) []Kind[E] {
	if ck, ok := child.TryIntoKind(); ok {
		return append(work, ck)
	}
	child.Release()
	return work
}

// DropInPlace empties e, leaving the placeholder node behind, and tears the
// extracted tree down iteratively. It reports false when e is shared and was
// left untouched.
func DropInPlace[E Expression[E]](e E) bool {
	k, ok := e.TryTakeKind()
	if !ok {
		return false
	}
	DropKind(k)
	return true
}
