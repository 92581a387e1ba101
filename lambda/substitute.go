package lambda

import (
	"github.com/ahrtr/gocontainer/set"
	"github.com/edwingeng/deque"

	"github.com/rfielding/lambda-beta/expr"
)

// substFrame is one pending replacement: every free target becomes a copy of
// value, or the variable rename when renaming a binder.
type substFrame[E any] struct {
	target   expr.Symbol
	value    E
	renaming bool
	rename   expr.Symbol
	free     set.Interface
}

type substOp[E any] struct {
	node *E
	pop  bool
}

// Substitute replaces every free occurrence of target inside *body with a copy
// of value. An abstraction whose parameter occurs free in value is renamed
// first, so no free variable of value is captured. value stays owned by the
// caller.
func Substitute[E expr.Expression[E]](body *E, target expr.Symbol, value E) {
	substitute(body, target, value, nil)
}

func substitute[E expr.Expression[E]](body *E, target expr.Symbol, value E, m *Metrics) {
	frames := []substFrame[E]{{target: target, value: value, free: FreeSet(value)}}
	ops := deque.NewDeque()
	ops.PushBack(substOp[E]{node: body})
	for !ops.Empty() {
		op := ops.Back().(substOp[E])
		ops.PopBack()
		if op.pop {
			frames = frames[:len(frames)-1]
			continue
		}
		f := frames[len(frames)-1]
		e := op.node
		k := (*e).Kind()
		switch k.Tag {
		case expr.TagVar:
			if k.Symbol != f.target {
				continue
			}
			(*e).Release()
			if f.renaming {
				*e = expr.Var[E](f.rename)
			} else {
				*e = f.value.Clone()
				m.substituted()
			}
		case expr.TagApp:
			k = unshare(e, m)
			ops.PushBack(substOp[E]{node: &k.Arg})
			ops.PushBack(substOp[E]{node: &k.Fun})
		case expr.TagLam:
			if k.Symbol == f.target {
				// shadowed
				continue
			}
			if !f.free.Contains(k.Symbol) {
				k = unshare(e, m)
				ops.PushBack(substOp[E]{node: &k.Body})
				continue
			}
			inner := FreeSet(k.Body)
			if !inner.Contains(f.target) {
				continue
			}
			fresh := k.Symbol.Primed()
			for f.free.Contains(fresh) || inner.Contains(fresh) {
				fresh = fresh.Primed()
			}
			k = unshare(e, m)
			old := k.Symbol
			k.Symbol = fresh
			m.renamed()

			ops.PushBack(substOp[E]{node: &k.Body})
			ops.PushBack(substOp[E]{pop: true})
			ops.PushBack(substOp[E]{node: &k.Body})
			renameSet := set.New()
			renameSet.Add(fresh)
			frames = append(frames, substFrame[E]{target: old, renaming: true, rename: fresh, free: renameSet})
		}
	}
}

// unshare makes *e writable, replacing a shared handle with a private deep
// copy when needed, and returns its node.
func unshare[E expr.Expression[E]](e *E, m *Metrics) *expr.Kind[E] {
	if k, ok := (*e).TryKindMut(); ok {
		return k
	}
	c := expr.DeepClone(*e)
	(*e).Release()
	*e = c
	m.unshared()
	k, _ := c.TryKindMut()
	return k
}
