package lambda

import (
	"github.com/edwingeng/deque"

	"github.com/rfielding/lambda-beta/expr"
)

// binders maps each bound name to the stack of binder ids currently in scope
// for it; the innermost binder is last.
type binders map[expr.Symbol][]int

func (b binders) push(s expr.Symbol, id int) {
	b[s] = append(b[s], id)
}

func (b binders) pop(s expr.Symbol) {
	ids := b[s]
	if len(ids) == 1 {
		delete(b, s)
		return
	}
	b[s] = ids[:len(ids)-1]
}

// get returns the id of the innermost binder of s, or -1 if s is free.
func (b binders) get(s expr.Symbol) int {
	ids := b[s]
	if len(ids) == 0 {
		return -1
	}
	return ids[len(ids)-1]
}

type alphaStep[E any] struct {
	a, b   E
	leave  bool
	sa, sb expr.Symbol
}

// AlphaEquivalent reports whether a and b are equal up to a consistent
// renaming of bound variables. Free variables must match by name.
func AlphaEquivalent[E expr.Expression[E]](a, b E) bool {
	left, right := binders{}, binders{}
	next := 0
	work := deque.NewDeque()
	work.PushBack(alphaStep[E]{a: a, b: b})
	for !work.Empty() {
		st := work.Back().(alphaStep[E])
		work.PopBack()
		if st.leave {
			left.pop(st.sa)
			right.pop(st.sb)
			continue
		}
		ka, kb := st.a.Kind(), st.b.Kind()
		if ka.Tag != kb.Tag {
			return false
		}
		switch ka.Tag {
		case expr.TagVar:
			ia, ib := left.get(ka.Symbol), right.get(kb.Symbol)
			if ia != ib {
				return false
			}
			if ia < 0 && ka.Symbol != kb.Symbol {
				return false
			}
		case expr.TagApp:
			work.PushBack(alphaStep[E]{a: ka.Arg, b: kb.Arg})
			work.PushBack(alphaStep[E]{a: ka.Fun, b: kb.Fun})
		case expr.TagLam:
			left.push(ka.Symbol, next)
			right.push(kb.Symbol, next)
			next++
			work.PushBack(alphaStep[E]{leave: true, sa: ka.Symbol, sb: kb.Symbol})
			work.PushBack(alphaStep[E]{a: ka.Body, b: kb.Body})
		}
	}
	return true
}
