package lambda

import (
	"github.com/ahrtr/gocontainer/set"
	"github.com/edwingeng/deque"

	"github.com/rfielding/lambda-beta/expr"
)

type freeVisit[E any] struct {
	node   E
	unbind bool
	symbol expr.Symbol
}

// FreeSymbols lists the variables occurring free in e, left to right, once per
// occurrence.
func FreeSymbols[E expr.Expression[E]](e E) []expr.Symbol {
	var out []expr.Symbol
	bound := make(map[expr.Symbol]int)
	work := deque.NewDeque()
	work.PushBack(freeVisit[E]{node: e})
	for !work.Empty() {
		v := work.Back().(freeVisit[E])
		work.PopBack()
		if v.unbind {
			bound[v.symbol]--
			continue
		}
		k := v.node.Kind()
		switch k.Tag {
		case expr.TagVar:
			if bound[k.Symbol] == 0 {
				out = append(out, k.Symbol)
			}
		case expr.TagApp:
			work.PushBack(freeVisit[E]{node: k.Arg})
			work.PushBack(freeVisit[E]{node: k.Fun})
		case expr.TagLam:
			bound[k.Symbol]++
			work.PushBack(freeVisit[E]{unbind: true, symbol: k.Symbol})
			work.PushBack(freeVisit[E]{node: k.Body})
		}
	}
	return out
}

// FreeSet returns the free variables of e as a set of expr.Symbol.
func FreeSet[E expr.Expression[E]](e E) set.Interface {
	s := set.New()
	for _, name := range FreeSymbols(e) {
		s.Add(name)
	}
	return s
}

// IsClosed reports whether e has no free variables.
func IsClosed[E expr.Expression[E]](e E) bool {
	return len(FreeSymbols(e)) == 0
}
