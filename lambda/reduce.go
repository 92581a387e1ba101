package lambda

import (
	"github.com/edwingeng/deque"

	"github.com/rfielding/lambda-beta/expr"
)

type slot uint8

const (
	slotRoot slot = iota
	slotFun
	slotArg
	slotBody
)

type searchFrame[E any] struct {
	node   E
	parent int
	via    slot
}

// findRedex walks term in normal order (node, then function, then argument,
// descending under binders) and returns the path of child slots from the root
// to the leftmost-outermost redex. It never writes to the term.
func findRedex[E expr.Expression[E]](term E) ([]slot, bool) {
	frames := []searchFrame[E]{{node: term, parent: -1, via: slotRoot}}
	work := deque.NewDeque()
	work.PushBack(0)
	for !work.Empty() {
		i := work.Back().(int)
		work.PopBack()
		k := frames[i].node.Kind()
		switch k.Tag {
		case expr.TagApp:
			if k.Fun.Kind().IsLam() {
				return pathTo(frames, i), true
			}
			frames = append(frames,
				searchFrame[E]{node: k.Arg, parent: i, via: slotArg},
				searchFrame[E]{node: k.Fun, parent: i, via: slotFun})
			work.PushBack(len(frames) - 2)
			work.PushBack(len(frames) - 1)
		case expr.TagLam:
			frames = append(frames, searchFrame[E]{node: k.Body, parent: i, via: slotBody})
			work.PushBack(len(frames) - 1)
		}
	}
	return nil, false
}

func pathTo[E any](frames []searchFrame[E], i int) []slot {
	var path []slot
	for ; frames[i].parent >= 0; i = frames[i].parent {
		path = append(path, frames[i].via)
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

// HasRedex reports whether term is not yet in normal form.
func HasRedex[E expr.Expression[E]](term E) bool {
	_, ok := findRedex(term)
	return ok
}

// ReduceOne performs the leftmost-outermost beta reduction in *term and
// reports whether there was one. Shared nodes on the way to the redex are
// copied before they are written.
func ReduceOne[E expr.Expression[E]](term *E) bool {
	return reduceOne(term, nil)
}

func reduceOne[E expr.Expression[E]](term *E, m *Metrics) bool {
	path, ok := findRedex(*term)
	if !ok {
		return false
	}
	cur := term
	for _, s := range path {
		k := unshare(cur, m)
		switch s {
		case slotFun:
			cur = &k.Fun
		case slotArg:
			cur = &k.Arg
		case slotBody:
			cur = &k.Body
		}
	}

	app := unshare(cur, m)
	lam := unshare(&app.Fun, m)
	substitute(&lam.Body, lam.Symbol, app.Arg, m)
	unshare(&lam.Body, m)
	body, _ := lam.Body.TryTakeKind()
	old := *app
	*app = body
	expr.DropKind(old)
	m.step()
	return true
}
