package expr

type pair[E any] struct {
	a, b E
}

// Equal reports whether a and b have the same shape and the same symbols at
// every position. Bound parameters are compared by name, so λx.x and λy.y are
// not equal; see lambda.AlphaEquivalent for that.
func Equal[E Expression[E]](a, b E) bool {
	return Compare(a, b) == 0
}

// Compare orders terms totally. Variables sort before applications, which sort
// before abstractions. Nodes of the same kind compare by symbol first, then by
// children left to right.
func Compare[E Expression[E]](a, b E) int {
	work := []pair[E]{{a, b}}
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]
		ka, kb := p.a.Kind(), p.b.Kind()
		if ka == kb {
			continue
		}
		if ka.Tag != kb.Tag {
			if ka.Tag < kb.Tag {
				return -1
			}
			return 1
		}
		switch ka.Tag {
		case TagVar:
			if c := ka.Symbol.Compare(kb.Symbol); c != 0 {
				return c
			}
		case TagApp:
			work = append(work, pair[E]{ka.Arg, kb.Arg}, pair[E]{ka.Fun, kb.Fun})
		case TagLam:
			if c := ka.Symbol.Compare(kb.Symbol); c != 0 {
				return c
			}
			work = append(work, pair[E]{ka.Body, kb.Body})
		}
	}
	return 0
}
