package expr

import "strings"

// describe renders e fully parenthesised for debugging output, e.g.
// (λx. (x y)). The syntax package has the user-facing printer.
func describe[E Expression[E]](e E) string {
	var sb strings.Builder
	type item struct {
		text string
		node E
		leaf bool
	}
	work := []item{{node: e}}
	for len(work) > 0 {
		it := work[len(work)-1]
		work = work[:len(work)-1]
		if it.leaf {
			sb.WriteString(it.text)
			continue
		}
		k := it.node.Kind()
		switch k.Tag {
		case TagVar:
			if k.Symbol.IsEmpty() {
				sb.WriteString("_")
			} else {
				sb.WriteString(string(k.Symbol))
			}
		case TagApp:
			sb.WriteString("(")
			work = append(work,
				item{text: ")", leaf: true},
				item{node: k.Arg},
				item{text: " ", leaf: true},
				item{node: k.Fun})
		case TagLam:
			sb.WriteString("(λ")
			sb.WriteString(string(k.Symbol))
			sb.WriteString(". ")
			work = append(work, item{text: ")", leaf: true}, item{node: k.Body})
		}
	}
	return sb.String()
}
