package syntax

import (
	"strings"

	"github.com/rfielding/lambda-beta/expr"
)

type formatItem[E any] struct {
	node E
	text string
	leaf bool
}

// Format prints e in the surface syntax. The output parses back to a term
// equal to e.
func Format[E expr.Expression[E]](e E) string {
	return format(e, `\`)
}

// FormatUnicode is Format with λ in place of the backslash.
func FormatUnicode[E expr.Expression[E]](e E) string {
	return format(e, "λ")
}

func format[E expr.Expression[E]](e E, lam string) string {
	var sb strings.Builder
	work := []formatItem[E]{{node: e}}
	push := func(node E, open bool) {
		if open {
			work = append(work, formatItem[E]{text: ")", leaf: true}, formatItem[E]{node: node}, formatItem[E]{text: "(", leaf: true})
		} else {
			work = append(work, formatItem[E]{node: node})
		}
	}
	for len(work) > 0 {
		it := work[len(work)-1]
		work = work[:len(work)-1]
		if it.leaf {
			sb.WriteString(it.text)
			continue
		}
		k := it.node.Kind()
		switch k.Tag {
		case expr.TagVar:
			sb.WriteString(string(k.Symbol))
		case expr.TagApp:
			arg := k.Arg.Kind()
			push(k.Arg, !arg.IsVar())
			work = append(work, formatItem[E]{text: " ", leaf: true})
			push(k.Fun, k.Fun.Kind().IsLam())
		case expr.TagLam:
			sb.WriteString(lam)
			sb.WriteString(string(k.Symbol))
			sb.WriteString(". ")
			push(k.Body, false)
		}
	}
	return sb.String()
}
