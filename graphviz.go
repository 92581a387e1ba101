package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rfielding/lambda-beta/expr"
)

type dotItem[E any] struct {
	node  E
	id    int
	leave bool
	param expr.Symbol
}

// GenerateGraphviz renders a term as a Graphviz DOT tree. Applications are
// drawn as @, abstractions as λx, and a bound variable gets a dashed edge back
// to its binder.
func GenerateGraphviz[E expr.Expression[E]](e E) string {
	var sb strings.Builder

	sb.WriteString("digraph Term {\n")
	sb.WriteString("  node [shape=circle, fontname=\"monospace\"];\n")
	sb.WriteString("\n")

	binders := make(map[expr.Symbol][]int)
	next := 1
	work := []dotItem[E]{{node: e}}
	for len(work) > 0 {
		it := work[len(work)-1]
		work = work[:len(work)-1]
		if it.leave {
			stack := binders[it.param]
			binders[it.param] = stack[:len(stack)-1]
			continue
		}
		k := it.node.Kind()
		switch k.Tag {
		case expr.TagVar:
			sb.WriteString(fmt.Sprintf("  n%d [label=\"%s\", shape=plaintext];\n", it.id, dotEscape(string(k.Symbol))))
			if stack := binders[k.Symbol]; len(stack) > 0 {
				sb.WriteString(fmt.Sprintf("  n%d -> n%d [style=dashed, constraint=false];\n", it.id, stack[len(stack)-1]))
			}
		case expr.TagApp:
			fun, arg := next, next+1
			next += 2
			sb.WriteString(fmt.Sprintf("  n%d [label=\"@\"];\n", it.id))
			sb.WriteString(fmt.Sprintf("  n%d -> n%d [label=\"fun\"];\n", it.id, fun))
			sb.WriteString(fmt.Sprintf("  n%d -> n%d [label=\"arg\"];\n", it.id, arg))
			work = append(work, dotItem[E]{node: k.Arg, id: arg}, dotItem[E]{node: k.Fun, id: fun})
		case expr.TagLam:
			body := next
			next++
			sb.WriteString(fmt.Sprintf("  n%d [label=\"λ%s\"];\n", it.id, dotEscape(string(k.Symbol))))
			sb.WriteString(fmt.Sprintf("  n%d -> n%d;\n", it.id, body))
			binders[k.Symbol] = append(binders[k.Symbol], it.id)
			work = append(work, dotItem[E]{leave: true, param: k.Symbol}, dotItem[E]{node: k.Body, id: body})
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

func dotEscape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// SaveGraphviz writes the DOT rendering of e to filename.
func SaveGraphviz[E expr.Expression[E]](e E, filename string) error {
	return os.WriteFile(filename, []byte(GenerateGraphviz(e)), 0o644)
}
