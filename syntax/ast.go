package syntax

// TermType discriminates surface terms.
type TermType int

const (
	TermVar TermType = iota
	TermNumber
	TermApp
	TermLam
)

// Term is a parsed expression before expansion. Multi-parameter lambdas are
// kept as written; numbers are kept as numbers.
type Term struct {
	Type   TermType
	Name   string
	Number uint64
	Params []string
	Fun    *Term
	Arg    *Term
	Body   *Term
	Line   int
	Col    int
}

// Binding is one `name = value;` clause of a let.
type Binding struct {
	Name  string
	Value *Term
	Line  int
	Col   int
}

// Program is a whole source text: optional bindings and the main expression.
type Program struct {
	Bindings []Binding
	Main     *Term
}

// freeNames collects the variable names used in t that no enclosing lambda of
// t binds, along with their first occurrence.
func freeNames(t *Term) map[string]*Term {
	out := make(map[string]*Term)
	type visit struct {
		t     *Term
		bound map[string]bool
	}
	work := []visit{{t, map[string]bool{}}}
	for len(work) > 0 {
		v := work[len(work)-1]
		work = work[:len(work)-1]
		switch v.t.Type {
		case TermVar:
			if !v.bound[v.t.Name] {
				if _, seen := out[v.t.Name]; !seen {
					out[v.t.Name] = v.t
				}
			}
		case TermApp:
			work = append(work, visit{v.t.Arg, v.bound}, visit{v.t.Fun, v.bound})
		case TermLam:
			inner := make(map[string]bool, len(v.bound)+len(v.t.Params))
			for name := range v.bound {
				inner[name] = true
			}
			for _, p := range v.t.Params {
				inner[p] = true
			}
			work = append(work, visit{v.t.Body, inner})
		}
	}
	return out
}
