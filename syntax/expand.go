package syntax

import (
	"github.com/rfielding/lambda-beta/expr"
	"github.com/rfielding/lambda-beta/lambda"
)

// Build converts a surface term into a term of realization E. Numbers become
// Church numerals and multi-parameter lambdas become nested abstractions.
func Build[E expr.Expression[E]](t *Term) E {
	type item struct {
		t    *Term
		done bool
	}
	work := []item{{t: t}}
	var out []E
	for len(work) > 0 {
		it := work[len(work)-1]
		work = work[:len(work)-1]
		switch it.t.Type {
		case TermVar:
			out = append(out, expr.Var[E](expr.Symbol(it.t.Name)))
		case TermNumber:
			out = append(out, lambda.ChurchNumeral[E](it.t.Number))
		case TermApp:
			if !it.done {
				work = append(work, item{t: it.t, done: true}, item{t: it.t.Arg}, item{t: it.t.Fun})
				continue
			}
			arg := out[len(out)-1]
			fun := out[len(out)-2]
			out = append(out[:len(out)-2], expr.App(fun, arg))
		case TermLam:
			if !it.done {
				work = append(work, item{t: it.t, done: true}, item{t: it.t.Body})
				continue
			}
			params := make([]expr.Symbol, len(it.t.Params))
			for i, p := range it.t.Params {
				params[i] = expr.Symbol(p)
			}
			out[len(out)-1] = expr.Lams(params, out[len(out)-1])
		}
	}
	return out[0]
}

// Expand turns a program into one term by substituting every binding into the
// main expression, last binding first, so a binding may use the ones declared
// before it. A binding that names itself or a later binding is rejected; other
// free names are left open.
func Expand[E expr.Expression[E]](prog *Program) (E, error) {
	var zero E
	for i, b := range prog.Bindings {
		earlier := make(map[string]bool, i)
		for _, prev := range prog.Bindings[:i] {
			earlier[prev.Name] = true
		}
		later := make(map[string]bool)
		for _, next := range prog.Bindings[i:] {
			later[next.Name] = true
		}
		for name, use := range freeNames(b.Value) {
			if later[name] && !earlier[name] {
				return zero, &Error{Line: use.Line, Col: use.Col, Err: ErrUnboundName,
					Msg: "'" + name + "' in the binding of '" + b.Name + "'"}
			}
		}
	}

	term := Build[E](prog.Main)
	for i := len(prog.Bindings) - 1; i >= 0; i-- {
		b := prog.Bindings[i]
		value := Build[E](b.Value)
		lambda.Substitute(&term, expr.Symbol(b.Name), value)
		value.Release()
	}
	return term, nil
}

// ParseExpr parses and expands source text into a term of realization E.
func ParseExpr[E expr.Expression[E]](src string) (E, error) {
	prog, err := Parse(src)
	if err != nil {
		var zero E
		return zero, err
	}
	return Expand[E](prog)
}

// MustParse is ParseExpr for sources known to be valid, such as tests and
// built-in examples. It panics on error.
func MustParse[E expr.Expression[E]](src string) E {
	e, err := ParseExpr[E](src)
	if err != nil {
		panic(err)
	}
	return e
}
