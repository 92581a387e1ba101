package lambda

import "github.com/rfielding/lambda-beta/expr"

// ChurchNumeral encodes n as λf. λx. f (f (... (f x))).
func ChurchNumeral[E expr.Expression[E]](n uint64) E {
	body := expr.Var[E]("x")
	for i := uint64(0); i < n; i++ {
		body = expr.App(expr.Var[E]("f"), body)
	}
	return expr.Lam("f", expr.Lam("x", body))
}

// DecodeChurch returns the number encoded by e if e is a Church numeral under
// any choice of parameter names.
func DecodeChurch[E expr.Expression[E]](e E) (uint64, bool) {
	outer := e.Kind()
	if !outer.IsLam() {
		return 0, false
	}
	inner := outer.Body.Kind()
	if !inner.IsLam() || inner.Symbol == outer.Symbol {
		return 0, false
	}
	f, x := outer.Symbol, inner.Symbol
	var n uint64
	k := inner.Body.Kind()
	for k.IsApp() {
		fun := k.Fun.Kind()
		if !fun.IsVar() || fun.Symbol != f {
			return 0, false
		}
		n++
		k = k.Arg.Kind()
	}
	if !k.IsVar() || k.Symbol != x {
		return 0, false
	}
	return n, true
}
