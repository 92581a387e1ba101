package expr

import "fmt"

// Tag discriminates the three shapes a term node can take.
type Tag uint8

const (
	TagVar Tag = iota
	TagApp
	TagLam
)

func (t Tag) String() string {
	switch t {
	case TagVar:
		return "Var"
	case TagApp:
		return "App"
	case TagLam:
		return "Lam"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// Kind is one node of a lambda term, generic over the handle type E used for
// its sub-terms.
//
//	Var: Symbol is the variable name.
//	App: Fun is applied to Arg.
//	Lam: Symbol is the bound parameter, Body its scope.
//
// The zero value is the placeholder node: a variable named by the empty symbol.
type Kind[E any] struct {
	Tag    Tag
	Symbol Symbol
	Fun    E
	Arg    E
	Body   E
}

// VarKind builds a variable node.
func VarKind[E any](name Symbol) Kind[E] {
	return Kind[E]{Tag: TagVar, Symbol: name}
}

// AppKind builds an application node owning fun and arg.
func AppKind[E any](fun, arg E) Kind[E] {
	return Kind[E]{Tag: TagApp, Fun: fun, Arg: arg}
}

// LamKind builds an abstraction binding param in body.
func LamKind[E any](param Symbol, body E) Kind[E] {
	return Kind[E]{Tag: TagLam, Symbol: param, Body: body}
}

func (k *Kind[E]) IsVar() bool { return k.Tag == TagVar }
func (k *Kind[E]) IsApp() bool { return k.Tag == TagApp }
func (k *Kind[E]) IsLam() bool { return k.Tag == TagLam }

// IsPlaceholder reports whether k is the node left behind by a take.
func (k *Kind[E]) IsPlaceholder() bool {
	return k.Tag == TagVar && k.Symbol.IsEmpty()
}

// Expression is the capability set every term handle provides. The structural
// algorithms of this package and the reduction engine are written against it
// only, so they behave the same for every ownership strategy.
//
// TryKindMut, TryTakeKind and TryIntoKind succeed only while the caller can
// mutate without other owners observing it; on failure callers fall back to a
// deep clone. After a successful TryTakeKind the handle holds the placeholder
// node. After a successful TryIntoKind the handle is spent and must not be used
// again; on failure it is left untouched and still belongs to the caller.
type Expression[E any] interface {
	// FromKind wraps a node in a new handle. It must work on the zero value.
	FromKind(k Kind[E]) E
	Kind() *Kind[E]
	TryKindMut() (*Kind[E], bool)
	TryTakeKind() (Kind[E], bool)
	TryIntoKind() (Kind[E], bool)
	// Clone copies the handle: deep for exclusive handles, shallow for shared ones.
	Clone() E
	// Release gives up this handle's ownership, tearing the tree down
	// iteratively once nothing else refers to it.
	Release()
}

// SharedExpression is an Expression whose Clone only adds an owner.
type SharedExpression[E any] interface {
	Expression[E]
	Owners() int
}

// Var builds a variable handle.
func Var[E Expression[E]](name Symbol) E {
	var zero E
	return zero.FromKind(VarKind[E](name))
}

// App builds an application handle taking ownership of fun and arg.
func App[E Expression[E]](fun, arg E) E {
	var zero E
	return zero.FromKind(AppKind(fun, arg))
}

// Lam builds an abstraction handle taking ownership of body.
func Lam[E Expression[E]](param Symbol, body E) E {
	var zero E
	return zero.FromKind(LamKind(param, body))
}

// Apps folds terms into a left-nested application: Apps(f, a, b) is (f a) b.
func Apps[E Expression[E]](fun E, args ...E) E {
	for _, arg := range args {
		fun = App(fun, arg)
	}
	return fun
}

// Lams nests abstractions: Lams([]Symbol{"a", "b"}, body) is λa. λb. body.
func Lams[E Expression[E]](params []Symbol, body E) E {
	for i := len(params) - 1; i >= 0; i-- {
		body = Lam(params[i], body)
	}
	return body
}
