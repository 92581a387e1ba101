package expr

type cloneOp uint8

const (
	cloneVisit cloneOp = iota
	cloneApp
	cloneLam
)

type cloneFrame[F any] struct {
	op     cloneOp
	src    F
	symbol Symbol
}

// Convert rebuilds src node by node as a tree of another realization. Every
// application and abstraction is reconstructed through FromKind, so the result
// shares nothing with src.
func Convert[F Expression[F], T Expression[T]](src F) T {
	work := []cloneFrame[F]{{op: cloneVisit, src: src}}
	var out []T
	for len(work) > 0 {
		f := work[len(work)-1]
		work = work[:len(work)-1]
		switch f.op {
		case cloneVisit:
			k := f.src.Kind()
			switch k.Tag {
			case TagVar:
				out = append(out, Var[T](k.Symbol))
			case TagApp:
				work = append(work,
					cloneFrame[F]{op: cloneApp},
					cloneFrame[F]{op: cloneVisit, src: k.Arg},
					cloneFrame[F]{op: cloneVisit, src: k.Fun})
			case TagLam:
				work = append(work,
					cloneFrame[F]{op: cloneLam, symbol: k.Symbol},
					cloneFrame[F]{op: cloneVisit, src: k.Body})
			}
		case cloneApp:
			arg := out[len(out)-1]
			fun := out[len(out)-2]
			out = out[:len(out)-2]
			out = append(out, App(fun, arg))
		case cloneLam:
			body := out[len(out)-1]
			out[len(out)-1] = Lam(f.symbol, body)
		}
	}
	return out[0]
}

// DeepClone copies every node of e, even when e is a shared handle.
func DeepClone[E Expression[E]](e E) E {
	return Convert[E, E](e)
}

// ShallowClone adds an owner to a shared handle; all descendants are shared.
func ShallowClone[E SharedExpression[E]](e E) E {
	return e.Clone()
}
