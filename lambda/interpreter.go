package lambda

import "github.com/rfielding/lambda-beta/expr"

// Interpreter drives one term toward normal form. It keeps its own copy of the
// input so the term can be reset and inspected while reduction progresses.
type Interpreter[E expr.Expression[E]] struct {
	input   E
	current E
	steps   uint64
	metrics *Metrics
}

// NewInterpreter takes ownership of input.
func NewInterpreter[E expr.Expression[E]](input E) *Interpreter[E] {
	return &Interpreter[E]{input: input, current: input.Clone()}
}

// WithMetrics attaches m so that subsequent steps are counted in it.
func (ip *Interpreter[E]) WithMetrics(m *Metrics) *Interpreter[E] {
	ip.metrics = m
	return ip
}

func (ip *Interpreter[E]) Metrics() *Metrics {
	return ip.metrics
}

// Reset discards the progress made so far and starts again from the input.
func (ip *Interpreter[E]) Reset() {
	ip.current.Release()
	ip.current = ip.input.Clone()
	ip.steps = 0
}

// SetInput replaces the input, taking ownership of it, and resets.
func (ip *Interpreter[E]) SetInput(input E) {
	ip.input.Release()
	ip.input = input
	ip.Reset()
}

// RunStep performs a single reduction and reports whether one was possible.
func (ip *Interpreter[E]) RunStep() bool {
	if !reduceOne(&ip.current, ip.metrics) {
		return false
	}
	ip.steps++
	return true
}

// RunSteps performs at most max reductions. It returns true when the budget
// ran out with a redex still left, and false once the term is in normal form.
func (ip *Interpreter[E]) RunSteps(max uint32) bool {
	for i := uint32(0); i < max; i++ {
		if !ip.RunStep() {
			return false
		}
	}
	return HasRedex(ip.current)
}

// RunAll reduces until no redex remains. It does not return for terms without
// a normal form; use RunSteps to bound the work.
func (ip *Interpreter[E]) RunAll() {
	for ip.RunStep() {
	}
}

func (ip *Interpreter[E]) Steps() uint64 {
	return ip.steps
}

// Input returns the term the interpreter started from. It remains owned by the
// interpreter.
func (ip *Interpreter[E]) Input() E {
	return ip.input
}

// Output returns the current term. It remains owned by the interpreter.
func (ip *Interpreter[E]) Output() E {
	return ip.current
}

// Finish releases the input and hands the current term to the caller. The
// interpreter must not be used afterwards.
func (ip *Interpreter[E]) Finish() E {
	ip.input.Release()
	out := ip.current
	var zero E
	ip.input, ip.current = zero, zero
	return out
}

// RunOnce reduces input to normal form and returns the result together with
// the number of steps taken.
func RunOnce[E expr.Expression[E]](input E) (E, uint64) {
	ip := NewInterpreter(input)
	ip.RunAll()
	steps := ip.Steps()
	return ip.Finish(), steps
}
