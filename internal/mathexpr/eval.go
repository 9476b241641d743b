package mathexpr

import (
	"fmt"
	"math"
)

// Bindings maps variable names to values.
type Bindings map[string]float64

// Uniform binds every name to the same value.
func Uniform(names []string, v float64) Bindings {
	b := make(Bindings, len(names))
	for _, n := range names {
		b[n] = v
	}
	return b
}

// Arithmetic follows IEEE-754: division by zero yields ±Inf and invalid
// operations yield NaN. Callers compare results with tolerances, which
// treat NaN as "no difference observed".

func (n *Num) eval(Bindings) (float64, error)   { return n.Value, nil }
func (n *Const) eval(Bindings) (float64, error) { return n.Value, nil }

func (n *Sym) eval(b Bindings) (float64, error) {
	v, ok := b[n.Name]
	if !ok {
		return 0, &EvaluationError{Name: n.Name, Err: ErrUndefined}
	}
	return v, nil
}

func (n *Neg) eval(b Bindings) (float64, error) {
	v, err := n.X.eval(b)
	if err != nil {
		return 0, err
	}
	return -v, nil
}

func (n *Binary) eval(b Bindings) (float64, error) {
	l, err := n.L.eval(b)
	if err != nil {
		return 0, err
	}
	r, err := n.R.eval(b)
	if err != nil {
		return 0, err
	}
	switch n.Op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	case '/':
		return l / r, nil
	case '^':
		return math.Pow(l, r), nil
	}
	return 0, &EvaluationError{Name: string(n.Op), Err: fmt.Errorf("unknown operator")}
}

func (n *Call) eval(b Bindings) (float64, error) {
	f, ok := functions[n.Fn]
	if !ok {
		return 0, &EvaluationError{Name: n.Fn, Err: fmt.Errorf("unknown function")}
	}
	args := make([]float64, len(n.Args))
	for i, a := range n.Args {
		v, err := a.eval(b)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	return f.fn(args), nil
}

func (n *Assign) eval(b Bindings) (float64, error) { return n.Value.eval(b) }
