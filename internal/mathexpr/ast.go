package mathexpr

import (
	"math"
	"strconv"
)

// Node is a parsed expression tree node.
type Node interface {
	// String renders the node in fully parenthesized infix form.
	String() string
	eval(b Bindings) (float64, error)
	collect(seen map[string]struct{})
}

// Num is a numeric literal.
type Num struct{ Value float64 }

// Const is a named constant such as pi.
type Const struct {
	Name  string
	Value float64
}

// Sym is a free variable.
type Sym struct{ Name string }

// Neg is unary negation.
type Neg struct{ X Node }

// Binary is an arithmetic operation. Implicit marks multiplication written
// by juxtaposition (2x, 3(x+1)).
type Binary struct {
	Op       byte
	L, R     Node
	Implicit bool
}

// Call applies a builtin function to its arguments.
type Call struct {
	Fn   string
	Args []Node
}

// Assign is a top-level "name = expr" statement. It evaluates to Value.
type Assign struct {
	Target string
	Value  Node
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

type builtin struct {
	arity int
	fn    func(args []float64) float64
}

var functions = map[string]builtin{
	"sqrt":  {1, func(a []float64) float64 { return math.Sqrt(a[0]) }},
	"abs":   {1, func(a []float64) float64 { return math.Abs(a[0]) }},
	"sin":   {1, func(a []float64) float64 { return math.Sin(a[0]) }},
	"cos":   {1, func(a []float64) float64 { return math.Cos(a[0]) }},
	"tan":   {1, func(a []float64) float64 { return math.Tan(a[0]) }},
	"ln":    {1, func(a []float64) float64 { return math.Log(a[0]) }},
	"log":   {1, func(a []float64) float64 { return math.Log(a[0]) }},
	"log10": {1, func(a []float64) float64 { return math.Log10(a[0]) }},
	"exp":   {1, func(a []float64) float64 { return math.Exp(a[0]) }},
	"round": {1, func(a []float64) float64 { return math.Round(a[0]) }},
	"floor": {1, func(a []float64) float64 { return math.Floor(a[0]) }},
	"ceil":  {1, func(a []float64) float64 { return math.Ceil(a[0]) }},
	"min":   {2, func(a []float64) float64 { return math.Min(a[0], a[1]) }},
	"max":   {2, func(a []float64) float64 { return math.Max(a[0], a[1]) }},
}

func (n *Num) String() string   { return strconv.FormatFloat(n.Value, 'g', -1, 64) }
func (n *Const) String() string { return n.Name }
func (n *Sym) String() string   { return n.Name }
func (n *Neg) String() string   { return "(-" + n.X.String() + ")" }

func (n *Binary) String() string {
	return "(" + n.L.String() + " " + string(n.Op) + " " + n.R.String() + ")"
}

func (n *Call) String() string {
	s := n.Fn + "("
	for i, a := range n.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

func (n *Assign) String() string { return n.Target + " = " + n.Value.String() }

func (n *Num) collect(map[string]struct{})   {}
func (n *Const) collect(map[string]struct{}) {}
func (n *Sym) collect(seen map[string]struct{}) {
	seen[n.Name] = struct{}{}
}
func (n *Neg) collect(seen map[string]struct{}) { n.X.collect(seen) }
func (n *Binary) collect(seen map[string]struct{}) {
	n.L.collect(seen)
	n.R.collect(seen)
}
func (n *Call) collect(seen map[string]struct{}) {
	for _, a := range n.Args {
		a.collect(seen)
	}
}

// The assignment target counts as a referenced name.
func (n *Assign) collect(seen map[string]struct{}) {
	seen[n.Target] = struct{}{}
	n.Value.collect(seen)
}
