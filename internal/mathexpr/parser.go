// Package mathexpr parses and evaluates algebraic expressions in the notation
// learners type: 2x, 3(x+1), 1/2x, x^2, h=5n+10.
//
// Grammar (lowest to highest precedence):
//
//	statement := ident "=" expr | expr
//	expr      := term (("+" | "-") term)*
//	term      := implicit (("*" | "/") implicit)*
//	implicit  := unary power*            juxtaposition, e.g. 2x(x+1)
//	unary     := ("-" | "+") unary | power
//	power     := primary ("^" unary)?    right associative
//	primary   := number | ident | ident "(" args ")" | "(" expr ")"
//
// A number divided by a number that starts an implicit product is read as
// a fraction coefficient: 1/2x is (1/2)x, while 8x/2x stays 8x/(2x).
package mathexpr

import (
	"fmt"
	"sort"
	"strconv"
)

// Expr is a parsed expression. It is immutable and safe for concurrent use.
type Expr struct {
	src  string
	root Node
}

// Parse parses src into an expression.
func Parse(src string) (*Expr, error) {
	toks, err := tokenize(expandLatex(src))
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	root, err := p.statement()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, p.errorf("unexpected %q", p.peek().text)
	}
	return &Expr{src: src, root: root}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level tables.
func MustParse(src string) *Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

// Root returns the expression tree.
func (e *Expr) Root() Node { return e.root }

// Source returns the text the expression was parsed from.
func (e *Expr) Source() string { return e.src }

func (e *Expr) String() string { return e.root.String() }

// Eval evaluates the expression. Every free variable must be bound.
func (e *Expr) Eval(b Bindings) (float64, error) {
	return e.root.eval(b)
}

// Variables returns the sorted free variable names. For an assignment the
// target name is included.
func (e *Expr) Variables() []string {
	seen := make(map[string]struct{})
	e.root.collect(seen)
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Evaluate parses and evaluates src in one step.
func Evaluate(src string, b Bindings) (float64, error) {
	e, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return e.Eval(b)
}

type parser struct {
	src  string
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) peekAt(off int) token {
	if p.pos+off >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+off]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(op string) bool {
	t := p.peek()
	return t.kind == tokOp && t.text == op
}

func (p *parser) errorf(format string, args ...any) error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &ParseError{Input: p.src, Pos: p.peek().pos, Msg: msg}
}

func (p *parser) statement() (Node, error) {
	if p.peek().kind == tokEOF {
		return nil, p.errorf("empty expression")
	}
	if p.peek().kind == tokIdent && p.peekAt(1).kind == tokOp && p.peekAt(1).text == "=" {
		name := p.next().text
		if _, ok := constants[name]; ok {
			return nil, p.errorf("cannot assign to constant %s", name)
		}
		p.next()
		val, err := p.expr()
		if err != nil {
			return nil, err
		}
		return &Assign{Target: name, Value: val}, nil
	}
	return p.expr()
}

func (p *parser) expr() (Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.next().text[0]
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, L: left, R: right}
	}
	return left, nil
}

func (p *parser) term() (Node, error) {
	left, err := p.implicit()
	if err != nil {
		return nil, err
	}
	for p.isOp("*") || p.isOp("/") {
		op := p.next().text[0]
		right, err := p.implicit()
		if err != nil {
			return nil, err
		}
		if op == '/' && isNumber(left) {
			if coef, rest, ok := splitLeadingNumber(right); ok {
				left = &Binary{Op: '*', L: &Binary{Op: '/', L: left, R: coef}, R: rest, Implicit: true}
				continue
			}
		}
		left = &Binary{Op: op, L: left, R: right}
	}
	return left, nil
}

func (p *parser) implicit() (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.startsFactor() {
		right, err := p.power()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: '*', L: left, R: right, Implicit: true}
	}
	return left, nil
}

// startsFactor reports whether the next token can begin an implicitly
// multiplied factor. A number only qualifies right after ")" so "2 3" stays
// an error.
func (p *parser) startsFactor() bool {
	switch p.peek().kind {
	case tokIdent, tokLParen:
		return true
	case tokNumber:
		return p.pos > 0 && p.toks[p.pos-1].kind == tokRParen
	}
	return false
}

func (p *parser) unary() (Node, error) {
	if p.isOp("-") {
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Neg{X: x}, nil
	}
	if p.isOp("+") {
		p.next()
		return p.unary()
	}
	return p.power()
}

func (p *parser) power() (Node, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.isOp("^") {
		p.next()
		exp, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Binary{Op: '^', L: base, R: exp}, nil
	}
	return base, nil
}

func (p *parser) primary() (Node, error) {
	t := p.peek()
	switch t.kind {
	case tokNumber:
		p.next()
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, &ParseError{Input: p.src, Pos: t.pos, Msg: "invalid number " + t.text}
		}
		return &Num{Value: v}, nil

	case tokIdent:
		p.next()
		if f, ok := functions[t.text]; ok && p.peek().kind == tokLParen {
			return p.call(t, f)
		}
		if v, ok := constants[t.text]; ok {
			return &Const{Name: t.text, Value: v}, nil
		}
		return &Sym{Name: t.text}, nil

	case tokLParen:
		p.next()
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, p.errorf("missing closing parenthesis")
		}
		p.next()
		return inner, nil

	case tokEOF:
		return nil, p.errorf("unexpected end of expression")
	}
	return nil, p.errorf("unexpected %q", t.text)
}

func (p *parser) call(name token, f builtin) (Node, error) {
	p.next() // (
	var args []Node
	for {
		a, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.peek().kind == tokComma {
			p.next()
			continue
		}
		break
	}
	if p.peek().kind != tokRParen {
		return nil, p.errorf("missing closing parenthesis")
	}
	p.next()
	if len(args) != f.arity {
		return nil, &ParseError{Input: p.src, Pos: name.pos, Msg: fmt.Sprintf("%s expects %d argument(s), got %d", name.text, f.arity, len(args))}
	}
	return &Call{Fn: name.text, Args: args}, nil
}

// isNumber reports whether n is a numeric literal, optionally negated.
func isNumber(n Node) bool {
	if neg, ok := n.(*Neg); ok {
		n = neg.X
	}
	_, ok := n.(*Num)
	return ok
}

// splitLeadingNumber splits an implicit product whose leftmost factor is a
// numeric literal into that literal and the remaining product.
func splitLeadingNumber(n Node) (*Num, Node, bool) {
	b, ok := n.(*Binary)
	if !ok || !b.Implicit {
		return nil, nil, false
	}
	if num, ok := b.L.(*Num); ok {
		return num, b.R, true
	}
	num, rest, ok := splitLeadingNumber(b.L)
	if !ok {
		return nil, nil, false
	}
	return num, &Binary{Op: '*', L: rest, R: b.R, Implicit: true}, true
}
