package mathexpr

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp     // + - * / ^ =
	tokLParen // (
	tokRParen // )
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// operator aliases learners commonly type or paste.
var opAliases = map[rune]byte{
	'+': '+', '-': '-', '*': '*', '/': '/', '^': '^', '=': '=',
	'−': '-', // U+2212 minus sign
	'×': '*', '·': '*', '⋅': '*',
	'÷': '/', '∶': '/',
}

func tokenize(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		r, w := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += w
		case isDigit(r) || (r == '.' && i+1 < len(src) && isDigit(rune(src[i+1]))):
			start := i
			seenDot := false
			for i < len(src) {
				c := src[i]
				if c == '.' && !seenDot {
					seenDot = true
					i++
					continue
				}
				if !isDigit(rune(c)) {
					break
				}
				i++
			}
			toks = append(toks, token{kind: tokNumber, text: src[start:i], pos: start})
		case unicode.IsLetter(r):
			start := i
			for i < len(src) {
				r, w := utf8.DecodeRuneInString(src[i:])
				if !unicode.IsLetter(r) && !isDigit(r) && r != '_' {
					break
				}
				i += w
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		case r == '(' || r == '[' || r == '{':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i += w
		case r == ')' || r == ']' || r == '}':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i += w
		case r == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i})
			i += w
		default:
			op, ok := opAliases[r]
			if !ok {
				return nil, &ParseError{Input: src, Pos: i, Msg: "unexpected character " + string(r)}
			}
			toks = append(toks, token{kind: tokOp, text: string(op), pos: i})
			i += w
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// expandLatex rewrites the handful of LaTeX constructs that show up in
// pasted answers (\frac{a}{b}, \cdot, \times, \left, \right) into plain
// infix notation.
func expandLatex(src string) string {
	if !strings.Contains(src, `\`) {
		return src
	}
	r := strings.NewReplacer(`\cdot`, "*", `\times`, "*", `\div`, "/", `\left`, "", `\right`, "")
	src = r.Replace(src)
	for {
		i := strings.Index(src, `\frac`)
		if i < 0 {
			return src
		}
		num, rest, ok := bracedGroup(src[i+len(`\frac`):])
		if !ok {
			return src
		}
		den, tail, ok := bracedGroup(rest)
		if !ok {
			return src
		}
		src = src[:i] + "((" + num + ")/(" + den + "))" + tail
	}
}

// bracedGroup splits "{...}rest" into the group body and rest, honoring nesting.
func bracedGroup(s string) (body, rest string, ok bool) {
	s = strings.TrimLeft(s, " ")
	if !strings.HasPrefix(s, "{") {
		return "", "", false
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}
