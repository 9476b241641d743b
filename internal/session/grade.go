package session

import (
	"strconv"
	"strings"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/equivalence"
	"github.com/abhisek/mathpath/internal/graphcheck"
)

// Check reports whether in answers p. Every answer shape has its own
// check; an unknown shape is never correct.
func Check(p *content.Problem, in Input) bool {
	switch a := p.Answer.(type) {
	case *content.ExpressionAnswer:
		return equivalence.Equivalent(in.Values[KeyMain], a.Expr)
	case *content.ChoiceAnswer:
		return checkChoice(a, in.Values[KeyChoice])
	case *content.TableAnswer:
		return checkTable(a, in.Values)
	case *content.GraphAnswer:
		return checkGraph(a, in.Points)
	}
	return false
}

func checkChoice(a *content.ChoiceAnswer, v string) bool {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	return err == nil && i == a.Index
}

// checkTable requires every expected cell to hold exactly the expected
// number. Cells beyond the expected ones are ignored.
func checkTable(a *content.TableAnswer, values map[string]string) bool {
	if len(a.Values) == 0 {
		return false
	}
	for k, want := range a.Values {
		v := strings.TrimSpace(values[k])
		if v == "" {
			return false
		}
		got, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64)
		if err != nil || got != want {
			return false
		}
	}
	return true
}

// checkGraph validates against the target line, or only counts points when
// the problem has none.
func checkGraph(a *content.GraphAnswer, pts *graphcheck.PointSet) bool {
	if pts == nil {
		return false
	}
	if a.Equation == "" {
		return pts.Len() >= graphcheck.MinPoints
	}
	return graphcheck.Validate(pts.Points(), a.Equation, a.Required)
}

// answerText renders the input for logs and diagnosis.
func answerText(p *content.Problem, in Input) string {
	switch p.Type() {
	case content.TypeInput:
		return in.Values[KeyMain]
	case content.TypeMultipleChoice:
		return in.Values[KeyChoice]
	case content.TypeGraphing:
		var b strings.Builder
		for i, pt := range in.Points.Points() {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(pt.String())
		}
		return b.String()
	}
	var b strings.Builder
	if t, ok := p.Answer.(*content.TableAnswer); ok {
		for i, k := range t.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k + " → " + in.Values[k])
		}
	}
	return b.String()
}
