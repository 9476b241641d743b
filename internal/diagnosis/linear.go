package diagnosis

import (
	"math"
	"strings"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/mathexpr"
)

// LinearTolerance is the slack allowed when comparing slopes and intercepts.
const LinearTolerance = 1e-3

// lineVariables are bound together when evaluating a linear expression, so
// answers written in x, t or n all work.
var lineVariables = []string{"x", "t", "n"}

// LinearErrorKind says which component of a linear answer is wrong.
type LinearErrorKind int

const (
	SlopeError     LinearErrorKind = iota + 1 // intercept right, slope wrong
	InterceptError                            // slope right, intercept wrong
	SignError                                 // both wrong, magnitudes match
)

func (k LinearErrorKind) String() string {
	switch k {
	case SlopeError:
		return "slope"
	case InterceptError:
		return "intercept"
	case SignError:
		return "sign"
	}
	return "unknown"
}

// LinearDiagnosis compares the slope and intercept of a wrong linear answer
// with the correct one.
type LinearDiagnosis struct {
	Kind             LinearErrorKind
	LearnerSlope     float64
	CorrectSlope     float64
	LearnerIntercept float64
	CorrectIntercept float64
}

// DiagnoseLinear decomposes both answers as f(v) = m*v + c with
// c = f(0) and m = f(1) - f(0), then reports which component differs.
// It returns nil when the answers cannot be decomposed, when both components
// are wrong without a sign-only difference, or when both are right.
func DiagnoseLinear(learnerAnswer, correctAnswer string) *LinearDiagnosis {
	lm, lc, ok := slopeIntercept(learnerAnswer)
	if !ok {
		return nil
	}
	cm, cc, ok := slopeIntercept(correctAnswer)
	if !ok {
		return nil
	}

	d := &LinearDiagnosis{
		LearnerSlope:     lm,
		CorrectSlope:     cm,
		LearnerIntercept: lc,
		CorrectIntercept: cc,
	}
	slopeOK := math.Abs(lm-cm) < LinearTolerance
	interceptOK := math.Abs(lc-cc) < LinearTolerance

	switch {
	case slopeOK && !interceptOK:
		d.Kind = InterceptError
	case !slopeOK && interceptOK:
		d.Kind = SlopeError
	case !slopeOK && !interceptOK &&
		math.Abs(lm) == math.Abs(cm) && math.Abs(lc) == math.Abs(cc):
		// Exact magnitude match only; near misses are not sign errors.
		d.Kind = SignError
	default:
		return nil
	}
	return d
}

// Feedback is DiagnoseLinear rendered in l, or "" when there is no diagnosis.
func Feedback(learnerAnswer, correctAnswer string, l content.Language) string {
	d := DiagnoseLinear(learnerAnswer, correctAnswer)
	if d == nil {
		return ""
	}
	return d.Message(l)
}

// slopeIntercept evaluates the right-hand side of s at 0 and 1.
func slopeIntercept(s string) (m, c float64, ok bool) {
	s = strings.Join(strings.Fields(strings.ToLower(s)), "")
	if parts := strings.Split(s, "="); len(parts) > 1 {
		s = parts[1]
	}
	e, err := mathexpr.Parse(s)
	if err != nil {
		return 0, 0, false
	}
	f0, err := e.Eval(mathexpr.Uniform(lineVariables, 0))
	if err != nil {
		return 0, 0, false
	}
	f1, err := e.Eval(mathexpr.Uniform(lineVariables, 1))
	if err != nil {
		return 0, 0, false
	}
	m, c = f1-f0, f0
	if math.IsNaN(m) || math.IsInf(m, 0) || math.IsNaN(c) || math.IsInf(c, 0) {
		return 0, 0, false
	}
	return m, c, true
}
