// Package equivalence decides whether a learner's answer denotes the same
// function as the canonical answer by evaluating both at a fixed table of
// sample points.
//
// Two distinct functions that agree on every sample point are reported as
// equivalent. This is a known limitation of sampling, not a bug.
package equivalence

import (
	"math"
	"strings"

	"github.com/abhisek/mathpath/internal/mathexpr"
)

// Tolerance is the absolute difference above which two evaluations disagree.
const Tolerance = 1e-4

// SamplePoints are the values bound to every variable, all variables at once,
// in evaluation order. The table is fixed so verdicts are reproducible.
var SamplePoints = []float64{0, 1, 10, -5, 2.5}

// Normalize lowercases s, removes all whitespace and turns the first decimal
// comma into a point.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), "")
	return strings.Replace(s, ",", ".", 1)
}

// Equivalent reports whether a and b are mathematically equal. It never
// fails: unparseable input falls back to normalized string equality and
// evaluation failures count as "not equivalent".
func Equivalent(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}

	// On a parse failure the string comparison above is the verdict.
	ea, err := mathexpr.Parse(na)
	if err != nil {
		return false
	}
	eb, err := mathexpr.Parse(nb)
	if err != nil {
		return false
	}

	vars := union(ea.Variables(), eb.Variables())
	if len(vars) == 0 {
		return agreeAt(ea, eb, nil)
	}
	for _, v := range SamplePoints {
		if !agreeAt(ea, eb, mathexpr.Uniform(vars, v)) {
			return false
		}
	}
	return true
}

// agreeAt evaluates both expressions under b. The values agree when they
// are within Tolerance, both NaN, or the same infinity. A NaN on one side
// only is a disagreement.
func agreeAt(a, b *mathexpr.Expr, bind mathexpr.Bindings) bool {
	va, err := a.Eval(bind)
	if err != nil {
		return false
	}
	vb, err := b.Eval(bind)
	if err != nil {
		return false
	}
	switch {
	case va == vb:
		return true
	case math.IsNaN(va) || math.IsNaN(vb):
		return math.IsNaN(va) && math.IsNaN(vb)
	}
	return math.Abs(va-vb) <= Tolerance
}

func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, n := range list {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}
