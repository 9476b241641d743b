package graphcheck

import (
	"math"
	"strings"

	"github.com/abhisek/mathpath/internal/mathexpr"
)

// Tolerance is the largest |LHS-RHS| accepted for a point on the line.
const Tolerance = 1e-3

// MinPoints is the fewest points that can define a line.
const MinPoints = 2

// Validate reports whether every point satisfies equation ("LHS=RHS" in x and
// y) and every required point was plotted. It never fails: a malformed
// equation or an evaluation error means the point is not on the line.
func Validate(points []Point, equation string, required []Point) bool {
	pts := dedupe(points)
	if len(pts) < MinPoints {
		return false
	}

	parts := strings.Split(strings.ToLower(equation), "=")
	if len(parts) != 2 {
		return false
	}
	lhs, err := mathexpr.Parse(parts[0])
	if err != nil {
		return false
	}
	rhs, err := mathexpr.Parse(parts[1])
	if err != nil {
		return false
	}

	for p := range pts {
		if !OnLine(lhs, rhs, p) {
			return false
		}
	}
	for _, r := range required {
		if _, ok := pts[r]; !ok {
			return false
		}
	}
	return true
}

// OnLine reports whether p satisfies lhs = rhs within Tolerance.
func OnLine(lhs, rhs *mathexpr.Expr, p Point) bool {
	bind := mathexpr.Bindings{"x": float64(p.X), "y": float64(p.Y)}
	l, err := lhs.Eval(bind)
	if err != nil {
		return false
	}
	r, err := rhs.Eval(bind)
	if err != nil {
		return false
	}
	return math.Abs(l-r) < Tolerance
}

func dedupe(points []Point) map[Point]struct{} {
	set := make(map[Point]struct{}, len(points))
	for _, p := range points {
		set[p] = struct{}{}
	}
	return set
}
