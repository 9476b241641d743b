package session

import (
	"testing"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/graphcheck"
)

func inputWith(values map[string]string, pts ...graphcheck.Point) Input {
	in := newInput()
	for k, v := range values {
		in.Values[k] = v
	}
	for _, p := range pts {
		in.Points.Add(p)
	}
	return in
}

func TestCheck(t *testing.T) {
	expr := &content.Problem{Answer: &content.ExpressionAnswer{Expr: "h=5n+10"}}
	choice := &content.Problem{Answer: &content.ChoiceAnswer{Index: 2}}
	table := &content.Problem{Answer: &content.TableAnswer{Values: map[string]float64{"-1": 6, "0": 5, "1": 4.5}}}
	line := &content.Problem{Answer: &content.GraphAnswer{Equation: "y=5-x"}}
	free := &content.Problem{Answer: &content.GraphAnswer{}}

	tests := []struct {
		name string
		p    *content.Problem
		in   Input
		want bool
	}{
		{"expression equivalent", expr, inputWith(map[string]string{KeyMain: "h = 10 + 5n"}), true},
		{"expression wrong", expr, inputWith(map[string]string{KeyMain: "h=5n"}), false},
		{"expression empty", expr, inputWith(nil), false},
		{"expression undefined", expr, inputWith(map[string]string{KeyMain: "0/0"}), false},
		{"expression imaginary", expr, inputWith(map[string]string{KeyMain: "sqrt(-1)"}), false},
		{"choice match", choice, inputWith(map[string]string{KeyChoice: "2"}), true},
		{"choice other", choice, inputWith(map[string]string{KeyChoice: "1"}), false},
		{"choice junk", choice, inputWith(map[string]string{KeyChoice: "two"}), false},
		{"table exact", table, inputWith(map[string]string{"-1": "6", "0": "5", "1": "4.5"}), true},
		{"table decimal comma", table, inputWith(map[string]string{"-1": "6", "0": "5.0", "1": "4,5"}), true},
		{"table missing cell", table, inputWith(map[string]string{"-1": "6", "0": "5"}), false},
		{"table wrong cell", table, inputWith(map[string]string{"-1": "6", "0": "5", "1": "4.4"}), false},
		{"table expression cell", table, inputWith(map[string]string{"-1": "3*2", "0": "5", "1": "4.5"}), false},
		{"graph on line", line, inputWith(nil, graphcheck.Point{X: 0, Y: 5}, graphcheck.Point{X: 2, Y: 3}), true},
		{"graph one point", line, inputWith(nil, graphcheck.Point{X: 0, Y: 5}), false},
		{"graph off line", line, inputWith(nil, graphcheck.Point{X: 0, Y: 5}, graphcheck.Point{X: 1, Y: 1}), false},
		{"graph free two points", free, inputWith(nil, graphcheck.Point{X: 1, Y: 1}, graphcheck.Point{X: 2, Y: 7}), true},
		{"graph free one point", free, inputWith(nil, graphcheck.Point{X: 1, Y: 1}), false},
		{"no answer", &content.Problem{}, inputWith(map[string]string{KeyMain: "1"}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Check(tt.p, tt.in); got != tt.want {
				t.Errorf("Check = %v, want %v", got, tt.want)
			}
		})
	}
}
