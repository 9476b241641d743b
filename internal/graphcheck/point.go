// Package graphcheck validates learner-plotted lattice points against a
// target line.
package graphcheck

import (
	"fmt"
	"sort"
)

// AxisRange bounds both axes of the plotting grid to [-AxisRange, AxisRange].
const AxisRange = 10

// Point is an integer lattice point.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }

// InRange reports whether p lies on the plotting grid.
func (p Point) InRange() bool {
	return p.X >= -AxisRange && p.X <= AxisRange && p.Y >= -AxisRange && p.Y <= AxisRange
}

// PointSet is the learner's current set of plotted points. The zero value is
// an empty set ready to use.
type PointSet struct {
	pts map[Point]struct{}
}

// NewPointSet builds a set from pts, dropping duplicates and off-grid points.
func NewPointSet(pts ...Point) *PointSet {
	s := &PointSet{}
	for _, p := range pts {
		s.Add(p)
	}
	return s
}

// Add inserts p if it is on the grid. It reports whether the set changed.
func (s *PointSet) Add(p Point) bool {
	if !p.InRange() {
		return false
	}
	if s.pts == nil {
		s.pts = make(map[Point]struct{})
	}
	if _, ok := s.pts[p]; ok {
		return false
	}
	s.pts[p] = struct{}{}
	return true
}

// Toggle removes p if present, otherwise adds it. It reports whether p is in
// the set afterwards.
func (s *PointSet) Toggle(p Point) bool {
	if s.Contains(p) {
		delete(s.pts, p)
		return false
	}
	return s.Add(p)
}

// Contains reports whether p is in the set.
func (s *PointSet) Contains(p Point) bool {
	_, ok := s.pts[p]
	return ok
}

// Len returns the number of points.
func (s *PointSet) Len() int { return len(s.pts) }

// Clear empties the set.
func (s *PointSet) Clear() { s.pts = nil }

// Points returns the points ordered by x, then y.
func (s *PointSet) Points() []Point {
	out := make([]Point, 0, len(s.pts))
	for p := range s.pts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}
