package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed problems.json
var builtinJSON []byte

// builtin is the parsed built-in pool, loaded once at init.
var builtin []*Problem

func init() {
	ps, err := DecodeProblems(builtinJSON)
	if err != nil {
		panic(fmt.Sprintf("content: built-in problems: %v", err))
	}
	if err := ValidateProblems(ps); err != nil {
		panic(fmt.Sprintf("content: built-in problems: %v", err))
	}
	builtin = ps
}

// DecodeProblems parses a JSON array of problems.
func DecodeProblems(data []byte) ([]*Problem, error) {
	var ps []*Problem
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// Builtin returns copies of all built-in problems.
func Builtin() []*Problem {
	out := make([]*Problem, len(builtin))
	for i, p := range builtin {
		out[i] = p.Clone()
	}
	return out
}

// LessonProblems returns the built-in and custom problems belonging to
// lessonID, built-ins first. Custom problems with an id already used by a
// built-in are skipped.
func LessonProblems(lessonID string, custom []*Problem) []*Problem {
	var out []*Problem
	seen := make(map[string]bool)
	for _, src := range [][]*Problem{builtin, custom} {
		for _, p := range src {
			if p == nil || seen[p.ID] || !MatchesLesson(p.LessonID, lessonID) {
				continue
			}
			seen[p.ID] = true
			out = append(out, p)
		}
	}
	return out
}

// CountByLesson returns how many built-in and custom problems each catalog
// lesson has.
func CountByLesson(custom []*Problem) map[string]int {
	counts := make(map[string]int, len(catalog))
	for _, l := range catalog {
		counts[l.ID] = len(LessonProblems(l.ID, custom))
	}
	return counts
}
