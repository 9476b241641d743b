package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/mathpath/internal/graphcheck"
)

// ValidateProblem performs structural checks on a single problem.
func ValidateProblem(p *Problem) error {
	var errs []string
	if strings.TrimSpace(p.ID) == "" {
		errs = append(errs, "missing id")
	}
	if strings.TrimSpace(p.LessonID) == "" {
		errs = append(errs, "missing lesson id")
	}
	if !p.Difficulty.Valid() {
		errs = append(errs, fmt.Sprintf("invalid difficulty %q", p.Difficulty))
	}
	if p.Question.Get(DefaultLanguage) == "" {
		errs = append(errs, "missing question text")
	}
	switch a := p.Answer.(type) {
	case nil:
		errs = append(errs, "missing answer")
	case *ExpressionAnswer:
		if strings.TrimSpace(a.Expr) == "" {
			errs = append(errs, "empty expression answer")
		}
	case *ChoiceAnswer:
		if len(p.Options) < 2 {
			errs = append(errs, "multiple choice needs at least 2 options")
		}
		if a.Index < 0 || a.Index >= len(p.Options) {
			errs = append(errs, fmt.Sprintf("choice index %d out of range", a.Index))
		}
	case *TableAnswer:
		if len(a.Values) == 0 {
			errs = append(errs, "empty table answer")
		}
	case *GraphAnswer:
		for _, pt := range a.Required {
			if !pt.InRange() {
				errs = append(errs, fmt.Sprintf("required point %v outside ±%d", pt, graphcheck.AxisRange))
			}
		}
		if a.Equation != "" && strings.Count(a.Equation, "=") != 1 {
			errs = append(errs, fmt.Sprintf("graph equation %q must have one '='", a.Equation))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("problem %q: %s", p.ID, strings.Join(errs, "; "))
	}
	return nil
}

// ValidateProblems checks every problem and that ids are unique.
// Returns a combined error describing all problems found, or nil if valid.
func ValidateProblems(ps []*Problem) error {
	var errs []error
	ids := make(map[string]bool, len(ps))
	for _, p := range ps {
		if err := ValidateProblem(p); err != nil {
			errs = append(errs, err)
		}
		if ids[p.ID] {
			errs = append(errs, fmt.Errorf("duplicate problem id %q", p.ID))
		}
		ids[p.ID] = true
	}
	return errors.Join(errs...)
}
