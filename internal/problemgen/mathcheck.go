package problemgen

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/mathexpr"
)

// MathCheckValidator checks that the answer can actually be graded: input
// answers must parse, choice answers must index an option and table
// answers must fill every row of the original table.
type MathCheckValidator struct{}

func (v *MathCheckValidator) Name() string { return "math-check" }

func (v *MathCheckValidator) Validate(d *Draft, input Input) *ValidationError {
	ans := plainAnswer(d.CorrectAnswer)
	switch input.Type() {
	case content.TypeInput:
		if _, err := mathexpr.Parse(ans); err != nil {
			return v.fail("answer %q does not parse: %v", ans, err)
		}
	case content.TypeMultipleChoice:
		i, err := strconv.Atoi(ans)
		if err != nil {
			return v.fail("answer %q is not an option index", ans)
		}
		if i < 0 || i >= len(d.Options) {
			return v.fail("answer index %d out of range for %d options", i, len(d.Options))
		}
	case content.TypeTableCompletion:
		var m map[string]float64
		if err := json.Unmarshal([]byte(ans), &m); err != nil {
			return v.fail("table answer is not a JSON object of numbers: %v", err)
		}
		if len(m) == 0 {
			return v.fail("table answer is empty")
		}
		if base, ok := baseTable(input); ok {
			for _, k := range base.Keys() {
				if _, ok := m[k]; !ok {
					return v.fail("table answer missing x = %s", k)
				}
			}
		}
	}
	return nil
}

func (v *MathCheckValidator) fail(format string, args ...any) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...), Retryable: true}
}

func baseTable(input Input) (*content.TableAnswer, bool) {
	if input.Base == nil {
		return nil, false
	}
	t, ok := input.Base.Answer.(*content.TableAnswer)
	return t, ok
}

func parses(s string) bool {
	_, err := mathexpr.Parse(s)
	return err == nil
}
