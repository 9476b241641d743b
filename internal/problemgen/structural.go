package problemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathpath/internal/content"
)

// maxQuestionLen bounds each localized question, in bytes.
const maxQuestionLen = 1200

// StructuralValidator checks that every locale is present, the answer is
// non-empty, and the draft has the expected type.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(d *Draft, input Input) *ValidationError {
	if missing := missingLocales(d.Question); len(missing) > 0 {
		return v.fail("question missing locales %s", strings.Join(missing, ", "))
	}
	for l, q := range d.Question {
		if len(q) > maxQuestionLen {
			return v.fail("question (%s) exceeds %d characters", l, maxQuestionLen)
		}
	}
	if strings.TrimSpace(d.CorrectAnswer) == "" {
		return v.fail("correct_answer is empty")
	}
	if d.Tutor.Hint.Get(input.Language) == "" {
		return v.fail("hint is empty")
	}
	if d.Tutor.Explanation.Get(input.Language) == "" {
		return v.fail("explanation is empty")
	}
	if d.Type != "" && content.ProblemType(d.Type) != input.Type() {
		return v.fail("type %q, want %q", d.Type, input.Type())
	}
	if input.Type() == content.TypeMultipleChoice {
		if len(d.Options) < 2 {
			return v.fail("multiple choice needs at least 2 options, got %d", len(d.Options))
		}
		for i, o := range d.Options {
			if o.Get(input.Language) == "" {
				return v.fail("option %d is empty", i)
			}
		}
	}
	return nil
}

func (v *StructuralValidator) fail(format string, args ...any) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...), Retryable: true}
}

func missingLocales(t content.Text) []string {
	var missing []string
	for _, l := range content.Languages() {
		if strings.TrimSpace(t[l]) == "" {
			missing = append(missing, string(l))
		}
	}
	return missing
}
