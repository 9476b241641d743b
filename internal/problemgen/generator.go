// Package problemgen asks an LLM for new problems: variations of a problem
// the learner is stuck on, challenge ("boss") problems built from recent
// history, and SVG illustrations.
package problemgen

import (
	"context"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/learner"
)

// Generator produces content using an LLM provider. Every method returns a
// non-nil error and no result when the model output is unusable.
type Generator interface {
	// Variation returns a new problem with the same type, lesson and
	// difficulty as p but different numbers and wording.
	Variation(ctx context.Context, p *content.Problem, lang content.Language) (*content.Problem, error)

	// Challenge returns a single hard input problem for the master lesson,
	// informed by the learner's recent answers.
	Challenge(ctx context.Context, history []learner.HistoryEntry, lang content.Language) (*content.Problem, error)

	// Illustration returns SVG markup for a description.
	Illustration(ctx context.Context, description string) (string, error)
}
