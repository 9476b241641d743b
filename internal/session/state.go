package session

import (
	"maps"
	"slices"
	"time"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/diagnosis"
	"github.com/abhisek/mathpath/internal/graphcheck"
)

// Phase is where a lesson attempt is in its lifecycle.
type Phase int

const (
	PhaseIdle       Phase = iota // No lesson started
	PhaseInProgress              // Cursor on a problem
	PhaseComplete                // Cursor past the last problem
)

func (p Phase) String() string {
	switch p {
	case PhaseInProgress:
		return "in-progress"
	case PhaseComplete:
		return "complete"
	default:
		return "idle"
	}
}

// Feedback is the grading verdict for the current problem.
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackCorrect
	FeedbackIncorrect
)

func (f Feedback) String() string {
	switch f {
	case FeedbackCorrect:
		return "correct"
	case FeedbackIncorrect:
		return "incorrect"
	default:
		return "none"
	}
}

// Input keys for SetInput. Table cells are keyed by their x label.
const (
	KeyMain   = "main" // typed answer of an input problem
	KeyChoice = "mc"   // zero-based option index of a multiple choice problem
)

// Input is the learner's answer buffer for the current problem.
type Input struct {
	Values map[string]string
	Points *graphcheck.PointSet
}

func newInput() Input {
	return Input{Values: make(map[string]string), Points: graphcheck.NewPointSet()}
}

// Session is one attempt at a lesson: a shuffled problem set and a cursor.
type Session struct {
	LessonID string
	Problems []*content.Problem
	Index    int
	Phase    Phase

	Input        Input
	Feedback     Feedback
	HasExplained bool

	// Diagnosis explains the last wrong answer, when one could be found.
	Diagnosis *diagnosis.DiagnosisResult

	// Per-attempt tallies, reset by ContinuePractice.
	Answered     int
	Correct      int
	PointsEarned int

	StartedAt time.Time
	shownAt   time.Time
}

// Current returns the problem under the cursor, or nil once complete.
func (s *Session) Current() *content.Problem {
	if s == nil || s.Phase != PhaseInProgress || s.Index >= len(s.Problems) {
		return nil
	}
	return s.Problems[s.Index]
}

// IsDiagnostic reports whether this attempt places the learner on a path.
func (s *Session) IsDiagnostic() bool {
	return s.LessonID == content.DiagnosticLessonID
}

// resetProblem clears the per-problem state.
func (s *Session) resetProblem(now time.Time) {
	s.Input = newInput()
	s.Feedback = FeedbackNone
	s.HasExplained = false
	s.Diagnosis = nil
	s.shownAt = now
}

// snapshot returns a copy that shares no mutable state with s.
func (s *Session) snapshot() *Session {
	c := *s
	c.Problems = slices.Clone(s.Problems)
	c.Input = Input{
		Values: maps.Clone(s.Input.Values),
		Points: graphcheck.NewPointSet(s.Input.Points.Points()...),
	}
	if s.Diagnosis != nil {
		d := *s.Diagnosis
		c.Diagnosis = &d
	}
	return &c
}
