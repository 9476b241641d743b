package session

import (
	"time"

	"github.com/abhisek/mathpath/internal/content"
)

// Summary holds the data displayed on the completion screen.
type Summary struct {
	LessonID     string
	Diagnostic   bool
	Total        int
	Answered     int
	Correct      int
	Accuracy     float64
	PointsEarned int
	Streak       int
	Points       int // learner total
	Path         content.Difficulty
	Duration     time.Duration
}

// Summary describes the current attempt, or returns ErrNoActiveSession.
func (e *Engine) Summary() (*Summary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.session
	if s == nil {
		return nil, ErrNoActiveSession
	}

	var accuracy float64
	if s.Answered > 0 {
		accuracy = float64(s.Correct) / float64(s.Answered)
	}
	return &Summary{
		LessonID:     s.LessonID,
		Diagnostic:   s.IsDiagnostic(),
		Total:        len(s.Problems),
		Answered:     s.Answered,
		Correct:      s.Correct,
		Accuracy:     accuracy,
		PointsEarned: s.PointsEarned,
		Streak:       e.learner.Streak,
		Points:       e.learner.Points,
		Path:         e.learner.Path,
		Duration:     e.now().Sub(s.StartedAt),
	}, nil
}
