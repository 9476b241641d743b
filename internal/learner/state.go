// Package learner holds the per-learner progress record: points, streak,
// difficulty path, answer history and completed lessons.
package learner

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mathpath/internal/content"
)

// HistoryEntry is one graded answer.
type HistoryEntry struct {
	ProblemID string    `json:"problem_id"`
	LessonID  string    `json:"lesson_id,omitempty"`
	Correct   bool      `json:"correct"`
	Timestamp time.Time `json:"timestamp"`
}

// Equipped is the learner's chosen cosmetics.
type Equipped struct {
	Avatar    string `json:"avatar"`
	Accessory string `json:"accessory,omitempty"`
	Theme     string `json:"theme"`
}

// State is everything persisted about a learner. It is owned by one session
// at a time; mutate it only through its methods.
type State struct {
	UserID   string           `json:"user_id"`
	Name     string           `json:"name"`
	Language content.Language `json:"language"`

	// Points is the cumulative mastery score. Never negative.
	Points int `json:"mastery_points"`

	// Streak counts consecutive correct answers; any wrong answer resets it.
	Streak int `json:"streak"`

	// Path governs which problem difficulties are offered after the
	// diagnostic lesson.
	Path content.Difficulty `json:"path"`

	CurrentLessonID     string `json:"current_lesson_id,omitempty"`
	CurrentProblemIndex int    `json:"current_problem_index"`

	// History is append-only.
	History          []HistoryEntry `json:"history"`
	CompletedLessons []string       `json:"completed_lessons"`

	Inventory []string `json:"inventory"`
	Equipped  Equipped `json:"equipped"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserID returns a fresh id of the form user_xxxxxxxxx.
func NewUserID() string {
	return "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

// New returns the starting state for a newly registered learner.
func New(name string, lang content.Language) *State {
	return &State{
		UserID:           NewUserID(),
		Name:             strings.TrimSpace(name),
		Language:         lang,
		Path:             content.Focus,
		CurrentLessonID:  content.DiagnosticLessonID,
		History:          []HistoryEntry{},
		CompletedLessons: []string{},
		Inventory:        DefaultInventory(),
		Equipped:         DefaultEquipped(),
	}
}

// Clone returns a deep copy, safe to hand to another goroutine.
func (s *State) Clone() *State {
	c := *s
	c.History = slices.Clone(s.History)
	c.CompletedLessons = slices.Clone(s.CompletedLessons)
	c.Inventory = slices.Clone(s.Inventory)
	return &c
}

// Normalize fills defaults for fields missing from older records.
func (s *State) Normalize() {
	if s.Language == "" {
		s.Language = content.DefaultLanguage
	}
	if !s.Path.Valid() {
		s.Path = content.Focus
	}
	if s.History == nil {
		s.History = []HistoryEntry{}
	}
	if s.CompletedLessons == nil {
		s.CompletedLessons = []string{}
	}
	if len(s.Inventory) == 0 {
		s.Inventory = DefaultInventory()
	}
	if s.Equipped.Avatar == "" {
		s.Equipped.Avatar = DefaultEquipped().Avatar
	}
	if s.Equipped.Theme == "" {
		s.Equipped.Theme = DefaultEquipped().Theme
	}
	if s.Points < 0 {
		s.Points = 0
	}
}

// AddPoints adds n (n >= 0) to the score.
func (s *State) AddPoints(n int) {
	if n > 0 {
		s.Points += n
	}
}

// IncrementStreak extends the streak by one.
func (s *State) IncrementStreak() { s.Streak++ }

// ResetStreak sets the streak to zero.
func (s *State) ResetStreak() { s.Streak = 0 }

// Record appends a graded answer to the history.
func (s *State) Record(problemID, lessonID string, correct bool, at time.Time) {
	s.History = append(s.History, HistoryEntry{
		ProblemID: problemID,
		LessonID:  lessonID,
		Correct:   correct,
		Timestamp: at,
	})
}

// HasCompleted reports whether lessonID is in the completed set.
func (s *State) HasCompleted(lessonID string) bool {
	return slices.Contains(s.CompletedLessons, lessonID)
}

// CompleteLesson marks lessonID completed. It reports whether the set changed.
func (s *State) CompleteLesson(lessonID string) bool {
	if s.HasCompleted(lessonID) {
		return false
	}
	s.CompletedLessons = append(s.CompletedLessons, lessonID)
	return true
}

// SetPath assigns the difficulty path.
func (s *State) SetPath(p content.Difficulty) { s.Path = p }

// AnsweredCorrectly reports whether any history entry for problemID is correct.
func (s *State) AnsweredCorrectly(problemID string) bool {
	for _, h := range s.History {
		if h.ProblemID == problemID && h.Correct {
			return true
		}
	}
	return false
}

// Accuracy returns the fraction of correct history entries, or 0 when empty.
func (s *State) Accuracy() float64 {
	if len(s.History) == 0 {
		return 0
	}
	correct := 0
	for _, h := range s.History {
		if h.Correct {
			correct++
		}
	}
	return float64(correct) / float64(len(s.History))
}

// RecentHistory returns up to n most recent entries, oldest first.
func (s *State) RecentHistory(n int) []HistoryEntry {
	if n <= 0 || len(s.History) <= n {
		return slices.Clone(s.History)
	}
	return slices.Clone(s.History[len(s.History)-n:])
}
