// Package report builds the class roster and leaderboard from stored
// learner records, and renders them as a PDF.
package report

import (
	"cmp"
	"slices"
	"time"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/learner"
)

// LeaderboardSize is how many learners the leaderboard shows.
const LeaderboardSize = 10

// Status is a coarse standing derived from the learner's path.
type Status string

const (
	StatusAdvanced Status = "Advanced"
	StatusOnTrack  Status = "On Track"
	StatusAtRisk   Status = "At Risk"
)

// StatusFor maps a path to a standing.
func StatusFor(path content.Difficulty) Status {
	switch path {
	case content.Challenge:
		return StatusAdvanced
	case content.Focus:
		return StatusAtRisk
	default:
		return StatusOnTrack
	}
}

// Mastery is points/10, capped at 100.
func Mastery(points int) int {
	return min(100, max(0, points/10))
}

// Row is one learner in the roster.
type Row struct {
	UserID     string
	Name       string
	Points     int
	Streak     int
	Path       content.Difficulty
	Mastery    int
	Status     Status
	Completed  int
	Answered   int
	Accuracy   float64
	LastActive time.Time
}

// NewRow summarizes st.
func NewRow(st *learner.State) Row {
	last := st.UpdatedAt
	if n := len(st.History); n > 0 && st.History[n-1].Timestamp.After(last) {
		last = st.History[n-1].Timestamp
	}
	return Row{
		UserID:     st.UserID,
		Name:       st.Name,
		Points:     st.Points,
		Streak:     st.Streak,
		Path:       st.Path,
		Mastery:    Mastery(st.Points),
		Status:     StatusFor(st.Path),
		Completed:  len(st.CompletedLessons),
		Answered:   len(st.History),
		Accuracy:   st.Accuracy(),
		LastActive: last,
	}
}

// Roster returns one row per learner, ordered by name.
func Roster(states []*learner.State) []Row {
	rows := make([]Row, 0, len(states))
	for _, st := range states {
		if st == nil {
			continue
		}
		rows = append(rows, NewRow(st))
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.UserID, b.UserID))
	})
	return rows
}

// Leaderboard returns at most LeaderboardSize rows by points, highest
// first. Ties are broken by name.
func Leaderboard(rows []Row) []Row {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b Row) int {
		return cmp.Or(cmp.Compare(b.Points, a.Points), cmp.Compare(a.Name, b.Name))
	})
	if len(out) > LeaderboardSize {
		out = out[:LeaderboardSize]
	}
	return out
}

// Totals aggregates the class.
type Totals struct {
	Learners    int
	Points      int
	AvgMastery  float64
	AvgAccuracy float64
	ByStatus    map[Status]int
}

// Summarize computes class totals over rows.
func Summarize(rows []Row) Totals {
	t := Totals{Learners: len(rows), ByStatus: make(map[Status]int)}
	if len(rows) == 0 {
		return t
	}
	var mastery, accuracy float64
	for _, r := range rows {
		t.Points += r.Points
		t.ByStatus[r.Status]++
		mastery += float64(r.Mastery)
		accuracy += r.Accuracy
	}
	t.AvgMastery = mastery / float64(len(rows))
	t.AvgAccuracy = accuracy / float64(len(rows))
	return t
}
