package session

import (
	"math/rand/v2"

	"github.com/abhisek/mathpath/internal/content"
)

// Placement thresholds on the diagnostic score.
const (
	ChallengeThreshold = 0.8
	PracticeThreshold  = 0.5
)

// PathForScore maps the fraction of diagnostic problems solved to a path.
func PathForScore(score float64) content.Difficulty {
	switch {
	case score >= ChallengeThreshold:
		return content.Challenge
	case score >= PracticeThreshold:
		return content.Practice
	default:
		return content.Focus
	}
}

// AllowedOnPath reports whether a problem of difficulty d is offered to a
// learner on path. Focus excludes Challenge problems, Practice takes Focus
// and Practice problems, Challenge takes everything.
func AllowedOnPath(d, path content.Difficulty) bool {
	switch path {
	case content.Focus:
		return d != content.Challenge
	case content.Practice:
		return d == content.Focus || d == content.Practice
	default:
		return true
	}
}

// FilterByPath keeps the problems allowed on path, in order.
func FilterByPath(ps []*content.Problem, path content.Difficulty) []*content.Problem {
	out := make([]*content.Problem, 0, len(ps))
	for _, p := range ps {
		if AllowedOnPath(p.Difficulty, path) {
			out = append(out, p)
		}
	}
	return out
}

// Shuffle returns a uniformly random permutation of ps (Fisher-Yates).
// ps itself is not modified.
func Shuffle(r *rand.Rand, ps []*content.Problem) []*content.Problem {
	out := make([]*content.Problem, len(ps))
	copy(out, ps)
	for i := len(out) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Scoring constants.
const (
	BasePoints          = 10
	ChallengeBasePoints = 20
	SmallStreakBonus    = 5  // streak of SmallStreak or more
	LargeStreakBonus    = 10 // streak of LargeStreak or more
	SmallStreak         = 3
	LargeStreak         = 5
)

// Award is the points for a correct answer given the learner's path and the
// streak before this answer.
func Award(path content.Difficulty, streak int) int {
	pts := BasePoints
	if path == content.Challenge {
		pts = ChallengeBasePoints
	}
	switch {
	case streak >= LargeStreak:
		pts += LargeStreakBonus
	case streak >= SmallStreak:
		pts += SmallStreakBonus
	}
	return pts
}
