package diagnosis

import "github.com/abhisek/mathpath/internal/content"

// Rules that judge how the learner answered rather than what they wrote.

// SpeedRushThresholdMs applies when the problem type is unknown.
const SpeedRushThresholdMs = 3000

// speedRushThresholds is the time below which a wrong answer counts as a
// rushed guess. Tapping an option is quicker than typing an equation or
// filling a table.
var speedRushThresholds = map[content.ProblemType]int{
	content.TypeMultipleChoice:  1500,
	content.TypeInput:           SpeedRushThresholdMs,
	content.TypeTableCompletion: 4000,
	content.TypeGraphing:        4000,
}

// SpeedRushThreshold returns the rushed-guess cutoff for p in milliseconds.
func SpeedRushThreshold(p *content.Problem) int {
	if p != nil {
		if ms, ok := speedRushThresholds[p.Type()]; ok {
			return ms
		}
	}
	return SpeedRushThresholdMs
}

// SpeedRushClassifier flags wrong answers submitted too quickly to have
// been worked out.
type SpeedRushClassifier struct{}

func (c *SpeedRushClassifier) Name() string { return "speed-rush" }

func (c *SpeedRushClassifier) Classify(input *ClassifyInput) (ErrorCategory, float64) {
	if input.ResponseTimeMs > 0 && input.ResponseTimeMs < SpeedRushThreshold(input.Problem) {
		return CategorySpeedRush, 0.9
	}
	return "", 0
}

const (
	// CarelessAccuracyThreshold is the history accuracy (exclusive) above
	// which a wrong answer reads as a slip.
	CarelessAccuracyThreshold = 0.80

	// CarelessMinAnswered is the history needed before accuracy counts.
	CarelessMinAnswered = 5
)

// CarelessClassifier flags wrong answers from learners who usually get
// these problems right.
type CarelessClassifier struct{}

func (c *CarelessClassifier) Name() string { return "careless" }

func (c *CarelessClassifier) Classify(input *ClassifyInput) (ErrorCategory, float64) {
	if input.Answered < CarelessMinAnswered || input.Accuracy <= CarelessAccuracyThreshold {
		return "", 0
	}
	// Confidence grows with the track record, capped below the linear rule.
	conf := 0.6 + 0.2*min(1, float64(input.Answered)/20)
	return CategoryCareless, conf
}
