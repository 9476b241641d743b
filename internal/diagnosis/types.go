package diagnosis

import "github.com/abhisek/mathpath/internal/content"

// ErrorCategory classifies a wrong answer.
type ErrorCategory string

const (
	CategorySlope         ErrorCategory = "slope"
	CategoryIntercept     ErrorCategory = "intercept"
	CategorySign          ErrorCategory = "sign"
	CategoryCareless      ErrorCategory = "careless"
	CategorySpeedRush     ErrorCategory = "speed-rush"
	CategoryMisconception ErrorCategory = "misconception"
	CategoryUnclassified  ErrorCategory = "unclassified"
)

// Linear reports whether c names a wrong part of a line.
func (c ErrorCategory) Linear() bool {
	return c == CategorySlope || c == CategoryIntercept || c == CategorySign
}

// ClassifyInput holds the context for classification.
type ClassifyInput struct {
	Problem        *content.Problem
	LearnerAnswer  string
	Language       content.Language
	ResponseTimeMs int
	Accuracy       float64 // Learner's overall accuracy (0.0–1.0)
	Answered       int     // Answers behind Accuracy
}

// DiagnosisResult is the output of classifying a wrong answer.
type DiagnosisResult struct {
	Category        ErrorCategory // slope, intercept, sign, careless, speed-rush, misconception, unclassified
	MisconceptionID string        // Non-empty only when Category == misconception
	Confidence      float64       // 0.0–1.0
	ClassifierName  string        // Which classifier/LLM produced this result
	Reasoning       string        // LLM reasoning (empty for rule-based)
	Feedback        string        // Localized message for the learner, may be empty
}
