package diagnosis

// Classifier is one rule applied to a wrong answer. Classify returns a
// category and a confidence in [0,1], or ("", 0) when the rule does not
// apply.
type Classifier interface {
	Name() string
	Classify(input *ClassifyInput) (ErrorCategory, float64)
}

// DefaultClassifiers returns the rules in priority order. The linear rule
// goes first because it names the wrong part of the line; the behavioral
// rules only guess at why the answer is wrong.
func DefaultClassifiers() []Classifier {
	return []Classifier{
		&LinearClassifier{},
		&SpeedRushClassifier{},
		&CarelessClassifier{},
	}
}

// RunClassifiers returns the verdict of the first rule that applies, or nil.
// Linear verdicts carry localized feedback for the learner.
func RunClassifiers(classifiers []Classifier, input *ClassifyInput) *DiagnosisResult {
	for _, c := range classifiers {
		cat, conf := c.Classify(input)
		if cat == "" {
			continue
		}
		r := &DiagnosisResult{Category: cat, Confidence: conf, ClassifierName: c.Name()}
		if cat.Linear() {
			if d := linearFor(input); d != nil {
				r.Feedback = d.Message(input.Language)
			}
		}
		return r
	}
	return nil
}
