package diagnosis

import "github.com/abhisek/mathpath/internal/content"

// LinearClassifier applies DiagnoseLinear to wrong answers of input
// problems.
type LinearClassifier struct{}

func (c *LinearClassifier) Name() string { return "linear" }

func (c *LinearClassifier) Classify(input *ClassifyInput) (ErrorCategory, float64) {
	d := linearFor(input)
	if d == nil {
		return "", 0
	}
	switch d.Kind {
	case SlopeError:
		return CategorySlope, 1.0
	case InterceptError:
		return CategoryIntercept, 1.0
	case SignError:
		return CategorySign, 0.9
	}
	return "", 0
}

func linearFor(input *ClassifyInput) *LinearDiagnosis {
	if input.Problem == nil {
		return nil
	}
	ans, ok := input.Problem.Answer.(*content.ExpressionAnswer)
	if !ok {
		return nil
	}
	return DiagnoseLinear(input.LearnerAnswer, ans.Expr)
}
