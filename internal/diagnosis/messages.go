package diagnosis

import (
	"fmt"
	"math"
	"strconv"

	"github.com/abhisek/mathpath/internal/content"
)

type feedbackText struct {
	slopeWrong   string // learner value, expected value
	intWrong     string // learner value, expected value
	signError    string
	slopeCorrect string
	intCorrect   string
}

var feedback = map[content.Language]feedbackText{
	content.MK: {
		slopeWrong:   "Градиентот (m) ти е %s, но треба да е %s.",
		intWrong:     "Слободниот член (c) ти е %s, но треба да е %s.",
		signError:    "Провери ги предзнаците (+/-).",
		slopeCorrect: "Наклонот е супер! ✅",
		intCorrect:   "Отсечокот е точен! ✅",
	},
	content.SQ: {
		slopeWrong:   "Gradienti juaj (m) është %s, por duhet të jetë %s.",
		intWrong:     "Ndërprerja juaj (c) është %s, por duhet të jetë %s.",
		signError:    "Kontrolloni shenjat (+/-).",
		slopeCorrect: "Pjerrësia është e saktë! ✅",
		intCorrect:   "Ndërprerja është e saktë! ✅",
	},
	content.TR: {
		slopeWrong:   "Eğiminiz (m) %s, ancak %s olmalı.",
		intWrong:     "Kesişiminiz (c) %s, ancak %s olmalı.",
		signError:    "İşaretleri kontrol edin (+/-).",
		slopeCorrect: "Eğim doğru! ✅",
		intCorrect:   "Kesişim doğru! ✅",
	},
	content.EN: {
		slopeWrong:   "Your gradient (m) is %s, but should be %s.",
		intWrong:     "Your intercept (c) is %s, but should be %s.",
		signError:    "Check your signs (+/-).",
		slopeCorrect: "Slope is correct! ✅",
		intCorrect:   "Intercept is correct! ✅",
	},
}

func textFor(l content.Language) feedbackText {
	if t, ok := feedback[l]; ok {
		return t
	}
	return feedback[content.EN]
}

// Message renders the diagnosis in l. Unsupported languages use English.
func (d *LinearDiagnosis) Message(l content.Language) string {
	t := textFor(l)
	switch d.Kind {
	case InterceptError:
		return t.slopeCorrect + " " + fmt.Sprintf(t.intWrong, formatNumber(d.LearnerIntercept), formatNumber(d.CorrectIntercept))
	case SlopeError:
		return t.intCorrect + " " + fmt.Sprintf(t.slopeWrong, formatNumber(d.LearnerSlope), formatNumber(d.CorrectSlope))
	case SignError:
		return t.signError
	}
	return ""
}

// formatNumber prints v without float noise (0.1+0.2 prints as 0.3).
func formatNumber(v float64) string {
	v = math.Round(v*1e6) / 1e6
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
