package content

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/abhisek/mathpath/internal/graphcheck"
)

// ProblemType is the kind of answer a problem expects.
type ProblemType string

const (
	TypeMultipleChoice  ProblemType = "multiple_choice"
	TypeInput           ProblemType = "input"
	TypeGraphing        ProblemType = "graphing"
	TypeTableCompletion ProblemType = "table_completion"
)

// Difficulty tags a problem, and doubles as a learner's path.
type Difficulty string

const (
	Focus     Difficulty = "Focus"
	Practice  Difficulty = "Practice"
	Challenge Difficulty = "Challenge"
)

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	return d == Focus || d == Practice || d == Challenge
}

// Answer is the correct answer of a problem. The concrete type determines the
// problem type: *ExpressionAnswer, *ChoiceAnswer, *TableAnswer, *GraphAnswer.
type Answer interface {
	Type() ProblemType
	isAnswer()
}

// ExpressionAnswer is an algebraic expression or number typed by the learner.
type ExpressionAnswer struct {
	Expr string
}

// ChoiceAnswer is the zero-based index of the correct option.
type ChoiceAnswer struct {
	Index int
}

// TableAnswer maps x-value labels to expected y values.
type TableAnswer struct {
	Values map[string]float64
}

// GraphAnswer is a target line plus lattice points that must be plotted.
type GraphAnswer struct {
	Equation string
	Required []graphcheck.Point
}

func (*ExpressionAnswer) Type() ProblemType { return TypeInput }
func (*ChoiceAnswer) Type() ProblemType     { return TypeMultipleChoice }
func (*TableAnswer) Type() ProblemType      { return TypeTableCompletion }
func (*GraphAnswer) Type() ProblemType      { return TypeGraphing }

func (*ExpressionAnswer) isAnswer() {}
func (*ChoiceAnswer) isAnswer()     {}
func (*TableAnswer) isAnswer()      {}
func (*GraphAnswer) isAnswer()      {}

// Keys returns the table's x labels in numeric order.
func (a *TableAnswer) Keys() []string {
	keys := make([]string, 0, len(a.Values))
	for k := range a.Values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		fi, ei := strconv.ParseFloat(keys[i], 64)
		fj, ej := strconv.ParseFloat(keys[j], 64)
		if ei == nil && ej == nil {
			return fi < fj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// TutorContent is the scripted help attached to a problem.
type TutorContent struct {
	Hint        Text `json:"hint"`
	Explanation Text `json:"explanation"`
}

// Problem is a single exercise. Problems are immutable once built; a
// variation is a new Problem.
type Problem struct {
	ID           string
	LessonID     string
	Difficulty   Difficulty
	Question     Text
	Options      []Text // multiple choice only
	Answer       Answer
	Tutor        TutorContent
	Illustration string // description for generated artwork, optional
}

// Type returns the problem type implied by the answer.
func (p *Problem) Type() ProblemType {
	if p.Answer == nil {
		return ""
	}
	return p.Answer.Type()
}

// CorrectAnswerText renders the correct answer for display.
func (p *Problem) CorrectAnswerText(l Language) string {
	switch a := p.Answer.(type) {
	case *ExpressionAnswer:
		return a.Expr
	case *ChoiceAnswer:
		if a.Index >= 0 && a.Index < len(p.Options) {
			return p.Options[a.Index].Get(l)
		}
		return strconv.Itoa(a.Index)
	case *TableAnswer:
		s := ""
		for i, k := range a.Keys() {
			if i > 0 {
				s += ", "
			}
			s += k + " → " + strconv.FormatFloat(a.Values[k], 'f', -1, 64)
		}
		return s
	case *GraphAnswer:
		return a.Equation
	}
	return ""
}

// Clone returns a deep copy of p.
func (p *Problem) Clone() *Problem {
	data, err := json.Marshal(p)
	if err != nil {
		panic(fmt.Sprintf("clone problem %s: %v", p.ID, err))
	}
	var c Problem
	if err := json.Unmarshal(data, &c); err != nil {
		panic(fmt.Sprintf("clone problem %s: %v", p.ID, err))
	}
	return &c
}

// problemJSON is the wire form. correct_answer's shape depends on type;
// graphing problems carry their answer in graph.
type problemJSON struct {
	ID            string          `json:"id"`
	LessonID      string          `json:"lesson_id"`
	Type          ProblemType     `json:"type"`
	Difficulty    Difficulty      `json:"difficulty"`
	Question      Text            `json:"question"`
	Options       []Text          `json:"options,omitempty"`
	CorrectAnswer json.RawMessage `json:"correct_answer,omitempty"`
	Graph         *graphJSON      `json:"graph,omitempty"`
	Tutor         TutorContent    `json:"tutor"`
	Illustration  string          `json:"illustration,omitempty"`
}

type graphJSON struct {
	Equation       string             `json:"equation"`
	RequiredPoints []graphcheck.Point `json:"required_points,omitempty"`
}

func (p Problem) MarshalJSON() ([]byte, error) {
	w := problemJSON{
		ID:           p.ID,
		LessonID:     p.LessonID,
		Type:         p.Type(),
		Difficulty:   p.Difficulty,
		Question:     p.Question,
		Options:      p.Options,
		Tutor:        p.Tutor,
		Illustration: p.Illustration,
	}
	var err error
	switch a := p.Answer.(type) {
	case *ExpressionAnswer:
		w.CorrectAnswer, err = json.Marshal(a.Expr)
	case *ChoiceAnswer:
		w.CorrectAnswer, err = json.Marshal(a.Index)
	case *TableAnswer:
		w.CorrectAnswer, err = json.Marshal(a.Values)
	case *GraphAnswer:
		w.Graph = &graphJSON{Equation: a.Equation, RequiredPoints: a.Required}
	default:
		return nil, fmt.Errorf("problem %s: no answer", p.ID)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

func (p *Problem) UnmarshalJSON(data []byte) error {
	var w problemJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	ans, err := decodeAnswer(w)
	if err != nil {
		return fmt.Errorf("problem %s: %w", w.ID, err)
	}
	*p = Problem{
		ID:           w.ID,
		LessonID:     w.LessonID,
		Difficulty:   w.Difficulty,
		Question:     w.Question,
		Options:      w.Options,
		Answer:       ans,
		Tutor:        w.Tutor,
		Illustration: w.Illustration,
	}
	return nil
}

func decodeAnswer(w problemJSON) (Answer, error) {
	switch w.Type {
	case TypeInput:
		var s string
		if err := json.Unmarshal(w.CorrectAnswer, &s); err != nil {
			// Numeric answers are accepted unquoted.
			var f float64
			if err2 := json.Unmarshal(w.CorrectAnswer, &f); err2 != nil {
				return nil, fmt.Errorf("input answer: %w", err)
			}
			s = strconv.FormatFloat(f, 'f', -1, 64)
		}
		return &ExpressionAnswer{Expr: s}, nil
	case TypeMultipleChoice:
		var i int
		if err := json.Unmarshal(w.CorrectAnswer, &i); err != nil {
			var s string
			if err2 := json.Unmarshal(w.CorrectAnswer, &s); err2 != nil {
				return nil, fmt.Errorf("choice answer: %w", err)
			}
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("choice answer: %w", err)
			}
			i = n
		}
		return &ChoiceAnswer{Index: i}, nil
	case TypeTableCompletion:
		var m map[string]float64
		if err := json.Unmarshal(w.CorrectAnswer, &m); err != nil {
			return nil, fmt.Errorf("table answer: %w", err)
		}
		return &TableAnswer{Values: m}, nil
	case TypeGraphing:
		if w.Graph == nil {
			// Graph problems without a target line accept any two points.
			return &GraphAnswer{}, nil
		}
		return &GraphAnswer{Equation: w.Graph.Equation, Required: w.Graph.RequiredPoints}, nil
	}
	return nil, fmt.Errorf("unknown problem type %q", w.Type)
}
