package problemgen

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/learner"
	"github.com/abhisek/mathpath/internal/llm"
)

// Kind names what is being generated. It is the metrics label.
type Kind string

const (
	KindVariation    Kind = "variation"
	KindChallenge    Kind = "challenge"
	KindIllustration Kind = "illustration"
)

// Purpose is the label LLM requests for this kind are logged under.
func (k Kind) Purpose() llm.Purpose {
	switch k {
	case KindVariation:
		return llm.PurposeVariation
	case KindChallenge:
		return llm.PurposeChallenge
	case KindIllustration:
		return llm.PurposeIllustration
	}
	return llm.PurposeUnknown
}

// Input is the context a draft was generated for.
type Input struct {
	Kind Kind

	// Base is the problem a variation must mirror. Nil for challenges.
	Base *content.Problem

	Language content.Language
	History  []learner.HistoryEntry
}

// Type returns the problem type the draft must have.
func (in Input) Type() content.ProblemType {
	if in.Kind == KindChallenge || in.Base == nil {
		return content.TypeInput
	}
	return in.Base.Type()
}

// Draft is the raw LLM output before validation.
type Draft struct {
	Type          string               `json:"type,omitempty"`
	Question      content.Text         `json:"question"`
	Options       []content.Text       `json:"options"`
	CorrectAnswer string               `json:"correct_answer"`
	Tutor         content.TutorContent `json:"tutor"`
}

// decodeDraft parses a response body. Surrounding prose or code fences are
// tolerated as long as one JSON object is present.
func decodeDraft(raw []byte) (*Draft, error) {
	var d Draft
	if err := json.Unmarshal(raw, &d); err == nil {
		return &d, nil
	}
	// Providers without native structured output may quote or fence it.
	s := string(raw)
	var quoted string
	if err := json.Unmarshal(raw, &quoted); err == nil {
		s = quoted
	}
	start, end := strings.Index(s, "{"), strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}
	if err := json.Unmarshal([]byte(s[start:end+1]), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// answer converts the draft's answer text into the typed answer for t.
func (d *Draft) answer(t content.ProblemType) (content.Answer, error) {
	ans := plainAnswer(d.CorrectAnswer)
	switch t {
	case content.TypeInput:
		return &content.ExpressionAnswer{Expr: ans}, nil
	case content.TypeMultipleChoice:
		i, err := strconv.Atoi(ans)
		if err != nil {
			return nil, fmt.Errorf("choice index %q: %w", ans, err)
		}
		return &content.ChoiceAnswer{Index: i}, nil
	case content.TypeTableCompletion:
		var m map[string]float64
		if err := json.Unmarshal([]byte(ans), &m); err != nil {
			return nil, fmt.Errorf("table answer: %w", err)
		}
		return &content.TableAnswer{Values: m}, nil
	case content.TypeGraphing:
		// Required points never carry over. Without a usable equation the
		// plot is only checked for its point count.
		if lhs, rhs, ok := strings.Cut(ans, "="); ok && parses(lhs) && parses(rhs) {
			return &content.GraphAnswer{Equation: ans}, nil
		}
		return &content.GraphAnswer{}, nil
	}
	return nil, fmt.Errorf("unsupported problem type %q", t)
}

// problem builds the final problem for input.
func (d *Draft) problem(input Input, now time.Time) (*content.Problem, error) {
	ans, err := d.answer(input.Type())
	if err != nil {
		return nil, err
	}
	p := &content.Problem{
		Question: d.Question,
		Answer:   ans,
		Tutor:    d.Tutor,
	}
	if input.Type() == content.TypeMultipleChoice {
		p.Options = d.Options
	}
	switch input.Kind {
	case KindVariation:
		p.ID = fmt.Sprintf("%s_var_%d", input.Base.ID, now.UnixMilli())
		p.LessonID = input.Base.LessonID
		p.Difficulty = input.Base.Difficulty
		p.Illustration = input.Base.Illustration
	case KindChallenge:
		p.ID = fmt.Sprintf("boss_%d", now.UnixMilli())
		p.LessonID = content.MasterLessonID
		p.Difficulty = content.Challenge
	}
	if err := content.ValidateProblem(p); err != nil {
		return nil, err
	}
	return p, nil
}

// plainAnswer trims whitespace and stray LaTeX math delimiters.
func plainAnswer(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "$"))
}
