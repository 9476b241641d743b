package diagnosis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/abhisek/mathpath/internal/llm"
)

// DiagnoserConfig holds configuration for the LLM diagnoser.
type DiagnoserConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultDiagnoserConfig returns sensible defaults.
func DefaultDiagnoserConfig() DiagnoserConfig {
	return DiagnoserConfig{
		MaxTokens:   256,
		Temperature: 0.3,
	}
}

// Diagnoser performs LLM-based misconception identification.
type Diagnoser struct {
	provider llm.Provider
	cfg      DiagnoserConfig
}

// NewDiagnoser creates an LLM-based diagnoser.
func NewDiagnoser(provider llm.Provider, cfg DiagnoserConfig) *Diagnoser {
	return &Diagnoser{provider: provider, cfg: cfg}
}

// DiagnosisRequest is the input for LLM misconception identification.
type DiagnosisRequest struct {
	LessonID      string
	Topic         string
	QuestionText  string
	CorrectAnswer string
	LearnerAnswer string
	ProblemType   string
	Candidates    []*Misconception
}

// diagnosisOutput is the raw LLM response.
type diagnosisOutput struct {
	MisconceptionID *string `json:"misconception_id"`
	Confidence      float64 `json:"confidence"`
	Reasoning       string  `json:"reasoning"`
}

// Diagnose asks the provider which candidate misconception, if any,
// explains a wrong answer. An id outside the candidates reads as no match.
func (d *Diagnoser) Diagnose(ctx context.Context, req *DiagnosisRequest) (*DiagnosisResult, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeDiagnosis)

	userMsg, err := buildDiagnosisMessage(req)
	if err != nil {
		return nil, fmt.Errorf("build diagnosis prompt: %w", err)
	}

	resp, err := d.provider.Generate(ctx, llm.Request{
		System:      diagnosisSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: userMsg}},
		Schema:      SchemaFor(req.LessonID, req.Candidates),
		MaxTokens:   d.cfg.MaxTokens,
		Temperature: d.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("llm diagnosis: %w", err)
	}

	var raw diagnosisOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parse diagnosis response: %w", err)
	}

	result := &DiagnosisResult{
		Category:       CategoryUnclassified,
		Confidence:     raw.Confidence,
		ClassifierName: "llm",
		Reasoning:      raw.Reasoning,
	}
	if raw.MisconceptionID != nil && isCandidate(req.Candidates, *raw.MisconceptionID) {
		result.Category = CategoryMisconception
		result.MisconceptionID = *raw.MisconceptionID
	}
	return result, nil
}

func isCandidate(candidates []*Misconception, id string) bool {
	for _, c := range candidates {
		if c.ID == id {
			return true
		}
	}
	return false
}

const diagnosisSystemPrompt = `You are an expert algebra teacher for 13-15 year olds. A learner answered a linear functions question incorrectly. Your job is to determine if their error matches a known misconception pattern.

Instructions:
- If the learner's error clearly matches one of the listed misconceptions, return its ID.
- If the error does not match any listed misconception, return null for misconception_id.
- Do NOT invent new misconception IDs. Only use IDs from the list provided.
- Provide a confidence score (0.0–1.0) reflecting how well the error matches.
- Keep reasoning to one sentence.`

var diagnosisUserTemplate = template.Must(template.New("diagnosis").Parse(`Topic: {{.Topic}}
Question: {{.QuestionText}}
Correct answer: {{.CorrectAnswer}}
Learner's answer: {{.LearnerAnswer}}
Problem type: {{.ProblemType}}

Known misconceptions for this topic:
{{range .Candidates}}- {{.ID}}: {{.Description}}
{{end}}`))

func buildDiagnosisMessage(req *DiagnosisRequest) (string, error) {
	var buf bytes.Buffer
	if err := diagnosisUserTemplate.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}
