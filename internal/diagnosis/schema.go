package diagnosis

import (
	"strings"
	"sync"

	"github.com/abhisek/mathpath/internal/llm"
)

// DiagnosisSchema is the reply shape for an error diagnosis. SchemaFor
// narrows misconception_id to a lesson's candidates.
var DiagnosisSchema = &llm.Schema{
	Name:        "error-diagnosis",
	Description: "Classification of a wrong answer against the algebra misconception taxonomy",
	Definition:  diagnosisDefinition(nil),
}

var lessonSchemas sync.Map // lesson id -> *llm.Schema

// SchemaFor returns the diagnosis schema for a lesson, with misconception_id
// restricted to the candidate ids or null. Schemas are cached per lesson, so
// callers pass the same candidates for a lesson every time.
func SchemaFor(lessonID string, candidates []*Misconception) *llm.Schema {
	if lessonID == "" || len(candidates) == 0 {
		return DiagnosisSchema
	}
	if s, ok := lessonSchemas.Load(lessonID); ok {
		return s.(*llm.Schema)
	}
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}
	s := &llm.Schema{
		Name:        "error-diagnosis-" + strings.ReplaceAll(lessonID, ".", "-"),
		Description: DiagnosisSchema.Description,
		Definition:  diagnosisDefinition(ids),
	}
	actual, _ := lessonSchemas.LoadOrStore(lessonID, s)
	return actual.(*llm.Schema)
}

func diagnosisDefinition(ids []string) map[string]any {
	id := map[string]any{
		"type":        []any{"string", "null"},
		"description": "The ID of the matching misconception from the candidate list, or null if no match",
	}
	if len(ids) > 0 {
		enum := make([]any, 0, len(ids)+1)
		for _, s := range ids {
			enum = append(enum, s)
		}
		id["enum"] = append(enum, nil)
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"misconception_id": id,
			"confidence": map[string]any{
				"type":        "number",
				"minimum":     0.0,
				"maximum":     1.0,
				"description": "How well the error matches the misconception, from 0 to 1",
			},
			"reasoning": map[string]any{
				"type":        "string",
				"description": "One sentence on why this misconception was identified, or why none was",
			},
		},
		"required":             []any{"misconception_id", "confidence", "reasoning"},
		"additionalProperties": false,
	}
}
