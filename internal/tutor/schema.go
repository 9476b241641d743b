package tutor

import "github.com/abhisek/mathpath/internal/llm"

// ConversationSummarySchema defines the JSON schema for chat compression.
var ConversationSummarySchema = &llm.Schema{
	Name:        "conversation-summary",
	Description: "A compact summary of a tutoring conversation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "What the student asked, what was explained, and where they are still stuck (2-4 sentences)",
			},
		},
		"required":             []any{"summary"},
		"additionalProperties": false,
	},
}
