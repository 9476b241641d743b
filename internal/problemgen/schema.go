package problemgen

import "github.com/abhisek/mathpath/internal/llm"

// localized is a schema object with one string per supported language.
func localized(description string) map[string]any {
	return map[string]any{
		"type":        "object",
		"description": description,
		"properties": map[string]any{
			"EN": map[string]any{"type": "string"},
			"MK": map[string]any{"type": "string"},
			"SQ": map[string]any{"type": "string"},
			"TR": map[string]any{"type": "string"},
		},
		"required":             []any{"EN", "MK", "SQ", "TR"},
		"additionalProperties": false,
	}
}

func problemProperties() map[string]any {
	return map[string]any{
		"question": localized("The problem statement in English, Macedonian, Albanian and Turkish. Math in $...$"),
		"options": map[string]any{
			"type":        "array",
			"items":       localized("One answer option"),
			"description": "Answer options for multiple choice problems. Empty array otherwise.",
		},
		"correct_answer": map[string]any{
			"type": "string",
			"description": "Input: the answer as plain text without $ delimiters. " +
				"Multiple choice: the zero-based index of the correct option. " +
				"Table: a JSON object mapping each x value to its y value. " +
				"Graphing: the line's equation, e.g. y=2x+1.",
		},
		"tutor": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"hint":        localized("A short nudge that does not give the answer away"),
				"explanation": localized("The worked solution, step by step"),
			},
			"required":             []any{"hint", "explanation"},
			"additionalProperties": false,
		},
	}
}

// VariationSchema defines the JSON schema for a problem variation.
var VariationSchema = &llm.Schema{
	Name:        "problem-variation",
	Description: "A new version of a math problem with different numbers and the same logic",
	Definition: map[string]any{
		"type":                 "object",
		"properties":           problemProperties(),
		"required":             []any{"question", "options", "correct_answer", "tutor"},
		"additionalProperties": false,
	},
}

// ChallengeSchema defines the JSON schema for a challenge problem.
var ChallengeSchema = &llm.Schema{
	Name:        "challenge-problem",
	Description: "A single hard free-response problem on linear functions",
	Definition: map[string]any{
		"type": "object",
		"properties": func() map[string]any {
			props := problemProperties()
			props["type"] = map[string]any{
				"type": "string",
				"enum": []any{"input"},
			}
			return props
		}(),
		"required":             []any{"type", "question", "options", "correct_answer", "tutor"},
		"additionalProperties": false,
	},
}
