package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Provider is the core abstraction for LLM interaction.
type Provider interface {
	// Generate sends a prompt to the LLM. With a Schema the reply is the
	// validated JSON object; without one it is plain text (see Response.Text).
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation history. Generation, diagnosis and
	// explanations send one user message; tutor chat sends the thread.
	Messages []Message

	// Schema selects a structured reply. Nil means a plain text reply,
	// which is what illustrations and tutor chat use.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Structured reports whether the request expects a JSON reply.
func (r Request) Structured() bool { return r.Schema != nil }

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies the schema in provider requests and the compiled
	// schema cache. Kebab-case, e.g. "problem-variation".
	Name string

	// Description tells the model what the object represents.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
	StopRefusal   = "refusal"
)

// Response holds the LLM's output.
type Response struct {
	// Content is the validated JSON object for structured requests and a
	// JSON string literal holding the reply for plain text requests.
	Content json.RawMessage

	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is one of StopEnd, StopMaxTokens or StopRefusal.
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Text returns a plain text reply. Content that is not a JSON string
// literal is returned as is.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Content, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(r.Content))
}

// textContent encodes a plain reply as a JSON string literal so the request
// log stores valid JSON for every call.
func textContent(s string) json.RawMessage {
	b, _ := json.Marshal(strings.TrimSpace(s))
	return b
}

// finish turns the raw reply text of a provider into a Response. Plain text
// replies are kept even when truncated, since a cut-off chat answer is
// still useful. Structured replies must be complete and match the schema.
func finish(req Request, raw string, resp Response) (*Response, error) {
	if resp.StopReason == StopRefusal {
		return nil, &ErrInvalidResponse{
			Schema:  schemaName(req.Schema),
			Content: textContent(raw),
			Err:     errors.New("model declined to answer"),
		}
	}
	if !req.Structured() {
		if strings.TrimSpace(raw) == "" {
			return nil, &ErrInvalidResponse{Err: errors.New("empty reply")}
		}
		resp.Content = textContent(raw)
		return &resp, nil
	}

	content := json.RawMessage(stripFences(raw))
	if resp.StopReason == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Schema: req.Schema.Name, Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	resp.Content = content
	return &resp, nil
}

func schemaName(s *Schema) string {
	if s == nil {
		return ""
	}
	return s.Name
}
