package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

// hintSchema is a small stand-in for the localized tutor hint objects.
var hintSchema = &Schema{
	Name: "tutor-hint",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hint": map[string]any{"type": "string"},
		},
		"required":             []any{"hint"},
		"additionalProperties": false,
	},
}

func TestFinish_PlainText(t *testing.T) {
	req := Request{Messages: []Message{{Role: RoleUser, Content: "Draw a line through (0,3)"}}}
	svg := "  <svg viewBox=\"0 0 200 200\"><line x1=\"0\" y1=\"3\"/></svg>\n"

	resp, err := finish(req, svg, Response{Model: "m", StopReason: StopEnd})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resp.Text(); got != `<svg viewBox="0 0 200 200"><line x1="0" y1="3"/></svg>` {
		t.Errorf("Text() = %q", got)
	}
	if !json.Valid(resp.Content) {
		t.Errorf("content should be a JSON string, got %s", resp.Content)
	}
}

func TestFinish_TruncatedChatIsKept(t *testing.T) {
	resp, err := finish(Request{}, "Start from the intercept, then", Response{StopReason: StopMaxTokens})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "Start from the intercept, then" || resp.StopReason != StopMaxTokens {
		t.Errorf("got %q (%s)", resp.Text(), resp.StopReason)
	}
}

func TestFinish_EmptyText(t *testing.T) {
	_, err := finish(Request{}, "  \n", Response{StopReason: StopEnd})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestFinish_Structured(t *testing.T) {
	req := Request{Schema: hintSchema}
	tests := []struct {
		name    string
		raw     string
		stop    string
		wantErr any
		want    string
	}{
		{"valid", `{"hint":"Find the slope first."}`, StopEnd, nil, `{"hint":"Find the slope first."}`},
		{"fenced", "```json\n{\"hint\":\"Find the slope first.\"}\n```", StopEnd, nil, `{"hint":"Find the slope first."}`},
		{"truncated", `{"hint":"Find the sl`, StopMaxTokens, &ErrMaxTokensExceeded{}, ""},
		{"wrong shape", `{"tip":"x"}`, StopEnd, &ErrInvalidResponse{}, ""},
		{"refused", "I can't help with that.", StopRefusal, &ErrInvalidResponse{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := finish(req, tt.raw, Response{StopReason: tt.stop})
			switch want := tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if string(resp.Content) != tt.want {
					t.Errorf("content = %s, want %s", resp.Content, tt.want)
				}
			case *ErrMaxTokensExceeded:
				if !errors.As(err, &want) || want.Schema != "tutor-hint" {
					t.Fatalf("expected ErrMaxTokensExceeded for tutor-hint, got %v", err)
				}
			case *ErrInvalidResponse:
				if !errors.As(err, &want) || want.Schema != "tutor-hint" {
					t.Fatalf("expected ErrInvalidResponse for tutor-hint, got %v", err)
				}
			}
		})
	}
}

func TestMockProvider_ScriptAndRecord(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"hint":"Use two points."}`), Usage: Usage{InputTokens: 10, OutputTokens: 5}},
		MockResponse{Text: "The gradient is rise over run."},
		MockResponse{Err: &ErrRateLimit{}},
	)

	ctx := WithPurpose(context.Background(), PurposeChat)
	first, err := mock.Generate(WithPurpose(ctx, PurposeVariation), Request{Schema: hintSchema})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(first.Content) != `{"hint":"Use two points."}` || first.Usage.InputTokens != 10 {
		t.Errorf("first = %+v", first)
	}

	second, err := mock.Generate(ctx, Request{System: "tutor"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Text() != "The gradient is rise over run." {
		t.Errorf("second = %q", second.Text())
	}

	var rl *ErrRateLimit
	if _, err := mock.Generate(ctx, Request{}); !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %v", err)
	}
	var unavail *ErrProviderUnavailable
	if _, err := mock.Generate(ctx, Request{}); !errors.As(err, &unavail) {
		t.Fatalf("empty script should be unavailable, got %v", err)
	}

	if mock.CallCount() != 4 || mock.Calls[1].System != "tutor" {
		t.Errorf("calls = %+v", mock.Calls)
	}
	wantPurposes := []Purpose{PurposeVariation, PurposeChat, PurposeChat, PurposeChat}
	for i, p := range wantPurposes {
		if mock.Purposes[i] != p {
			t.Errorf("purpose[%d] = %q, want %q", i, mock.Purposes[i], p)
		}
	}
	if mock.ModelID() != "mock" {
		t.Errorf("ModelID = %q", mock.ModelID())
	}
}

func TestPurpose(t *testing.T) {
	if p := PurposeFrom(context.Background()); p != PurposeUnknown {
		t.Fatalf("expected unknown, got %q", p)
	}
	if p := PurposeFrom(WithPurpose(context.Background(), "")); p != PurposeUnknown {
		t.Fatalf("empty purpose should read as unknown, got %q", p)
	}

	plain := map[Purpose]bool{
		PurposeVariation:    false,
		PurposeChallenge:    false,
		PurposeIllustration: true,
		PurposeExplanation:  true,
		PurposeChat:         true,
		PurposeChatCompress: false,
		PurposeDiagnosis:    false,
	}
	for p, want := range plain {
		if p.PlainText() != want {
			t.Errorf("%s.PlainText() = %v, want %v", p, p.PlainText(), want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}}, false},
		{"openai without key", Config{Provider: "openai"}, true},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}}, false},
		{"gemini without key", Config{Provider: "gemini"}, true},
		{"mock needs no key", Config{Provider: "mock"}, false},
		{"openrouter with key", Config{Provider: "openrouter", OpenRouter: OpenRouterConfig{APIKey: "sk-or"}}, false},
		{"nothing selected", Config{}, true},
		{"unknown provider", Config{Provider: "unknown"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResponseText(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{`"hello"`, "hello"},
		{"  plain text\n", "plain text"},
		{`<svg viewBox="0 0 200 200"></svg>`, `<svg viewBox="0 0 200 200"></svg>`},
		{`{"a":1}`, `{"a":1}`},
	}
	for _, tt := range tests {
		r := &Response{Content: json.RawMessage(tt.content)}
		if got := r.Text(); got != tt.want {
			t.Errorf("Text(%q) = %q, want %q", tt.content, got, tt.want)
		}
	}
	var nilResp *Response
	if nilResp.Text() != "" {
		t.Error("nil response should have empty text")
	}
}
