package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/mathpath/internal/diagnosis"
	"github.com/abhisek/mathpath/internal/llm"
	"github.com/abhisek/mathpath/internal/problemgen"
)

const illustrationSVG = `<svg viewBox="0 0 200 200"><line x1="0" y1="200" x2="200" y2="0" stroke="black"/></svg>`

// fakeAPI serves one canned reply and keeps the decoded request body.
type fakeAPI struct {
	status int
	header map[string]string
	reply  any
	body   map[string]any
	sent   http.Header
}

func (f *fakeAPI) start(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &f.body)
		f.sent = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		for k, v := range f.header {
			w.Header().Set(k, v)
		}
		if f.status != 0 {
			w.WriteHeader(f.status)
		}
		_ = json.NewEncoder(w).Encode(f.reply)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func illustrationRequest() llm.Request {
	return llm.Request{
		System:    "You draw simple SVG diagrams for a linear functions workbook.",
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: "A line with gradient 1 through the origin."}},
		MaxTokens: 2048,
	}
}

func diagnosisRequest() llm.Request {
	return llm.Request{
		System:    "Classify the student's wrong answer.",
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: "Expected y=2x+3, student wrote y=3x+2."}},
		Schema:    diagnosis.DiagnosisSchema,
		MaxTokens: 256,
	}
}

// --- Anthropic ---

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 120, "output_tokens": 40},
	}
}

func newAnthropic(t *testing.T, api *fakeAPI) llm.Provider {
	t.Helper()
	p, err := llm.NewAnthropicProvider(llm.AnthropicConfig{APIKey: "test-key", Model: "claude-haiku", BaseURL: api.start(t)})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestAnthropic_Diagnosis(t *testing.T) {
	api := &fakeAPI{reply: anthropicMessage(diagnosisReply, "end_turn")}
	p := newAnthropic(t, api)

	resp, err := p.Generate(context.Background(), diagnosisRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != diagnosisReply {
		t.Errorf("content = %s", resp.Content)
	}
	if resp.Usage.TotalTokens != 160 || resp.StopReason != llm.StopEnd {
		t.Errorf("usage %+v stop %q", resp.Usage, resp.StopReason)
	}
	if api.body["model"] != "claude-haiku-4-5-20251001" {
		t.Errorf("model = %v", api.body["model"])
	}
	if _, ok := api.body["output_config"]; !ok {
		t.Error("structured request should set output_config")
	}
}

func TestAnthropic_IllustrationIsPlainText(t *testing.T) {
	api := &fakeAPI{reply: anthropicMessage(illustrationSVG, "end_turn")}
	p := newAnthropic(t, api)

	resp, err := p.Generate(context.Background(), illustrationRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != illustrationSVG {
		t.Errorf("text = %q", resp.Text())
	}
	if _, ok := api.body["output_config"]; ok {
		t.Error("plain text request should not set output_config")
	}
}

func TestAnthropic_TruncatedVariation(t *testing.T) {
	api := &fakeAPI{reply: anthropicMessage(problemReply("h=3n+4", "")[:80], "max_tokens")}
	p := newAnthropic(t, api)

	req := diagnosisRequest()
	req.Schema = problemgen.VariationSchema
	_, err := p.Generate(context.Background(), req)
	var maxTok *llm.ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) || maxTok.Schema != "problem-variation" {
		t.Fatalf("expected ErrMaxTokensExceeded for problem-variation, got %v", err)
	}
}

func TestAnthropic_RateLimitCarriesRetryAfter(t *testing.T) {
	api := &fakeAPI{
		status: http.StatusTooManyRequests,
		header: map[string]string{"Retry-After": "2"},
		reply:  map[string]any{"type": "error", "error": map[string]any{"type": "rate_limit_error", "message": "slow down"}},
	}
	p := newAnthropic(t, api)

	_, err := p.Generate(context.Background(), diagnosisRequest())
	var rl *llm.ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
	}
	if rl.RetryAfter != 2*time.Second {
		t.Errorf("RetryAfter = %s", rl.RetryAfter)
	}
}

func TestAnthropic_ServerError(t *testing.T) {
	api := &fakeAPI{
		status: http.StatusInternalServerError,
		reply:  map[string]any{"type": "error", "error": map[string]any{"type": "api_error", "message": "boom"}},
	}
	p := newAnthropic(t, api)

	_, err := p.Generate(context.Background(), illustrationRequest())
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
	}
}

// --- OpenAI and OpenRouter ---

func openaiCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini-2024-07-18",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 300, "completion_tokens": 200, "total_tokens": 500},
	}
}

func newOpenAI(t *testing.T, api *fakeAPI) llm.Provider {
	t.Helper()
	p, err := llm.NewOpenAIProvider(llm.OpenAIConfig{APIKey: "test-key", Model: "gpt-mini", BaseURL: api.start(t) + "/v1"})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestOpenAI_Challenge(t *testing.T) {
	reply := problemReply("y=-2x+7", `,"type":"input"`)
	api := &fakeAPI{reply: openaiCompletion(reply, "stop")}
	p := newOpenAI(t, api)

	req := diagnosisRequest()
	req.Schema = problemgen.ChallengeSchema
	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != reply || resp.Usage.OutputTokens != 200 {
		t.Errorf("resp = %+v", resp)
	}

	format, _ := api.body["response_format"].(map[string]any)
	schema, _ := format["json_schema"].(map[string]any)
	if format["type"] != "json_schema" || schema["name"] != "challenge-problem" || schema["strict"] != true {
		t.Errorf("response_format = %v", format)
	}
	if api.body["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v", api.body["model"])
	}
}

func TestOpenAI_ChatIsPlainText(t *testing.T) {
	api := &fakeAPI{reply: openaiCompletion("Rise over run: (7-3)/(2-0) = 2.", "stop")}
	p := newOpenAI(t, api)

	req := llm.Request{
		System: "You are a patient tutor.",
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: "How do I find the gradient?"},
			{Role: llm.RoleAssistant, Content: "Pick two points on the line."},
			{Role: llm.RoleUser, Content: "(0,3) and (2,7)"},
		},
	}
	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "Rise over run: (7-3)/(2-0) = 2." {
		t.Errorf("text = %q", resp.Text())
	}
	if format, _ := api.body["response_format"].(map[string]any); format["type"] != "text" {
		t.Errorf("response_format = %v", api.body["response_format"])
	}
	if msgs, _ := api.body["messages"].([]any); len(msgs) != 4 {
		t.Errorf("expected system plus three turns, got %d messages", len(msgs))
	}
}

func TestOpenAI_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"rate limit", http.StatusTooManyRequests, func(err error) bool {
			var rl *llm.ErrRateLimit
			return errors.As(err, &rl)
		}},
		{"server error", http.StatusBadGateway, func(err error) bool {
			var unavail *llm.ErrProviderUnavailable
			return errors.As(err, &unavail)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{status: tt.status, reply: map[string]any{"error": map[string]any{"message": "nope", "type": "server_error"}}}
			_, err := newOpenAI(t, api).Generate(context.Background(), diagnosisRequest())
			if !tt.check(err) {
				t.Fatalf("unexpected error %T (%v)", err, err)
			}
		})
	}
}

func TestOpenRouter(t *testing.T) {
	api := &fakeAPI{reply: openaiCompletion(diagnosisReply, "stop")}
	p, err := llm.NewOpenRouterProvider(llm.OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   "anthropic/claude-haiku-4-5",
		BaseURL: api.start(t) + "/v1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "anthropic/claude-haiku-4-5" {
		t.Errorf("model id = %q", p.ModelID())
	}

	resp, err := p.Generate(context.Background(), diagnosisRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != diagnosisReply {
		t.Errorf("content = %s", resp.Content)
	}
	if api.body["model"] != "anthropic/claude-haiku-4-5" {
		t.Errorf("OpenRouter ids must pass through unchanged, sent %v", api.body["model"])
	}

	if api.sent.Get("X-Title") != "mathpath" || api.sent.Get("HTTP-Referer") == "" {
		t.Errorf("attribution headers missing: %v", api.sent)
	}
	if api.sent.Get("Authorization") != "Bearer sk-or-test" {
		t.Errorf("authorization = %q", api.sent.Get("Authorization"))
	}

	if _, err := llm.NewOpenRouterProvider(llm.OpenRouterConfig{Model: "x"}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestOpenRouter_FencedJSON(t *testing.T) {
	api := &fakeAPI{reply: openaiCompletion("```json\n"+diagnosisReply+"\n```", "stop")}
	p, err := llm.NewOpenRouterProvider(llm.OpenRouterConfig{APIKey: "k", Model: "meta-llama/llama-3.3-70b", BaseURL: api.start(t) + "/v1"})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := p.Generate(context.Background(), diagnosisRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != diagnosisReply {
		t.Errorf("content = %s", resp.Content)
	}
}

// --- Gemini ---

func geminiReply(text, finish string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": text}}},
			"finishReason": finish,
		}},
		"usageMetadata": map[string]any{"promptTokenCount": 90, "candidatesTokenCount": 600, "totalTokenCount": 690},
		"modelVersion":  "gemini-2.5-flash",
	}
}

func newGemini(t *testing.T, api *fakeAPI) llm.Provider {
	t.Helper()
	p, err := llm.NewGeminiProvider(context.Background(), llm.GeminiConfig{APIKey: "test-key", Model: "gemini-flash", BaseURL: api.start(t)})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestGemini_Variation(t *testing.T) {
	reply := problemReply("h=3n+4", "")
	api := &fakeAPI{reply: geminiReply(reply, "STOP")}
	p := newGemini(t, api)

	req := diagnosisRequest()
	req.Schema = problemgen.VariationSchema
	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != reply || resp.Model != "gemini-2.5-flash" || resp.Usage.TotalTokens != 690 {
		t.Errorf("resp = %+v", resp)
	}
	gen, _ := api.body["generationConfig"].(map[string]any)
	if gen["responseMimeType"] != "application/json" {
		t.Errorf("generationConfig = %v", gen)
	}
}

func TestGemini_IllustrationIsPlainText(t *testing.T) {
	api := &fakeAPI{reply: geminiReply(illustrationSVG, "STOP")}
	p := newGemini(t, api)

	resp, err := p.Generate(context.Background(), illustrationRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != illustrationSVG {
		t.Errorf("text = %q", resp.Text())
	}
	gen, _ := api.body["generationConfig"].(map[string]any)
	if gen["responseMimeType"] != "text/plain" {
		t.Errorf("generationConfig = %v", gen)
	}
}

func TestGemini_SafetyStopIsRefusal(t *testing.T) {
	api := &fakeAPI{reply: geminiReply("", "SAFETY")}
	_, err := newGemini(t, api).Generate(context.Background(), illustrationRequest())
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) || !strings.Contains(err.Error(), "declined") {
		t.Fatalf("expected a refusal, got %v", err)
	}
}

func TestModelShortNames(t *testing.T) {
	tests := []struct {
		build func() (llm.Provider, error)
		want  string
	}{
		{func() (llm.Provider, error) {
			return llm.NewAnthropicProvider(llm.AnthropicConfig{APIKey: "k", Model: "claude-sonnet"})
		}, "claude-sonnet-4-5-20250929"},
		{func() (llm.Provider, error) {
			return llm.NewAnthropicProvider(llm.AnthropicConfig{APIKey: "k", Model: "claude-opus-4-5"})
		}, "claude-opus-4-5"},
		{func() (llm.Provider, error) {
			return llm.NewOpenAIProvider(llm.OpenAIConfig{APIKey: "k", Model: "gpt"})
		}, "gpt-4o"},
		{func() (llm.Provider, error) {
			return llm.NewGeminiProvider(context.Background(), llm.GeminiConfig{APIKey: "k", Model: "gemini-lite"})
		}, "gemini-2.5-flash-lite"},
	}
	for _, tt := range tests {
		p, err := tt.build()
		if err != nil {
			t.Fatal(err)
		}
		if p.ModelID() != tt.want {
			t.Errorf("ModelID = %q, want %q", p.ModelID(), tt.want)
		}
		if llm.LookupCost(p.ModelID()) == nil {
			t.Errorf("no price for %q", p.ModelID())
		}
	}
}
