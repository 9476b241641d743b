// Package tutor explains problems and chats with the learner about the
// problem in front of them.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/llm"
)

// ErrEmptyReply is returned when the model answers with no text.
var ErrEmptyReply = errors.New("empty reply")

// Service generates explanations and chat replies.
type Service struct {
	provider   llm.Provider
	compressor *Compressor
	cfg        Config

	mu      sync.Mutex
	pending string
	err     error
	ready   bool
	seq     int
}

// NewService creates a tutor service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{
		provider:   provider,
		compressor: NewCompressor(provider, DefaultCompressorConfig()),
		cfg:        cfg,
	}
}

// Explain returns a short explanation of p written for lang.
func (s *Service) Explain(ctx context.Context, p *content.Problem, lang content.Language) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeExplanation)

	req := llm.Request{
		System: explainSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildExplainMessage(p, lang)},
		},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("explanation: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("explanation: %w", ErrEmptyReply)
	}
	return text, nil
}

// RequestExplanation starts Explain in the background. Only one
// explanation is in flight at a time; a new request replaces the pending one.
func (s *Service) RequestExplanation(ctx context.Context, p *content.Problem, lang content.Language) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.ready = false
	s.mu.Unlock()

	go func() {
		text, err := s.Explain(ctx, p, lang)
		s.mu.Lock()
		defer s.mu.Unlock()
		if seq != s.seq {
			return
		}
		s.pending = text
		s.err = err
		s.ready = true
	}()
}

// Explanation is the result of a background explanation request.
type Explanation struct {
	Text string
	Err  error
}

// ConsumeExplanation returns the finished explanation, if any.
// After consumption the slot is cleared.
func (s *Service) ConsumeExplanation() (Explanation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return Explanation{}, false
	}
	out := Explanation{Text: s.pending, Err: s.err}
	s.pending = ""
	s.err = nil
	s.ready = false
	return out, true
}

// Chat sends message about p and returns the tutor's reply. On success
// both turns are appended to conv, and conv is compressed in the
// background once it grows past the configured threshold. On failure conv
// is unchanged.
func (s *Service) Chat(ctx context.Context, message string, p *content.Problem, conv *Conversation, lang content.Language) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("chat: empty message")
	}
	if conv == nil {
		conv = &Conversation{}
	}

	turns := conv.Turns()
	msgs := make([]llm.Message, 0, len(turns)+1)
	for _, t := range turns {
		msgs = append(msgs, llm.Message{Role: t.Role, Content: t.Text})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: message})

	req := llm.Request{
		System:      buildChatSystem(p, lang, conv.Summary()),
		Messages:    msgs,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, llm.PurposeChat), req)
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	reply := resp.Text()
	if reply == "" {
		return "", fmt.Errorf("chat: %w", ErrEmptyReply)
	}

	conv.append(
		Turn{Role: llm.RoleUser, Text: message},
		Turn{Role: llm.RoleAssistant, Text: reply},
	)
	if f, ok := conv.beginCompression(s.cfg.CompressThreshold, s.cfg.KeepRecent); ok {
		s.compressor.CompressTurns(ctx, f.summary, f.turns, func(summary string) {
			conv.endCompression(f, summary)
		})
	}
	return reply, nil
}
