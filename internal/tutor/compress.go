package tutor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/mathpath/internal/llm"
	"github.com/abhisek/mathpath/internal/logging"
)

// Compressor folds old chat turns into a summary.
type Compressor struct {
	provider llm.Provider
	cfg      CompressorConfig
}

// NewCompressor creates a conversation compressor.
func NewCompressor(provider llm.Provider, cfg CompressorConfig) *Compressor {
	return &Compressor{provider: provider, cfg: cfg}
}

// CompressTurns compresses turns, together with any previous summary,
// asynchronously. The callback receives the new summary; it is not called
// on failure.
func (c *Compressor) CompressTurns(
	ctx context.Context,
	previous string,
	turns []Turn,
	cb func(summary string),
) {
	go func() {
		summary, err := c.compress(ctx, previous, turns)
		if err != nil {
			logger := logging.FromContext(ctx)
			logger.Warn().Err(err).Int("turns", len(turns)).Msg("chat compression failed")
		}
		if cb != nil {
			cb(summary)
		}
	}()
}

type compressionOutput struct {
	Summary string `json:"summary"`
}

func (c *Compressor) compress(ctx context.Context, previous string, turns []Turn) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeChatCompress)

	req := llm.Request{
		System: compressionSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildCompressionMessage(previous, turns)},
		},
		Schema:      ConversationSummarySchema,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat compression: %w", err)
	}

	var out compressionOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("parse compression response: %w", err)
	}
	return out.Summary, nil
}
