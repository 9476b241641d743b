package problemgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/learner"
	"github.com/abhisek/mathpath/internal/llm"
	"github.com/abhisek/mathpath/internal/logging"
	"github.com/abhisek/mathpath/internal/metrics"
)

// ErrNoSVG is returned when an illustration response holds no SVG element.
var ErrNoSVG = errors.New("response contains no <svg> element")

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &LLMGenerator{provider: provider, config: cfg}
}

// Variation implements Generator.
func (g *LLMGenerator) Variation(ctx context.Context, p *content.Problem, lang content.Language) (*content.Problem, error) {
	if p == nil {
		return nil, errors.New("variation of nil problem")
	}
	input := Input{Kind: KindVariation, Base: p, Language: lang}
	out, err := g.generate(ctx, input, variationSystemPrompt, buildVariationMessage(p, lang), VariationSchema)
	g.observe(ctx, input, err)
	return out, err
}

// Challenge implements Generator.
func (g *LLMGenerator) Challenge(ctx context.Context, history []learner.HistoryEntry, lang content.Language) (*content.Problem, error) {
	if n := g.config.HistoryWindow; n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}
	input := Input{Kind: KindChallenge, Language: lang, History: history}
	out, err := g.generate(ctx, input, challengeSystemPrompt, buildChallengeMessage(history, lang), ChallengeSchema)
	g.observe(ctx, input, err)
	return out, err
}

// Illustration implements Generator.
func (g *LLMGenerator) Illustration(ctx context.Context, description string) (string, error) {
	ctx = llm.WithPurpose(ctx, KindIllustration.Purpose())

	svg, err := func() (string, error) {
		if strings.TrimSpace(description) == "" {
			return "", errors.New("empty illustration description")
		}
		resp, err := g.provider.Generate(ctx, llm.Request{
			System:      illustrationSystemPrompt,
			Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildIllustrationMessage(description)}},
			MaxTokens:   g.config.IllustrationMaxTokens,
			Temperature: g.config.Temperature,
		})
		if err != nil {
			return "", fmt.Errorf("LLM generation failed: %w", err)
		}
		return ExtractSVG(resp.Text())
	}()
	g.observe(ctx, Input{Kind: KindIllustration}, err)
	return svg, err
}

func (g *LLMGenerator) generate(ctx context.Context, input Input, system, userMsg string, schema *llm.Schema) (*content.Problem, error) {
	ctx = llm.WithPurpose(ctx, input.Kind.Purpose())

	req := llm.Request{
		System: system,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      schema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	d, err := decodeDraft(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	// Run validators in order.
	for _, v := range g.config.Validators {
		if verr := v.Validate(d, input); verr != nil {
			return nil, verr
		}
	}

	p, err := d.problem(input, g.config.Now())
	if err != nil {
		return nil, fmt.Errorf("build %s problem: %w", input.Kind, err)
	}
	return p, nil
}

func (g *LLMGenerator) observe(ctx context.Context, input Input, err error) {
	metrics.Generations.WithLabelValues(string(input.Kind), metrics.Status(err)).Inc()
	if err == nil {
		return
	}
	logger := logging.FromContext(ctx)
	ev := logger.Warn().Err(err).Str("kind", string(input.Kind))
	if input.Base != nil {
		ev = ev.Str("problem_id", input.Base.ID).Str("lesson_id", input.Base.LessonID)
	}
	ev.Msg("generation failed")
}

// ExtractSVG pulls the <svg>...</svg> element out of a model reply,
// dropping markdown fences and surrounding prose.
func ExtractSVG(s string) (string, error) {
	for _, fence := range []string{"```xml", "```svg", "```"} {
		s = strings.ReplaceAll(s, fence, "")
	}
	start := strings.Index(s, "<svg")
	if start < 0 {
		return "", ErrNoSVG
	}
	s = s[start:]
	if end := strings.LastIndex(s, "</svg>"); end >= 0 {
		s = s[:end+len("</svg>")]
	}
	return strings.TrimSpace(s), nil
}
