package screen

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathpath/internal/problemgen"
	"github.com/abhisek/mathpath/internal/session"
	"github.com/abhisek/mathpath/internal/tutor"
	"github.com/abhisek/mathpath/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Env is what screens share: the learner's engine and the optional
// generation services. Tutor and Generator are nil when no LLM provider is
// configured.
type Env struct {
	Engine    *session.Engine
	Tutor     *tutor.Service
	Generator problemgen.Generator

	// IllustrationDir receives generated SVG files.
	IllustrationDir string

	ctx context.Context
}

// NewEnv binds env to ctx, which carries the logger.
func NewEnv(ctx context.Context, env Env) *Env {
	env.ctx = ctx
	return &env
}

// Context returns the context commands should run under.
func (e *Env) Context() context.Context {
	if e == nil || e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}
