package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/learner"
)

// ErrNotFound is returned when a learner or event does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match ("" = any)
	After   int64     // sequence > After
	From    time.Time // timestamp >= From
}

// LearnerRepo persists learner state keyed by user id.
type LearnerRepo interface {
	// Load returns ErrNotFound when userID was never saved.
	Load(ctx context.Context, userID string) (*learner.State, error)
	Save(ctx context.Context, st *learner.State) error
	// ListRoster returns every saved learner.
	ListRoster(ctx context.Context) ([]*learner.State, error)
	Delete(ctx context.Context, userID string) error
}

// ProblemRepo persists teacher-authored problems.
type ProblemRepo interface {
	ListCustomProblems(ctx context.Context) ([]*content.Problem, error)
	// SaveCustomProblem inserts p or replaces the problem with the same id.
	SaveCustomProblem(ctx context.Context, p *content.Problem) error
}

// Backend is one persistence location.
type Backend interface {
	LearnerRepo
	ProblemRepo
	// Name labels the backend in logs and metrics.
	Name() string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to the LLM request log.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
	// GetLLMEvent returns ErrNotFound for an unknown id.
	GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEvent, error)
}
