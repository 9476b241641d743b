package store

import (
	"context"
	"errors"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/learner"
	"github.com/abhisek/mathpath/internal/logging"
)

// Hybrid pairs the local SQLite store with an optional remote backend.
// Writes always land locally and then go remote best-effort; reads prefer
// the remote copy and fall back to local.
type Hybrid struct {
	local  *Store
	remote Backend
}

var _ Backend = (*Hybrid)(nil)

// NewHybrid returns a Hybrid. remote may be nil.
func NewHybrid(local *Store, remote Backend) *Hybrid {
	return &Hybrid{local: local, remote: remote}
}

// Name implements Backend.
func (h *Hybrid) Name() string { return "hybrid" }

// Local returns the SQLite store.
func (h *Hybrid) Local() *Store { return h.local }

// HasRemote reports whether a remote backend is attached.
func (h *Hybrid) HasRemote() bool { return h.remote != nil }

// EventRepo returns the local LLM request log.
func (h *Hybrid) EventRepo() EventRepo { return h.local.EventRepo() }

// Load implements LearnerRepo. A remote hit is written through to the
// local store.
func (h *Hybrid) Load(ctx context.Context, userID string) (*learner.State, error) {
	if h.remote != nil {
		st, err := h.remote.Load(ctx, userID)
		switch {
		case err == nil:
			if werr := h.local.Save(ctx, st.Clone()); werr != nil {
				logger := logging.FromContext(ctx)
				logger.Warn().Err(werr).Str("user_id", userID).Msg("write-through to local store failed")
			}
			return st, nil
		case !errors.Is(err, ErrNotFound):
			logger := logging.FromContext(ctx)
			logger.Warn().Err(err).Str("user_id", userID).Msg("remote load failed")
		}
	}
	return h.local.Load(ctx, userID)
}

// Latest returns the learner this device played as last, refreshed from
// the remote backend when it has a copy.
func (h *Hybrid) Latest(ctx context.Context) (*learner.State, error) {
	st, err := h.local.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return h.Load(ctx, st.UserID)
}

// Save implements LearnerRepo. Only a local failure is returned.
func (h *Hybrid) Save(ctx context.Context, st *learner.State) error {
	if err := h.local.Save(ctx, st); err != nil {
		return err
	}
	if h.remote != nil {
		if err := h.remote.Save(ctx, st); err != nil {
			logger := logging.FromContext(ctx)
			logger.Warn().Err(err).Str("user_id", st.UserID).Msg("remote save failed")
		}
	}
	return nil
}

// ListRoster implements LearnerRepo. Learners from both backends are
// merged by user id, keeping the most recently updated copy.
func (h *Hybrid) ListRoster(ctx context.Context) ([]*learner.State, error) {
	local, err := h.local.ListRoster(ctx)
	if err != nil {
		return nil, err
	}
	if h.remote == nil {
		return local, nil
	}
	remote, err := h.remote.ListRoster(ctx)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().Err(err).Msg("remote roster failed")
		return local, nil
	}

	byID := make(map[string]*learner.State, len(local)+len(remote))
	for _, st := range append(local, remote...) {
		if cur, ok := byID[st.UserID]; !ok || st.UpdatedAt.After(cur.UpdatedAt) {
			byID[st.UserID] = st
		}
	}
	merged := make([]*learner.State, 0, len(byID))
	for _, st := range byID {
		merged = append(merged, st)
	}
	sortRoster(merged)
	return merged, nil
}

// Delete implements LearnerRepo.
func (h *Hybrid) Delete(ctx context.Context, userID string) error {
	if err := h.local.Delete(ctx, userID); err != nil {
		return err
	}
	if h.remote != nil {
		return h.remote.Delete(ctx, userID)
	}
	return nil
}

// ListCustomProblems implements ProblemRepo. A non-empty remote list wins.
func (h *Hybrid) ListCustomProblems(ctx context.Context) ([]*content.Problem, error) {
	if h.remote != nil {
		ps, err := h.remote.ListCustomProblems(ctx)
		if err == nil && len(ps) > 0 {
			return ps, nil
		}
		if err != nil {
			logger := logging.FromContext(ctx)
			logger.Warn().Err(err).Msg("remote custom problems failed")
		}
	}
	return h.local.ListCustomProblems(ctx)
}

// SaveCustomProblem implements ProblemRepo.
func (h *Hybrid) SaveCustomProblem(ctx context.Context, p *content.Problem) error {
	if err := h.local.SaveCustomProblem(ctx, p); err != nil {
		return err
	}
	if h.remote != nil {
		if err := h.remote.SaveCustomProblem(ctx, p); err != nil {
			logger := logging.FromContext(ctx)
			logger.Warn().Err(err).Str("problem_id", p.ID).Msg("remote problem save failed")
		}
	}
	return nil
}

// Close closes both backends.
func (h *Hybrid) Close() error {
	err := h.local.Close()
	if c, ok := h.remote.(interface{ Close() error }); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}
