package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/learner"
)

// memBackend is an in-memory remote used to exercise Hybrid.
type memBackend struct {
	mu       sync.Mutex
	learners map[string]*learner.State
	problems map[string]*content.Problem
	fail     error
}

func newMemBackend() *memBackend {
	return &memBackend{learners: map[string]*learner.State{}, problems: map[string]*content.Problem{}}
}

func (m *memBackend) Name() string { return "mem" }

func (m *memBackend) Load(_ context.Context, id string) (*learner.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	st, ok := m.learners[id]
	if !ok {
		return nil, ErrNotFound
	}
	return st.Clone(), nil
}

func (m *memBackend) Save(_ context.Context, st *learner.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.learners[st.UserID] = st.Clone()
	return nil
}

func (m *memBackend) ListRoster(context.Context) ([]*learner.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	var out []*learner.State
	for _, st := range m.learners {
		out = append(out, st.Clone())
	}
	return out, nil
}

func (m *memBackend) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.learners, id)
	return nil
}

func (m *memBackend) ListCustomProblems(context.Context) ([]*content.Problem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	var out []*content.Problem
	for _, p := range m.problems {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (m *memBackend) SaveCustomProblem(_ context.Context, p *content.Problem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.problems[p.ID] = p.Clone()
	return nil
}

func TestHybridSaveWritesBoth(t *testing.T) {
	remote := newMemBackend()
	h := NewHybrid(openTestStore(t), remote)
	ctx := context.Background()

	st := testLearner("Ana", 30, time.Now().UTC())
	require.NoError(t, h.Save(ctx, st))

	_, err := h.Local().Load(ctx, st.UserID)
	assert.NoError(t, err)
	_, err = remote.Load(ctx, st.UserID)
	assert.NoError(t, err)
}

func TestHybridRemoteFailureIsBestEffort(t *testing.T) {
	remote := newMemBackend()
	remote.fail = errors.New("connection refused")
	h := NewHybrid(openTestStore(t), remote)
	ctx := context.Background()

	st := testLearner("Ana", 30, time.Now().UTC())
	require.NoError(t, h.Save(ctx, st))

	got, err := h.Load(ctx, st.UserID)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Points)

	roster, err := h.ListRoster(ctx)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestHybridLoadPrefersRemoteAndWritesThrough(t *testing.T) {
	remote := newMemBackend()
	local := openTestStore(t)
	h := NewHybrid(local, remote)
	ctx := context.Background()

	st := testLearner("Ana", 10, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, local.Save(ctx, st))

	newer := st.Clone()
	newer.Points = 90
	newer.UpdatedAt = time.Now().UTC()
	require.NoError(t, remote.Save(ctx, newer))

	got, err := h.Load(ctx, st.UserID)
	require.NoError(t, err)
	assert.Equal(t, 90, got.Points)

	cached, err := local.Load(ctx, st.UserID)
	require.NoError(t, err)
	assert.Equal(t, 90, cached.Points, "remote copy written through")

	latest, err := h.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 90, latest.Points)
}

func TestHybridRosterMerge(t *testing.T) {
	remote := newMemBackend()
	local := openTestStore(t)
	h := NewHybrid(local, remote)
	ctx := context.Background()

	now := time.Now().UTC()
	mine := testLearner("Ana", 10, now)
	require.NoError(t, local.Save(ctx, mine))

	stale := mine.Clone()
	stale.Points = 5
	stale.UpdatedAt = now.Add(-time.Hour)
	require.NoError(t, remote.Save(ctx, stale))
	require.NoError(t, remote.Save(ctx, testLearner("Bojan", 200, now)))

	roster, err := h.ListRoster(ctx)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "Bojan", roster[0].Name)
	assert.Equal(t, 10, roster[1].Points, "newer local copy wins")
}

func TestHybridCustomProblems(t *testing.T) {
	remote := newMemBackend()
	local := openTestStore(t)
	h := NewHybrid(local, remote)
	ctx := context.Background()

	require.NoError(t, local.SaveCustomProblem(ctx, customProblem("local_only")))

	ps, err := h.ListCustomProblems(ctx)
	require.NoError(t, err)
	require.Len(t, ps, 1, "empty remote falls back to local")

	require.NoError(t, h.SaveCustomProblem(ctx, customProblem("shared")))
	ps, err = h.ListCustomProblems(ctx)
	require.NoError(t, err)
	require.Len(t, ps, 1, "non-empty remote wins")
	assert.Equal(t, "shared", ps[0].ID)
}

func TestHybridWithoutRemote(t *testing.T) {
	h := NewHybrid(openTestStore(t), nil)
	ctx := context.Background()
	assert.False(t, h.HasRemote())

	st := testLearner("Ana", 1, time.Now().UTC())
	require.NoError(t, h.Save(ctx, st))
	_, err := h.Load(ctx, st.UserID)
	require.NoError(t, err)
	require.NoError(t, h.Delete(ctx, st.UserID))
	_, err = h.Load(ctx, st.UserID)
	assert.True(t, errors.Is(err, ErrNotFound))
}
