package session

import (
	"context"
	"sync"

	"github.com/abhisek/mathpath/internal/learner"
	"github.com/abhisek/mathpath/internal/logging"
)

// Saver persists learner state. store.LearnerRepo satisfies it.
type Saver interface {
	Save(ctx context.Context, st *learner.State) error
}

// asyncSaver writes snapshots in the background, one at a time. Snapshots
// queued while a write is running collapse into the newest one, so the last
// state always wins.
type asyncSaver struct {
	saver Saver

	mu      sync.Mutex
	idle    *sync.Cond
	pending *learner.State
	busy    bool
}

func newAsyncSaver(s Saver) *asyncSaver {
	a := &asyncSaver{saver: s}
	a.idle = sync.NewCond(&a.mu)
	return a
}

// save queues st, which must not be mutated afterwards.
func (a *asyncSaver) save(ctx context.Context, st *learner.State) {
	if a == nil || a.saver == nil {
		return
	}
	a.mu.Lock()
	a.pending = st
	if a.busy {
		a.mu.Unlock()
		return
	}
	a.busy = true
	a.mu.Unlock()

	go a.run(context.WithoutCancel(ctx))
}

func (a *asyncSaver) run(ctx context.Context) {
	for {
		a.mu.Lock()
		st := a.pending
		a.pending = nil
		if st == nil {
			a.busy = false
			a.idle.Broadcast()
			a.mu.Unlock()
			return
		}
		a.mu.Unlock()

		if err := a.saver.Save(ctx, st); err != nil {
			logger := logging.FromContext(ctx)
			logger.Warn().Err(err).Str("user_id", st.UserID).Msg("save learner state")
		}
	}
}

// wait blocks until every queued snapshot has been written.
func (a *asyncSaver) wait() {
	if a == nil || a.saver == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for a.busy {
		a.idle.Wait()
	}
}
