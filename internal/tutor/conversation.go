package tutor

import (
	"slices"
	"sync"

	"github.com/abhisek/mathpath/internal/llm"
)

// Turn is one message in a tutoring chat.
type Turn struct {
	Role llm.Role
	Text string
}

// Conversation is the chat history for one problem. Older turns may be
// replaced by a summary in the background; it is safe for concurrent use.
type Conversation struct {
	mu          sync.Mutex
	summary     string
	turns       []Turn
	compressing bool
	epoch       int // bumped by Reset so stale summaries are dropped
}

// Turns returns a copy of the turns not yet folded into the summary.
func (c *Conversation) Turns() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.turns)
}

// Summary returns the summary of compressed turns, if any.
func (c *Conversation) Summary() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summary
}

// Reset clears the conversation, e.g. when the problem changes.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary = ""
	c.turns = nil
	c.epoch++
}

func (c *Conversation) append(turns ...Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, turns...)
}

func (c *Conversation) size() int {
	n := len(c.summary)
	for _, t := range c.turns {
		n += len(t.Text)
	}
	return n
}

// fold is a compression in flight.
type fold struct {
	summary string // existing summary, folded in too
	turns   []Turn
	epoch   int
}

// beginCompression returns the oldest turns to fold when the conversation
// is over threshold and no compression is running.
func (c *Conversation) beginCompression(threshold, keep int) (fold, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.compressing || c.size() <= threshold || len(c.turns) <= keep {
		return fold{}, false
	}
	c.compressing = true
	return fold{
		summary: c.summary,
		turns:   slices.Clone(c.turns[:len(c.turns)-keep]),
		epoch:   c.epoch,
	}, true
}

// endCompression replaces the folded turns with summary. An empty
// summary means compression failed and nothing changes.
func (c *Conversation) endCompression(f fold, summary string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.compressing = false
	if summary == "" || f.epoch != c.epoch || len(f.turns) > len(c.turns) {
		return
	}
	c.summary = summary
	c.turns = slices.Clone(c.turns[len(f.turns):])
}
