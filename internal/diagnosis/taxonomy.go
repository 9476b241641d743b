package diagnosis

import (
	"strings"

	"github.com/abhisek/mathpath/internal/content"
)

// Misconception is a known wrong idea about linear functions that the
// diagnoser can name.
type Misconception struct {
	ID          string
	Topic       string // lesson id, e.g. "11.3"
	Label       string
	Description string
	Examples    []string
}

var (
	registry = make(map[string]*Misconception, len(seedMisconceptions))
	byLesson = make(map[string][]*Misconception)
	ordered  = make([]*Misconception, 0, len(seedMisconceptions))
)

func init() {
	for i := range seedMisconceptions {
		m := &seedMisconceptions[i]
		if _, dup := registry[m.ID]; dup {
			panic("diagnosis: duplicate misconception id " + m.ID)
		}
		registry[m.ID] = m
		byLesson[m.Topic] = append(byLesson[m.Topic], m)
		ordered = append(ordered, m)
	}
}

// GetMisconception returns a misconception by ID, or nil if not found.
func GetMisconception(id string) *Misconception {
	return registry[id]
}

// MisconceptionsByTopic returns the candidates for a lesson. Workbook
// lessons share their topic's candidates.
func MisconceptionsByTopic(lessonID string) []*Misconception {
	return byLesson[strings.TrimSuffix(lessonID, content.WorkbookSuffix)]
}

// AllMisconceptions returns the taxonomy in seed order.
func AllMisconceptions() []*Misconception {
	return append([]*Misconception(nil), ordered...)
}
