package history

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/learner"
	"github.com/abhisek/mathpath/internal/router"
	"github.com/abhisek/mathpath/internal/screen"
	"github.com/abhisek/mathpath/internal/session"
)

var day1 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func entries() []learner.HistoryEntry {
	return []learner.HistoryEntry{
		{ProblemID: "GS_Q1a", LessonID: "Start", Correct: true, Timestamp: day1},
		{ProblemID: "GS_Q2", LessonID: "Start", Correct: false, Timestamp: day1.Add(time.Minute)},
		{ProblemID: "11.1_WB_Q1b", LessonID: "11.1_WB", Correct: true, Timestamp: day1.Add(2 * time.Minute)},
		{ProblemID: "11.1_WB_Q4b", LessonID: "11.1_WB", Correct: true, Timestamp: day1.Add(25 * time.Hour)},
	}
}

func TestGroup(t *testing.T) {
	got := group(entries())
	if len(got) != 3 {
		t.Fatalf("got %d sittings, want 3", len(got))
	}
	// newest first
	if got[0].LessonID != "11.1_WB" || !got[0].Day.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first sitting = %s on %s", got[0].LessonID, got[0].Day)
	}
	if got[2].LessonID != "Start" || len(got[2].Entries) != 2 || got[2].Correct != 1 {
		t.Errorf("last sitting = %+v", got[2])
	}
}

func TestGroup_Empty(t *testing.T) {
	if got := group(nil); len(got) != 0 {
		t.Errorf("got %d sittings, want 0", len(got))
	}
}

func newScreen(t *testing.T, h []learner.HistoryEntry) *HistoryScreen {
	t.Helper()
	st := learner.New("Ana", content.EN)
	st.History = h
	e := session.New(st, session.Options{})
	t.Cleanup(e.Flush)
	s := New(screen.NewEnv(context.Background(), screen.Env{Engine: e}))
	s.Init()
	return s
}

func TestHistoryScreen_Navigation(t *testing.T) {
	s := newScreen(t, entries())

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 2 {
		t.Errorf("selected = %d, want 2", s.selected)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view := s.View(100, 30)
	if !strings.Contains(view, "GS_Q2") {
		t.Error("expanded view missing problem id")
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestHistoryScreen_EmptyView(t *testing.T) {
	s := newScreen(t, nil)
	if !strings.Contains(s.View(80, 20), "Nothing here yet") {
		t.Error("expected empty message")
	}
}
