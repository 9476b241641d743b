package home

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/learner"
	"github.com/abhisek/mathpath/internal/router"
	"github.com/abhisek/mathpath/internal/screen"
	"github.com/abhisek/mathpath/internal/screens/lesson"
	"github.com/abhisek/mathpath/internal/session"
)

func TestLessonStatus(t *testing.T) {
	st := learner.New("Ana", content.EN)
	st.CompletedLessons = []string{content.DiagnosticLessonID}
	st.CurrentLessonID = "11.1"

	tests := []struct {
		id          string
		canGenerate bool
		icon        string
		locked      bool
	}{
		{content.DiagnosticLessonID, false, "✓", false},
		{"11.1", false, "▶", false},
		{"11.2", false, "🔒", true},
		{content.MasterLessonID, true, "🔒", true},
	}
	for _, tt := range tests {
		l, ok := content.LessonByID(tt.id)
		if !ok {
			t.Fatalf("unknown lesson %s", tt.id)
		}
		icon, locked := lessonStatus(l, st, tt.canGenerate)
		if icon != tt.icon || locked != tt.locked {
			t.Errorf("%s: got (%s, %v), want (%s, %v)", tt.id, icon, locked, tt.icon, tt.locked)
		}
	}

	st.CompletedLessons = append(st.CompletedLessons, "11.1", "11.2", "11.3", "11.4")
	master, _ := content.LessonByID(content.MasterLessonID)
	if icon, locked := lessonStatus(master, st, false); icon != "⚠" || !locked {
		t.Errorf("master without generator: got (%s, %v)", icon, locked)
	}
	if icon, locked := lessonStatus(master, st, true); icon != "○" || locked {
		t.Errorf("master with generator: got (%s, %v)", icon, locked)
	}
}

func TestHomeScreen_OpensLesson(t *testing.T) {
	st := learner.New("Ana", content.EN)
	e := session.New(st, session.Options{})
	t.Cleanup(e.Flush)
	h := New(screen.NewEnv(context.Background(), screen.Env{Engine: e}))

	if got := h.menu.Items[h.menu.Selected].Label; !strings.Contains(got, "Getting Started") {
		t.Fatalf("first item = %q, want the diagnostic", got)
	}
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*lesson.LessonScreen); !ok {
		t.Errorf("pushed %T, want lesson screen", push.Screen)
	}
}

func TestHomeScreen_View(t *testing.T) {
	st := learner.New("Ana", content.EN)
	e := session.New(st, session.Options{})
	t.Cleanup(e.Flush)
	h := New(screen.NewEnv(context.Background(), screen.Env{Engine: e}))

	view := h.View(120, 50)
	for _, want := range []string{"Linear Functions", "SHOP", "HISTORY", "No AI provider"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPickMascot(t *testing.T) {
	tests := []struct {
		placed bool
		streak int
		want   MascotVariant
	}{
		{false, 10, MascotAlert},
		{true, 0, MascotIdle},
		{true, session.SmallStreak - 1, MascotIdle},
		{true, session.SmallStreak, MascotCelebrating},
	}
	for _, tt := range tests {
		if got := pickMascot(tt.placed, tt.streak); got != tt.want {
			t.Errorf("pickMascot(%v, %d) = %d, want %d", tt.placed, tt.streak, got, tt.want)
		}
	}
	if !strings.Contains(RenderMascot(MascotVariant(99)), "◉ ◉") {
		t.Error("unknown variant should draw the idle mascot")
	}
}

func TestRenderMenu(t *testing.T) {
	items := []menuLine{{label: "11.1 Functions"}, {label: "11.2 Graphs", disabled: true}, {label: "SHOP"}}

	wide := renderMenu(items, 0, 60, false)
	if !strings.Contains(wide, "▸ 11.1 Functions") || strings.Contains(wide, "▸ 11.2") {
		t.Errorf("wide menu marks the wrong item:\n%s", wide)
	}
	compact := renderMenu(items, 2, 40, true)
	if !strings.Contains(compact, "▸ SHOP") || strings.Contains(compact, "╭") {
		t.Errorf("compact menu should be plain lines:\n%s", compact)
	}
}
