package lesson

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/graphcheck"
	"github.com/abhisek/mathpath/internal/learner"
	"github.com/abhisek/mathpath/internal/router"
	"github.com/abhisek/mathpath/internal/screen"
	"github.com/abhisek/mathpath/internal/screens/summary"
	"github.com/abhisek/mathpath/internal/session"
)

func newTestEnv(t *testing.T, path content.Difficulty) *screen.Env {
	t.Helper()
	st := learner.New("Ana", content.EN)
	st.Path = path
	st.CompletedLessons = []string{content.DiagnosticLessonID, "11.1", "11.2", "11.3"}
	e := session.New(st, session.Options{Rand: rand.New(rand.NewPCG(1, 2))})
	t.Cleanup(e.Flush)
	return screen.NewEnv(context.Background(), screen.Env{
		Engine:          e,
		IllustrationDir: t.TempDir(),
	})
}

func keyPress(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func typeText(l *LessonScreen, text string) {
	for _, r := range text {
		l.Update(keyPress(string(r)))
	}
}

// exec runs cmd and feeds its message back to the screen, returning the
// follow-up command.
func exec(t *testing.T, l *LessonScreen, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	_, next := l.Update(cmd())
	return next
}

func started(t *testing.T, env *screen.Env, lessonID string) *LessonScreen {
	t.Helper()
	l := New(env, lessonID)
	exec(t, l, l.Init())
	if l.problem == nil {
		t.Fatalf("lesson %s did not load a problem (err %q)", lessonID, l.errMsg)
	}
	return l
}

func moveTo(l *LessonScreen, p graphcheck.Point) {
	for l.grid.Cursor.X < p.X {
		l.Update(keyPress("right"))
	}
	for l.grid.Cursor.X > p.X {
		l.Update(keyPress("left"))
	}
	for l.grid.Cursor.Y < p.Y {
		l.Update(keyPress("up"))
	}
	for l.grid.Cursor.Y > p.Y {
		l.Update(keyPress("down"))
	}
}

// solve enters the correct answer for the current problem through the
// widgets and grades it.
func solve(t *testing.T, l *LessonScreen) {
	t.Helper()
	switch a := l.problem.Answer.(type) {
	case *content.ExpressionAnswer:
		typeText(l, a.Expr)
	case *content.ChoiceAnswer:
		l.Update(keyPress(strconv.Itoa(a.Index + 1)))
	case *content.TableAnswer:
		for _, k := range a.Keys() {
			typeText(l, strconv.FormatFloat(a.Values[k], 'f', -1, 64))
			l.Update(keyPress("tab"))
		}
	case *content.GraphAnswer:
		pts := a.Required
		if len(pts) == 0 {
			// every free graph in the built-in set is y=5-x
			pts = []graphcheck.Point{{X: 1, Y: 4}, {X: 2, Y: 3}}
		}
		for _, p := range pts {
			moveTo(l, p)
			l.Update(keyPress("space"))
		}
	}
	_, cmd := l.Update(keyPress("enter"))
	exec(t, l, cmd)
	if l.result == nil {
		t.Fatalf("problem %s not graded (notice %q)", l.problem.ID, l.notice)
	}
}

// finishLesson solves every problem and returns the screen that replaces
// the lesson.
func finishLesson(t *testing.T, l *LessonScreen) screen.Screen {
	t.Helper()
	for range 10 {
		solve(t, l)
		if !l.result.Correct {
			t.Fatalf("problem %s graded incorrect", l.problem.ID)
		}
		_, cmd := l.Update(keyPress("enter"))
		next := exec(t, l, cmd)
		if l.env.Engine.Phase() != session.PhaseComplete {
			continue
		}
		// the last advance summarizes the attempt
		_, cmd = l.Update(next())
		msg := cmd()
		rep, ok := msg.(router.ReplaceScreenMsg)
		if !ok {
			t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
		}
		return rep.Screen
	}
	t.Fatal("lesson did not finish")
	return nil
}

func TestLessonScreen_ChoiceLesson(t *testing.T) {
	env := newTestEnv(t, content.Focus)
	l := started(t, env, "11.4")

	if l.Title() != "Interpreting Graphs" {
		t.Errorf("Title = %q", l.Title())
	}
	if l.problemType() != content.TypeMultipleChoice {
		t.Fatalf("type = %s, want multiple choice", l.problemType())
	}
	next := finishLesson(t, l)
	if _, ok := next.(*summary.SummaryScreen); !ok {
		t.Fatalf("next screen = %T, want summary", next)
	}
	if !env.Engine.Learner().HasCompleted("11.4") {
		t.Error("lesson not completed")
	}
}

func TestLessonScreen_TableAndGraph(t *testing.T) {
	env := newTestEnv(t, content.Practice)
	l := started(t, env, "11.2")

	seen := map[content.ProblemType]bool{}
	for range 2 {
		seen[l.problemType()] = true
		solve(t, l)
		if !l.result.Correct {
			t.Fatalf("problem %s graded incorrect", l.problem.ID)
		}
		_, cmd := l.Update(keyPress("enter"))
		exec(t, l, cmd)
		if env.Engine.Phase() == session.PhaseComplete {
			break
		}
	}
	if !seen[content.TypeTableCompletion] || !seen[content.TypeGraphing] {
		t.Errorf("saw %v, want table and graph", seen)
	}
}

func TestLessonScreen_DiagnosticPlacesLearner(t *testing.T) {
	env := newTestEnv(t, content.Focus)
	l := started(t, env, content.DiagnosticLessonID)

	finishLesson(t, l)

	st := env.Engine.Learner()
	if st.Path != content.Challenge {
		t.Errorf("Path = %s, want Challenge", st.Path)
	}
	if !st.HasCompleted(content.DiagnosticLessonID) {
		t.Error("diagnostic not completed")
	}
	if env.Engine.Phase() != session.PhaseIdle {
		t.Error("diagnostic attempt still open")
	}
}

func TestLessonScreen_WrongAnswerShowsCorrect(t *testing.T) {
	env := newTestEnv(t, content.Focus)
	l := started(t, env, "11.4")

	a := l.problem.Answer.(*content.ChoiceAnswer)
	wrong := (a.Index+1)%len(l.problem.Options) + 1
	l.Update(keyPress(strconv.Itoa(wrong)))
	_, cmd := l.Update(keyPress("enter"))
	exec(t, l, cmd)

	if l.result == nil || l.result.Correct {
		t.Fatal("expected an incorrect result")
	}
	view := l.View(100, 40)
	if !strings.Contains(view, "Not quite") {
		t.Error("view missing incorrect feedback")
	}
	if !strings.Contains(view, l.problem.CorrectAnswerText(content.EN)) {
		t.Error("view missing correct answer")
	}
}

func TestLessonScreen_EmptyInputNotSubmitted(t *testing.T) {
	env := newTestEnv(t, content.Focus)
	l := started(t, env, "11.3")

	if l.problemType() != content.TypeInput {
		t.Fatalf("type = %s, want input", l.problemType())
	}
	_, cmd := l.Update(keyPress("enter"))
	if cmd != nil {
		t.Error("empty answer should not be graded")
	}
}

func TestLessonScreen_Hint(t *testing.T) {
	env := newTestEnv(t, content.Focus)
	l := started(t, env, "11.3")

	l.Update(keyPress("?"))
	if l.hint == "" {
		t.Error("hint not shown")
	}
	if !env.Engine.Session().HasExplained {
		t.Error("engine not told about the hint")
	}
}

func TestLessonScreen_ScriptedExplanationWithoutTutor(t *testing.T) {
	env := newTestEnv(t, content.Focus)
	l := started(t, env, "11.4")
	solve(t, l)

	_, cmd := l.Update(keyPress("e"))
	if cmd != nil {
		t.Error("no tutor means no background request")
	}
	if l.explanation == "" {
		t.Error("explanation empty")
	}
}

func TestLessonScreen_FeaturesNeedProvider(t *testing.T) {
	env := newTestEnv(t, content.Focus)
	l := started(t, env, "11.4")
	solve(t, l)

	for _, key := range []string{"v", "c"} {
		l.notice = ""
		_, cmd := l.Update(keyPress(key))
		if cmd != nil {
			t.Errorf("%s: expected no command", key)
		}
		if l.notice == "" {
			t.Errorf("%s: expected a notice", key)
		}
		if l.mode != modeFeedback {
			t.Errorf("%s: mode = %d, want feedback", key, l.mode)
		}
	}
}

func TestLessonScreen_QuitConfirm(t *testing.T) {
	env := newTestEnv(t, content.Focus)
	l := started(t, env, "11.4")

	l.Update(keyPress("esc"))
	if l.mode != modeQuitConfirm {
		t.Fatal("expected quit confirmation")
	}
	l.Update(keyPress("n"))
	if l.mode != modeAnswer {
		t.Fatalf("mode = %d after cancel, want answer", l.mode)
	}

	l.Update(keyPress("esc"))
	_, cmd := l.Update(keyPress("y"))
	next := exec(t, l, cmd)
	if _, ok := next().(router.PopScreenMsg); !ok {
		t.Error("expected pop after leaving")
	}
	if env.Engine.Phase() != session.PhaseIdle {
		t.Error("attempt still open after leaving")
	}
}

func TestLessonScreen_StartError(t *testing.T) {
	env := newTestEnv(t, content.Focus)
	l := New(env, "nope")
	exec(t, l, l.Init())

	if l.errMsg == "" {
		t.Fatal("expected an error message")
	}
	_, cmd := l.Update(keyPress("x"))
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("any key should go back")
	}
}

func TestVariationNotice(t *testing.T) {
	if got := variationNotice(session.ErrStaleProblem); got != "" {
		t.Errorf("stale: %q, want empty", got)
	}
	if got := variationNotice(session.ErrVariationNotAllowed); !strings.Contains(got, "hint") {
		t.Errorf("not allowed: %q", got)
	}
	if got := variationNotice(errors.New("boom")); !strings.Contains(got, "boom") {
		t.Errorf("other: %q", got)
	}
}

func TestWriteIllustration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "art")
	path, err := writeIllustration(dir, "11.2_WB/Q3b", "<svg/>")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "11.2_WB_Q3b.svg" {
		t.Errorf("file = %s", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("content = %q", data)
	}
}
