package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/diagnosis"
	"github.com/abhisek/mathpath/internal/graphcheck"
	"github.com/abhisek/mathpath/internal/learner"
	"github.com/abhisek/mathpath/internal/metrics"
)

type fakeSaver struct {
	mu    sync.Mutex
	saved []*learner.State
	err   error
}

func (f *fakeSaver) Save(_ context.Context, st *learner.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, st)
	return f.err
}

func (f *fakeSaver) last() *learner.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) == 0 {
		return nil
	}
	return f.saved[len(f.saved)-1]
}

type fakeGenerator struct {
	mu        sync.Mutex
	variation *content.Problem
	challenge *content.Problem
	err       error
	gate      chan struct{} // when set, Variation blocks until closed
	started   chan struct{} // when set, signalled as Variation begins
	histories [][]learner.HistoryEntry
}

func (g *fakeGenerator) Variation(_ context.Context, p *content.Problem, _ content.Language) (*content.Problem, error) {
	if g.started != nil {
		g.started <- struct{}{}
	}
	if g.gate != nil {
		<-g.gate
	}
	if g.err != nil {
		return nil, g.err
	}
	return g.variation, nil
}

func (g *fakeGenerator) Challenge(_ context.Context, history []learner.HistoryEntry, _ content.Language) (*content.Problem, error) {
	g.mu.Lock()
	g.histories = append(g.histories, history)
	g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return g.challenge, nil
}

func (g *fakeGenerator) Illustration(context.Context, string) (string, error) {
	return "", errors.New("not implemented")
}

type fakeCustom []*content.Problem

func (f fakeCustom) ListCustomProblems(context.Context) ([]*content.Problem, error) {
	return f, nil
}

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, st *learner.State, opts Options) (*Engine, *fakeSaver) {
	t.Helper()
	saver := &fakeSaver{}
	if opts.Saver == nil {
		opts.Saver = saver
	}
	opts.Rand = rand.New(rand.NewPCG(1, 2))
	opts.Now = func() time.Time { return testNow }
	e := New(st, opts)
	t.Cleanup(e.Flush)
	return e, saver
}

func newLearner(path content.Difficulty) *learner.State {
	st := learner.New("Ana", content.EN)
	st.Path = path
	return st
}

func builtinByID(t *testing.T, id string) *content.Problem {
	t.Helper()
	for _, p := range content.Builtin() {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("no built-in problem %q", id)
	return nil
}

// answer fills in a correct (or deliberately wrong) answer for the current
// problem.
func answer(t *testing.T, e *Engine, correct bool) {
	t.Helper()
	p := e.Session().Current()
	if p == nil {
		t.Fatal("no current problem")
	}
	var err error
	switch a := p.Answer.(type) {
	case *content.ExpressionAnswer:
		v := a.Expr
		if !correct {
			v = "999999"
		}
		err = e.SetInput(map[string]string{KeyMain: v})
	case *content.ChoiceAnswer:
		i := a.Index
		if !correct {
			i = (i + 1) % len(p.Options)
		}
		err = e.SetInput(map[string]string{KeyChoice: strconv.Itoa(i)})
	case *content.TableAnswer:
		vals := make(map[string]string)
		for k, v := range a.Values {
			if !correct {
				v += 1
			}
			vals[k] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		err = e.SetInput(vals)
	case *content.GraphAnswer:
		pts := []graphcheck.Point{{X: 0, Y: 5}, {X: 5, Y: 0}}
		if !correct {
			pts = []graphcheck.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}
		}
		err = e.SetGraphPoints(pts)
	default:
		t.Fatalf("unexpected answer type %T", a)
	}
	if err != nil {
		t.Fatalf("set input: %v", err)
	}
}

func grade(t *testing.T, e *Engine, correct bool) *Result {
	t.Helper()
	answer(t, e, correct)
	res, err := e.Grade(context.Background())
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if res.Correct != correct {
		t.Fatalf("problem %s graded %v, want %v", e.Session().Current().ID, res.Correct, correct)
	}
	return res
}

func ids(ps []*content.Problem) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	slices.Sort(out)
	return out
}

func TestStart_IsPermutationOfPool(t *testing.T) {
	for _, lesson := range []string{content.DiagnosticLessonID, "11.1", "11.2", "11.3", "11.4"} {
		t.Run(lesson, func(t *testing.T) {
			st := newLearner(content.Challenge)
			e, _ := newTestEngine(t, st, Options{})

			if err := e.Start(context.Background(), lesson); err != nil {
				t.Fatalf("start: %v", err)
			}
			s := e.Session()
			want := ids(content.LessonProblems(lesson, nil))
			if got := ids(s.Problems); !slices.Equal(got, want) {
				t.Errorf("problems = %v, want %v", got, want)
			}
			if s.Index != 0 || s.Feedback != FeedbackNone || s.Phase != PhaseInProgress {
				t.Errorf("unexpected fresh state: %+v", s)
			}
			if e.Learner().CurrentLessonID != lesson {
				t.Errorf("current lesson = %q", e.Learner().CurrentLessonID)
			}
		})
	}
}

func TestStart_FiltersByPath(t *testing.T) {
	tests := []struct {
		path content.Difficulty
		want []string
	}{
		{content.Focus, []string{"11.3_WB_Q1d", "11.3_WB_Q7a"}},
		{content.Practice, []string{"11.3_WB_Q1d", "11.3_WB_Q7a"}},
		{content.Challenge, []string{"11.3_WB_Q12", "11.3_WB_Q1d", "11.3_WB_Q7a"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.path), func(t *testing.T) {
			e, _ := newTestEngine(t, newLearner(tt.path), Options{})
			if err := e.Start(context.Background(), "11.3"); err != nil {
				t.Fatalf("start: %v", err)
			}
			if got := ids(e.Session().Problems); !slices.Equal(got, tt.want) {
				t.Errorf("problems = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStart_DiagnosticIgnoresPath(t *testing.T) {
	e, _ := newTestEngine(t, newLearner(content.Focus), Options{})
	if err := e.Start(context.Background(), content.DiagnosticLessonID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := ids(e.Session().Problems); !slices.Equal(got, []string{"GS_Q1a", "GS_Q2", "GS_Q4b"}) {
		t.Errorf("problems = %v", got)
	}
}

func TestStart_IncludesCustomProblems(t *testing.T) {
	custom := builtinByID(t, "GS_Q1a").Clone()
	custom.ID = "teacher_1"
	custom.LessonID = "11.1"

	e, _ := newTestEngine(t, newLearner(content.Focus), Options{Custom: fakeCustom{custom}})
	if err := e.Start(context.Background(), "11.1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !slices.Contains(ids(e.Session().Problems), "teacher_1") {
		t.Error("custom problem missing from lesson")
	}
}

func TestStart_Errors(t *testing.T) {
	e, _ := newTestEngine(t, newLearner(content.Focus), Options{})

	if err := e.Start(context.Background(), "nope"); !errors.Is(err, ErrUnknownLesson) {
		t.Errorf("unknown lesson: got %v", err)
	}
	if err := e.Start(context.Background(), content.MasterLessonID); !errors.Is(err, ErrGenerationUnavailable) {
		t.Errorf("master without generator: got %v", err)
	}
	if e.Phase() != PhaseIdle {
		t.Errorf("failed start changed phase to %v", e.Phase())
	}
}

func TestStart_MasterLesson(t *testing.T) {
	boss := builtinByID(t, "11.4_WB_Q8d").Clone()
	boss.ID = "boss_1"
	boss.LessonID = content.MasterLessonID
	gen := &fakeGenerator{challenge: boss}

	st := newLearner(content.Practice)
	for i := 0; i < 30; i++ {
		st.Record("p"+strconv.Itoa(i), "11.1", i%3 == 0, testNow)
	}
	e, _ := newTestEngine(t, st, Options{Generator: gen})

	if err := e.Start(context.Background(), content.MasterLessonID); err != nil {
		t.Fatalf("start: %v", err)
	}
	s := e.Session()
	if len(s.Problems) != 1 || s.Problems[0].ID != "boss_1" {
		t.Fatalf("problems = %v", ids(s.Problems))
	}
	if len(gen.histories) != 1 || len(gen.histories[0]) != HistoryWindow {
		t.Fatalf("challenge should see the last %d answers, got %v", HistoryWindow, gen.histories)
	}
	if gen.histories[0][HistoryWindow-1].ProblemID != "p29" {
		t.Errorf("history should end with the newest answer")
	}
}

func TestStart_MasterFailureKeepsCurrentAttempt(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model down")}
	e, _ := newTestEngine(t, newLearner(content.Focus), Options{Generator: gen})
	if err := e.Start(context.Background(), "11.1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	before := e.Session()

	err := e.Start(context.Background(), content.MasterLessonID)
	if !errors.Is(err, ErrGenerationUnavailable) {
		t.Fatalf("expected ErrGenerationUnavailable, got %v", err)
	}
	after := e.Session()
	if after.LessonID != "11.1" || !slices.Equal(ids(after.Problems), ids(before.Problems)) {
		t.Errorf("failed start replaced the attempt: %+v", after)
	}
	if e.Learner().CurrentLessonID != "11.1" {
		t.Errorf("current lesson = %q", e.Learner().CurrentLessonID)
	}
}

func TestGrade_CorrectAwardsPoints(t *testing.T) {
	tests := []struct {
		name   string
		path   content.Difficulty
		streak int
		want   int
	}{
		{"base", content.Focus, 0, 10},
		{"challenge base", content.Challenge, 0, 20},
		{"small streak", content.Practice, 3, 15},
		{"large streak", content.Focus, 5, 20},
		{"challenge large streak", content.Challenge, 7, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newLearner(tt.path)
			st.Streak = tt.streak
			st.Points = 100
			e, _ := newTestEngine(t, st, Options{})
			if err := e.Start(context.Background(), "11.1"); err != nil {
				t.Fatalf("start: %v", err)
			}

			res := grade(t, e, true)
			if res.Points != tt.want {
				t.Errorf("awarded %d, want %d", res.Points, tt.want)
			}
			got := e.Learner()
			if got.Streak != tt.streak+1 || res.Streak != tt.streak+1 {
				t.Errorf("streak = %d, want %d", got.Streak, tt.streak+1)
			}
			if got.Points != 100+tt.want {
				t.Errorf("points = %d", got.Points)
			}
			if len(got.History) != 1 || !got.History[0].Correct {
				t.Errorf("history = %+v", got.History)
			}
			if e.Session().Feedback != FeedbackCorrect {
				t.Error("feedback should be correct")
			}
		})
	}
}

func TestGrade_IncorrectResetsStreak(t *testing.T) {
	st := newLearner(content.Focus)
	st.Streak = 4
	st.Points = 50
	e, _ := newTestEngine(t, st, Options{})
	if err := e.Start(context.Background(), "11.2"); err != nil {
		t.Fatalf("start: %v", err)
	}

	res := grade(t, e, false)
	if res.Points != 0 || res.Streak != 0 {
		t.Errorf("result = %+v", res)
	}
	got := e.Learner()
	if got.Streak != 0 || got.Points != 50 {
		t.Errorf("streak %d points %d", got.Streak, got.Points)
	}
	if len(got.History) != 1 || got.History[0].Correct {
		t.Errorf("history = %+v", got.History)
	}
	s := e.Session()
	if s.Feedback != FeedbackIncorrect || !s.HasExplained {
		t.Errorf("feedback %v explained %v", s.Feedback, s.HasExplained)
	}
}

func TestGrade_LinearDiagnosis(t *testing.T) {
	e, _ := newTestEngine(t, newLearner(content.Challenge), Options{})
	custom := builtinByID(t, "11.4_WB_Q8d")
	e.mu.Lock()
	e.session = &Session{LessonID: "11.4", Problems: []*content.Problem{custom}, Phase: PhaseInProgress, StartedAt: testNow}
	e.session.resetProblem(testNow)
	e.mu.Unlock()

	if err := e.SetInput(map[string]string{KeyMain: "y=3x+10"}); err != nil {
		t.Fatal(err)
	}
	res, err := e.Grade(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := diagnosis.Feedback("y=3x+10", "y=3x+20", content.EN)
	if want == "" || res.Message != want {
		t.Errorf("message = %q, want %q", res.Message, want)
	}
	if res.Diagnosis == nil || res.Diagnosis.Category != diagnosis.CategoryIntercept {
		t.Errorf("diagnosis = %+v", res.Diagnosis)
	}
	if e.Session().Diagnosis == nil {
		t.Error("session should keep the diagnosis")
	}
}

func TestGrade_NoDiagnosisForNonInput(t *testing.T) {
	e, _ := newTestEngine(t, newLearner(content.Focus), Options{})
	p := builtinByID(t, "GS_Q2")
	e.mu.Lock()
	e.session = &Session{LessonID: "Start", Problems: []*content.Problem{p}, Phase: PhaseInProgress}
	e.session.resetProblem(testNow)
	e.mu.Unlock()

	res := grade(t, e, false)
	if res.Diagnosis != nil || res.Message != "" {
		t.Errorf("multiple choice should not be diagnosed: %+v", res)
	}
}

func TestGrade_LocksInput(t *testing.T) {
	e, _ := newTestEngine(t, newLearner(content.Focus), Options{})
	if err := e.Start(context.Background(), "11.1"); err != nil {
		t.Fatal(err)
	}
	grade(t, e, true)

	if err := e.SetInput(map[string]string{KeyMain: "x"}); !errors.Is(err, ErrAlreadyGraded) {
		t.Errorf("SetInput after grade: %v", err)
	}
	if _, err := e.TogglePoint(graphcheck.Point{X: 1, Y: 1}); !errors.Is(err, ErrAlreadyGraded) {
		t.Errorf("TogglePoint after grade: %v", err)
	}
	if _, err := e.Grade(context.Background()); !errors.Is(err, ErrAlreadyGraded) {
		t.Errorf("second grade: %v", err)
	}
	if len(e.Learner().History) != 1 {
		t.Error("second grade must not record history")
	}
}

func TestOperations_RequireSession(t *testing.T) {
	e, _ := newTestEngine(t, newLearner(content.Focus), Options{})
	ctx := context.Background()

	if _, err := e.Grade(ctx); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Grade: %v", err)
	}
	if err := e.Advance(ctx); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Advance: %v", err)
	}
	if err := e.SetInput(nil); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("SetInput: %v", err)
	}
	if _, err := e.Exit(ctx); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Exit: %v", err)
	}
	if _, err := e.Summary(); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Summary: %v", err)
	}
	if e.Progress() != (Progress{}) {
		t.Error("Progress should be zero when idle")
	}
}

func TestAdvance_CompletesOnce(t *testing.T) {
	e, _ := newTestEngine(t, newLearner(content.Focus), Options{})
	ctx := context.Background()
	if err := e.Start(ctx, "11.3"); err != nil {
		t.Fatal(err)
	}

	if err := e.Advance(ctx); !errors.Is(err, ErrNotGraded) {
		t.Fatalf("advance before grading: %v", err)
	}

	total := len(e.Session().Problems)
	for i := 0; i < total; i++ {
		if p := e.Progress(); p.Index != i {
			t.Fatalf("index = %d, want %d", p.Index, i)
		}
		grade(t, e, i%2 == 0)
		if err := e.Advance(ctx); err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
	}
	if e.Phase() != PhaseComplete {
		t.Fatalf("phase = %v", e.Phase())
	}
	for i := 0; i < 3; i++ {
		if err := e.Advance(ctx); !errors.Is(err, ErrLessonComplete) {
			t.Errorf("advance after completion: %v", err)
		}
	}
	if got := e.Learner().CompletedLessons; !slices.Equal(got, []string{"11.3"}) {
		t.Errorf("completed = %v", got)
	}
	if p := e.Progress(); p.Index != total || p.Answered != total {
		t.Errorf("progress = %+v", p)
	}
}

func TestAdvance_ResetsProblemState(t *testing.T) {
	e, _ := newTestEngine(t, newLearner(content.Focus), Options{})
	ctx := context.Background()
	if err := e.Start(ctx, "11.1"); err != nil {
		t.Fatal(err)
	}
	grade(t, e, false)
	if err := e.Advance(ctx); err != nil {
		t.Fatal(err)
	}
	s := e.Session()
	if s.Feedback != FeedbackNone || s.HasExplained || s.Diagnosis != nil || len(s.Input.Values) != 0 {
		t.Errorf("per-problem state not reset: %+v", s)
	}
	if e.Learner().CurrentProblemIndex != 1 {
		t.Errorf("learner index = %d", e.Learner().CurrentProblemIndex)
	}
}

func runDiagnostic(t *testing.T, correct int) *Engine {
	t.Helper()
	e, _ := newTestEngine(t, newLearner(content.Focus), Options{})
	ctx := context.Background()
	if err := e.Start(ctx, content.DiagnosticLessonID); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		grade(t, e, i < correct)
		if err := e.Advance(ctx); err != nil {
			t.Fatal(err)
		}
	}
	return e
}

func TestDiagnostic_Placement(t *testing.T) {
	tests := []struct {
		correct int
		want    content.Difficulty
	}{
		{3, content.Challenge},
		{2, content.Practice},
		{1, content.Focus},
		{0, content.Focus},
	}
	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.correct)+"/3", func(t *testing.T) {
			e := runDiagnostic(t, tt.correct)
			if e.Learner().HasCompleted(content.DiagnosticLessonID) {
				t.Fatal("diagnostic should not be marked complete before exit")
			}

			placed, err := e.Exit(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if placed != tt.want {
				t.Errorf("placed on %q, want %q", placed, tt.want)
			}
			st := e.Learner()
			if st.Path != tt.want {
				t.Errorf("path = %q", st.Path)
			}
			if !slices.Equal(st.CompletedLessons, []string{content.DiagnosticLessonID}) {
				t.Errorf("completed = %v", st.CompletedLessons)
			}
			if st.CurrentLessonID != "" || e.Phase() != PhaseIdle {
				t.Error("exit should return to idle")
			}
		})
	}
}

func TestExit_MidLessonKeepsPath(t *testing.T) {
	e, _ := newTestEngine(t, newLearner(content.Practice), Options{})
	ctx := context.Background()
	if err := e.Start(ctx, content.DiagnosticLessonID); err != nil {
		t.Fatal(err)
	}
	grade(t, e, true)

	placed, err := e.Exit(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if placed != "" || e.Learner().Path != content.Practice {
		t.Errorf("placed %q path %q", placed, e.Learner().Path)
	}
	if e.Learner().HasCompleted(content.DiagnosticLessonID) {
		t.Error("unfinished diagnostic must not complete")
	}
}

func TestPathForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  content.Difficulty
	}{
		{1, content.Challenge},
		{0.8, content.Challenge},
		{0.79, content.Practice},
		{2.0 / 3.0, content.Practice},
		{0.5, content.Practice},
		{0.49, content.Focus},
		{1.0 / 3.0, content.Focus},
		{0, content.Focus},
	}
	for _, tt := range tests {
		if got := PathForScore(tt.score); got != tt.want {
			t.Errorf("PathForScore(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestRequestVariation(t *testing.T) {
	ctx := context.Background()
	variant := builtinByID(t, "11.1_WB_Q4b").Clone()
	variant.ID = "var_1"
	gen := &fakeGenerator{variation: variant}
	e, _ := newTestEngine(t, newLearner(content.Focus), Options{Generator: gen})
	if err := e.Start(ctx, "11.1"); err != nil {
		t.Fatal(err)
	}

	if err := e.RequestVariation(ctx); !errors.Is(err, ErrVariationNotAllowed) {
		t.Fatalf("before grading: %v", err)
	}
	grade(t, e, false)
	idx := e.Session().Index

	if err := e.RequestVariation(ctx); err != nil {
		t.Fatalf("request variation: %v", err)
	}
	s := e.Session()
	if s.Problems[idx].ID != "var_1" || s.Index != idx {
		t.Errorf("current problem = %s at %d", s.Problems[idx].ID, s.Index)
	}
	if s.Feedback != FeedbackNone || s.HasExplained {
		t.Error("variation should reset per-problem state")
	}
}

func TestRequestVariation_AfterCorrectNotAllowed(t *testing.T) {
	gen := &fakeGenerator{}
	e, _ := newTestEngine(t, newLearner(content.Focus), Options{Generator: gen})
	if err := e.Start(context.Background(), "11.1"); err != nil {
		t.Fatal(err)
	}
	grade(t, e, true)
	if _, err := e.RevealHint(); err != nil {
		t.Fatal(err)
	}
	if err := e.RequestVariation(context.Background()); !errors.Is(err, ErrVariationNotAllowed) {
		t.Fatalf("got %v", err)
	}
}

func TestRequestVariation_FailureLeavesState(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{err: errors.New("model down")}
	e, _ := newTestEngine(t, newLearner(content.Focus), Options{Generator: gen})
	if err := e.Start(ctx, "11.1"); err != nil {
		t.Fatal(err)
	}
	grade(t, e, false)
	before := e.Session()

	if err := e.RequestVariation(ctx); !errors.Is(err, ErrGenerationUnavailable) {
		t.Fatalf("got %v", err)
	}
	after := e.Session()
	if !slices.Equal(ids(after.Problems), ids(before.Problems)) || after.Feedback != FeedbackIncorrect {
		t.Error("failed variation changed the session")
	}

	noGen, _ := newTestEngine(t, newLearner(content.Focus), Options{})
	if err := noGen.Start(ctx, "11.1"); err != nil {
		t.Fatal(err)
	}
	grade(t, noGen, false)
	if err := noGen.RequestVariation(ctx); !errors.Is(err, ErrGenerationUnavailable) {
		t.Fatalf("without generator: %v", err)
	}
}

func TestRequestVariation_DiscardsStaleResult(t *testing.T) {
	ctx := context.Background()
	variant := builtinByID(t, "11.1_WB_Q4b").Clone()
	variant.ID = "var_late"
	gen := &fakeGenerator{
		variation: variant,
		gate:      make(chan struct{}),
		started:   make(chan struct{}, 1),
	}
	e, _ := newTestEngine(t, newLearner(content.Focus), Options{Generator: gen})
	if err := e.Start(ctx, "11.1"); err != nil {
		t.Fatal(err)
	}
	grade(t, e, false)

	done := make(chan error, 1)
	go func() { done <- e.RequestVariation(ctx) }()
	<-gen.started

	// The learner leaves and starts over while the request is in flight.
	if _, err := e.Exit(ctx); err != nil {
		t.Fatal(err)
	}
	if err := e.Start(ctx, "11.1"); err != nil {
		t.Fatal(err)
	}
	close(gen.gate)

	if err := <-done; !errors.Is(err, ErrStaleProblem) {
		t.Fatalf("got %v", err)
	}
	if slices.Contains(ids(e.Session().Problems), "var_late") {
		t.Error("stale variation was applied")
	}
}

func TestContinuePractice(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, newLearner(content.Challenge), Options{})
	if err := e.Start(ctx, "11.2"); err != nil {
		t.Fatal(err)
	}
	if err := e.ContinuePractice(ctx); !errors.Is(err, ErrNotComplete) {
		t.Fatalf("before completion: %v", err)
	}
	pool := ids(e.Session().Problems)
	for range pool {
		grade(t, e, true)
		if err := e.Advance(ctx); err != nil {
			t.Fatal(err)
		}
	}

	if err := e.ContinuePractice(ctx); err != nil {
		t.Fatal(err)
	}
	s := e.Session()
	if s.Phase != PhaseInProgress || s.Index != 0 || s.Answered != 0 {
		t.Errorf("unexpected state: %+v", s)
	}
	if !slices.Equal(ids(s.Problems), pool) {
		t.Errorf("problems = %v, want %v", ids(s.Problems), pool)
	}
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, newLearner(content.Focus), Options{})
	if err := e.Start(ctx, "11.1"); err != nil {
		t.Fatal(err)
	}
	grade(t, e, true)
	if err := e.Advance(ctx); err != nil {
		t.Fatal(err)
	}
	grade(t, e, false)

	sum, err := e.Summary()
	if err != nil {
		t.Fatal(err)
	}
	if sum.Answered != 2 || sum.Correct != 1 || sum.Accuracy != 0.5 || sum.PointsEarned != 10 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.LessonID != "11.1" || sum.Diagnostic {
		t.Errorf("summary = %+v", sum)
	}
}

func TestRevealHint(t *testing.T) {
	e, _ := newTestEngine(t, newLearner(content.Focus), Options{})
	if err := e.Start(context.Background(), "11.1"); err != nil {
		t.Fatal(err)
	}
	hint, err := e.RevealHint()
	if err != nil {
		t.Fatal(err)
	}
	if hint != e.Session().Current().Tutor.Hint.Get(content.EN) || hint == "" {
		t.Errorf("hint = %q", hint)
	}
	if !e.Session().HasExplained {
		t.Error("hint should set has-explained")
	}
	if e.Session().Feedback != FeedbackNone {
		t.Error("hint must not grade")
	}
}

func TestSaves_LastStateWins(t *testing.T) {
	ctx := context.Background()
	e, saver := newTestEngine(t, newLearner(content.Focus), Options{})
	if err := e.Start(ctx, "11.1"); err != nil {
		t.Fatal(err)
	}
	grade(t, e, true)
	if err := e.Advance(ctx); err != nil {
		t.Fatal(err)
	}
	grade(t, e, true)
	e.Flush()

	last := saver.last()
	want := e.Learner()
	if last == nil || last.Points != want.Points || len(last.History) != len(want.History) {
		t.Fatalf("last saved %+v, want %+v", last, want)
	}
	if !last.UpdatedAt.Equal(testNow) {
		t.Errorf("updated at = %v", last.UpdatedAt)
	}
}

func TestSaves_FailureIsNotSurfaced(t *testing.T) {
	saver := &fakeSaver{err: errors.New("disk full")}
	e, _ := newTestEngine(t, newLearner(content.Focus), Options{Saver: saver})
	if err := e.Start(context.Background(), "11.1"); err != nil {
		t.Fatalf("start should not fail on save errors: %v", err)
	}
	grade(t, e, true)
	e.Flush()
	if saver.last() == nil {
		t.Fatal("expected a save attempt")
	}
}

func TestUpdate(t *testing.T) {
	st := newLearner(content.Focus)
	st.Points = 60
	e, saver := newTestEngine(t, st, Options{})

	if err := e.Update(context.Background(), func(st *learner.State) error { return st.Unlock("av_robot") }); err != nil {
		t.Fatal(err)
	}
	if err := e.Update(context.Background(), func(st *learner.State) error { return st.Unlock("av_cat") }); !errors.Is(err, learner.ErrInsufficientPoints) {
		t.Fatalf("got %v", err)
	}
	e.Flush()
	if got := e.Learner(); got.Points != 10 || !got.Owns("av_robot") {
		t.Errorf("learner = %+v", got)
	}
	if saver.last() == nil || saver.last().Points != 10 {
		t.Error("update should be saved")
	}
}

func TestEngine_CloseReleasesActiveSession(t *testing.T) {
	e, _ := newTestEngine(t, newLearner(content.Practice), Options{})
	before := testutil.ToFloat64(metrics.ActiveSessions)

	if err := e.Start(context.Background(), "11.1"); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(metrics.ActiveSessions); got != before+1 {
		t.Fatalf("active sessions = %v after Start, want %v", got, before+1)
	}

	e.Close()
	e.Close()
	if got := testutil.ToFloat64(metrics.ActiveSessions); got != before {
		t.Errorf("active sessions = %v after Close, want %v", got, before)
	}
	if e.Phase() != PhaseIdle {
		t.Error("attempt still open after Close")
	}
	if _, err := e.Exit(context.Background()); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Exit after Close = %v, want ErrNoActiveSession", err)
	}
}
