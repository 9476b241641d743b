// Package session runs lesson attempts: it serves a shuffled problem set,
// grades answers, keeps score and places learners on a difficulty path
// after the diagnostic lesson.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/diagnosis"
	"github.com/abhisek/mathpath/internal/graphcheck"
	"github.com/abhisek/mathpath/internal/learner"
	"github.com/abhisek/mathpath/internal/logging"
	"github.com/abhisek/mathpath/internal/metrics"
	"github.com/abhisek/mathpath/internal/problemgen"
)

// Engine errors callers branch on.
var (
	ErrNoActiveSession       = errors.New("no lesson in progress")
	ErrUnknownLesson         = errors.New("unknown lesson")
	ErrNoProblems            = errors.New("no problems for this lesson")
	ErrLessonComplete        = errors.New("lesson already complete")
	ErrNotComplete           = errors.New("lesson not complete yet")
	ErrNotGraded             = errors.New("current problem not graded yet")
	ErrAlreadyGraded         = errors.New("current problem already graded")
	ErrVariationNotAllowed   = errors.New("variation needs a wrong answer and a revealed hint")
	ErrStaleProblem          = errors.New("problem changed while generating")
	ErrGenerationUnavailable = errors.New("problem generation unavailable")
)

// HistoryWindow is how many recent answers inform a challenge problem.
const HistoryWindow = 20

// CustomSource lists teacher-authored problems. store.ProblemRepo
// satisfies it.
type CustomSource interface {
	ListCustomProblems(ctx context.Context) ([]*content.Problem, error)
}

// Options wires the engine's collaborators. Every field is optional;
// without Diagnosis only rule-based diagnosis runs.
type Options struct {
	Custom    CustomSource
	Generator problemgen.Generator
	Diagnosis *diagnosis.Service
	Saver     Saver
	Rand      *rand.Rand
	Now       func() time.Time
}

// Engine owns one learner and their current lesson attempt. Methods are
// safe to call from multiple goroutines; generation calls run without
// holding the lock.
type Engine struct {
	custom    CustomSource
	generator problemgen.Generator
	diagnosis *diagnosis.Service
	saver     *asyncSaver
	now       func() time.Time

	mu      sync.Mutex
	rand    *rand.Rand
	learner *learner.State
	session *Session
}

// New creates an engine for st. The engine takes ownership of st.
func New(st *learner.State, opts Options) *Engine {
	st.Normalize()
	e := &Engine{
		custom:    opts.Custom,
		generator: opts.Generator,
		diagnosis: opts.Diagnosis,
		saver:     newAsyncSaver(opts.Saver),
		now:       opts.Now,
		rand:      opts.Rand,
		learner:   st,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.diagnosis == nil {
		e.diagnosis = diagnosis.NewService(nil)
	}
	if e.rand == nil {
		e.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e
}

// Learner returns a copy of the learner state.
func (e *Engine) Learner() *learner.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.learner.Clone()
}

// Session returns a copy of the current attempt, or nil when idle.
func (e *Engine) Session() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil
	}
	return e.session.snapshot()
}

// Phase returns the lifecycle phase of the current attempt.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return PhaseIdle
	}
	return e.session.Phase
}

// CanGenerate reports whether a generator is configured.
func (e *Engine) CanGenerate() bool { return e.generator != nil }

// Flush waits for queued learner saves to finish.
func (e *Engine) Flush() { e.saver.wait() }

// Close drops any open attempt without placing the learner, then flushes.
// It is safe to call more than once.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.session != nil {
		e.session = nil
		metrics.ActiveSessions.Dec()
	}
	e.mu.Unlock()
	e.Flush()
}

// Start begins an attempt at lessonID, replacing any current attempt. The
// master lesson is a single generated challenge problem; if generation
// fails nothing changes.
func (e *Engine) Start(ctx context.Context, lessonID string) error {
	lesson, ok := content.LessonByID(lessonID)
	if !ok {
		return fmt.Errorf("start %q: %w", lessonID, ErrUnknownLesson)
	}

	var problems []*content.Problem
	if lesson.Kind == content.KindMaster {
		p, err := e.challenge(ctx)
		if err != nil {
			return err
		}
		problems = []*content.Problem{p}
	} else {
		problems = e.pool(ctx, lesson)
		if len(problems) == 0 {
			return fmt.Errorf("start %q: %w", lessonID, ErrNoProblems)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		metrics.ActiveSessions.Inc()
	}
	now := e.now()
	e.session = &Session{
		LessonID:  lessonID,
		Problems:  Shuffle(e.rand, problems),
		Phase:     PhaseInProgress,
		StartedAt: now,
	}
	e.session.resetProblem(now)

	e.learner.CurrentLessonID = lessonID
	e.learner.CurrentProblemIndex = 0
	e.saveLocked(ctx)

	logger := logging.FromContext(ctx)
	logger.Debug().
		Str("user_id", e.learner.UserID).
		Str("lesson_id", lessonID).
		Int("problems", len(problems)).
		Msg("lesson started")
	return nil
}

// pool is the built-in and custom problems for lesson, filtered by the
// learner's path outside the diagnostic.
func (e *Engine) pool(ctx context.Context, lesson content.Lesson) []*content.Problem {
	var custom []*content.Problem
	if e.custom != nil {
		var err error
		custom, err = e.custom.ListCustomProblems(ctx)
		if err != nil {
			logger := logging.FromContext(ctx)
			logger.Warn().Err(err).Str("lesson_id", lesson.ID).Msg("list custom problems")
		}
	}
	ps := content.LessonProblems(lesson.ID, custom)
	if lesson.Kind == content.KindDiagnostic {
		return ps
	}
	e.mu.Lock()
	path := e.learner.Path
	e.mu.Unlock()
	return FilterByPath(ps, path)
}

func (e *Engine) challenge(ctx context.Context) (*content.Problem, error) {
	if e.generator == nil {
		return nil, ErrGenerationUnavailable
	}
	e.mu.Lock()
	history := e.learner.RecentHistory(HistoryWindow)
	lang := e.learner.Language
	e.mu.Unlock()

	p, err := e.generator.Challenge(ctx, history, lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
	}
	return p, nil
}

// active returns the attempt with a current problem. Callers hold mu.
func (e *Engine) active() (*Session, error) {
	if e.session == nil {
		return nil, ErrNoActiveSession
	}
	if e.session.Phase == PhaseComplete {
		return nil, ErrLessonComplete
	}
	return e.session, nil
}

// editable returns the attempt if its input may still change. Callers
// hold mu.
func (e *Engine) editable() (*Session, error) {
	s, err := e.active()
	if err != nil {
		return nil, err
	}
	if s.Feedback != FeedbackNone {
		return nil, ErrAlreadyGraded
	}
	return s, nil
}

// SetInput merges values into the input buffer: KeyMain for typed answers,
// KeyChoice for the option index, x labels for table cells. Inputs are
// locked once the problem is graded.
func (e *Engine) SetInput(values map[string]string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.editable()
	if err != nil {
		return err
	}
	for k, v := range values {
		s.Input.Values[k] = v
	}
	return nil
}

// SetGraphPoints replaces the plotted points. Off-grid points are dropped.
func (e *Engine) SetGraphPoints(pts []graphcheck.Point) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.editable()
	if err != nil {
		return err
	}
	s.Input.Points = graphcheck.NewPointSet(pts...)
	return nil
}

// TogglePoint plots p, or removes it if already plotted. It reports whether
// p is plotted afterwards.
func (e *Engine) TogglePoint(p graphcheck.Point) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.editable()
	if err != nil {
		return false, err
	}
	return s.Input.Points.Toggle(p), nil
}

// RevealHint marks the current problem's hint as seen and returns it.
func (e *Engine) RevealHint() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.active()
	if err != nil {
		return "", err
	}
	s.HasExplained = true
	return s.Current().Tutor.Hint.Get(e.learner.Language), nil
}

// Result is the outcome of grading one answer.
type Result struct {
	Correct bool
	Points  int // awarded for this answer
	Streak  int // after this answer

	// Message is a localized diagnostic for a wrong input answer, if any.
	Message   string
	Diagnosis *diagnosis.DiagnosisResult
}

// Grade checks the input buffer against the current problem, updates score,
// streak and history, and locks the input.
func (e *Engine) Grade(ctx context.Context) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.editable()
	if err != nil {
		return nil, err
	}
	p := s.Current()
	now := e.now()

	res := &Result{Correct: Check(p, s.Input)}
	s.Answered++
	if res.Correct {
		s.Feedback = FeedbackCorrect
		res.Points = Award(e.learner.Path, e.learner.Streak)
		e.learner.AddPoints(res.Points)
		e.learner.IncrementStreak()
		s.Correct++
		s.PointsEarned += res.Points
	} else {
		s.Feedback = FeedbackIncorrect
		s.HasExplained = true
		e.learner.ResetStreak()
		if p.Type() == content.TypeInput {
			s.Diagnosis = e.diagnose(ctx, s, p, now)
			res.Diagnosis = s.Diagnosis
			if s.Diagnosis != nil {
				res.Message = s.Diagnosis.Feedback
			}
		}
	}
	res.Streak = e.learner.Streak
	e.learner.Record(p.ID, p.LessonID, res.Correct, now)

	metrics.AnswersGraded.WithLabelValues(string(p.Type()), metrics.Outcome(res.Correct)).Inc()
	logger := logging.FromContext(ctx)
	logger.Debug().
		Str("problem_id", p.ID).
		Str("answer", answerText(p, s.Input)).
		Bool("correct", res.Correct).
		Int("points", res.Points).
		Msg("answer graded")
	e.saveLocked(ctx)
	return res, nil
}

// diagnose classifies a wrong input answer. A late LLM diagnosis replaces
// the rule-based one only while the same problem is still current.
// Callers hold mu.
func (e *Engine) diagnose(ctx context.Context, s *Session, p *content.Problem, now time.Time) *diagnosis.DiagnosisResult {
	input := &diagnosis.ClassifyInput{
		Problem:        p,
		LearnerAnswer:  answerText(p, s.Input),
		Language:       e.learner.Language,
		ResponseTimeMs: int(now.Sub(s.shownAt).Milliseconds()),
		Accuracy:       e.learner.Accuracy(),
		Answered:       len(e.learner.History),
	}
	return e.diagnosis.Diagnose(ctx, input, func(late *diagnosis.DiagnosisResult) {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.session != s || s.Current() != p || s.Feedback != FeedbackIncorrect {
			return
		}
		s.Diagnosis = late
	})
}

// Advance moves to the next problem once the current one is graded. Past
// the last problem the attempt completes, and the lesson is marked done
// unless it is the diagnostic.
func (e *Engine) Advance(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.active()
	if err != nil {
		return err
	}
	if s.Feedback == FeedbackNone {
		return ErrNotGraded
	}

	if s.Index+1 < len(s.Problems) {
		s.Index++
		s.resetProblem(e.now())
		e.learner.CurrentProblemIndex = s.Index
		e.saveLocked(ctx)
		return nil
	}

	s.Phase = PhaseComplete
	if !s.IsDiagnostic() && e.learner.CompleteLesson(s.LessonID) {
		metrics.LessonsCompleted.WithLabelValues(s.LessonID).Inc()
	}
	e.saveLocked(ctx)
	return nil
}

// RequestVariation swaps the current problem for a generated one with the
// same type, lesson and difficulty. It is allowed after a wrong answer once
// the hint was seen. On failure nothing changes.
func (e *Engine) RequestVariation(ctx context.Context) error {
	e.mu.Lock()
	s, err := e.active()
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if s.Feedback != FeedbackIncorrect || !s.HasExplained {
		e.mu.Unlock()
		return ErrVariationNotAllowed
	}
	if e.generator == nil {
		e.mu.Unlock()
		return ErrGenerationUnavailable
	}
	orig, idx, lang := s.Current(), s.Index, e.learner.Language
	e.mu.Unlock()

	p, err := e.generator.Variation(ctx, orig, lang)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != s || s.Phase != PhaseInProgress || s.Index != idx || s.Problems[idx] != orig {
		logger := logging.FromContext(ctx)
		logger.Debug().Str("problem_id", orig.ID).Msg("discarding stale variation")
		return ErrStaleProblem
	}
	s.Problems[idx] = p
	s.resetProblem(e.now())
	return nil
}

// ContinuePractice restarts a completed attempt on the same problems in a
// new order.
func (e *Engine) ContinuePractice(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.session
	if s == nil {
		return ErrNoActiveSession
	}
	if s.Phase != PhaseComplete {
		return ErrNotComplete
	}
	now := e.now()
	s.Problems = Shuffle(e.rand, s.Problems)
	s.Index = 0
	s.Phase = PhaseInProgress
	s.Answered, s.Correct, s.PointsEarned = 0, 0, 0
	s.StartedAt = now
	s.resetProblem(now)

	e.learner.CurrentProblemIndex = 0
	e.saveLocked(ctx)
	return nil
}

// Exit ends the attempt. Leaving a completed diagnostic places the learner
// on a path, which is returned; otherwise the returned path is empty.
func (e *Engine) Exit(ctx context.Context) (content.Difficulty, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.session
	if s == nil {
		return "", ErrNoActiveSession
	}

	var placed content.Difficulty
	if s.IsDiagnostic() && s.Phase == PhaseComplete {
		placed = PathForScore(e.diagnosticScore(s))
		e.learner.SetPath(placed)
		e.learner.CompleteLesson(s.LessonID)
		metrics.Placements.WithLabelValues(string(placed)).Inc()
		logger := logging.FromContext(ctx)
		logger.Info().
			Str("user_id", e.learner.UserID).
			Str("path", string(placed)).
			Msg("diagnostic placement")
	}

	e.session = nil
	metrics.ActiveSessions.Dec()
	e.learner.CurrentLessonID = ""
	e.learner.CurrentProblemIndex = 0
	e.saveLocked(ctx)
	return placed, nil
}

// diagnosticScore is the fraction of the attempt's problems the learner has
// ever answered correctly. Callers hold mu.
func (e *Engine) diagnosticScore(s *Session) float64 {
	if len(s.Problems) == 0 {
		return 0
	}
	solved := 0
	for _, p := range s.Problems {
		if e.learner.AnsweredCorrectly(p.ID) {
			solved++
		}
	}
	return float64(solved) / float64(len(s.Problems))
}

// Update applies fn to the learner state and saves it, e.g. for shop
// purchases or a language change. fn's error aborts the save; fn must leave
// the state unchanged when it fails.
func (e *Engine) Update(ctx context.Context, fn func(st *learner.State) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(e.learner); err != nil {
		return err
	}
	e.saveLocked(ctx)
	return nil
}

// saveLocked queues a snapshot of the learner. Callers hold mu.
func (e *Engine) saveLocked(ctx context.Context) {
	st := e.learner.Clone()
	st.UpdatedAt = e.now()
	e.learner.UpdatedAt = st.UpdatedAt
	e.saver.save(ctx, st)
}
