// Package lesson is the problem screen. It shows one problem at a time,
// collects the answer in a widget matching the problem type and drives the
// session engine through grading, help and advancing.
package lesson

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/logging"
	"github.com/abhisek/mathpath/internal/router"
	"github.com/abhisek/mathpath/internal/screen"
	"github.com/abhisek/mathpath/internal/screens/summary"
	"github.com/abhisek/mathpath/internal/session"
	"github.com/abhisek/mathpath/internal/tutor"
	"github.com/abhisek/mathpath/internal/ui/components"
	"github.com/abhisek/mathpath/internal/ui/layout"
)

type mode int

const (
	modeAnswer mode = iota
	modeFeedback
	modeChat
	modeQuitConfirm
)

// DefaultIllustrationDir is used when the environment names none.
const DefaultIllustrationDir = "illustrations"

const explainPollInterval = 150 * time.Millisecond

// LessonScreen implements screen.Screen for an attempt in progress.
type LessonScreen struct {
	env      *screen.Env
	lessonID string // empty when resuming

	sess     *session.Session
	problem  *content.Problem
	mode     mode
	prevMode mode
	busy     string // non-empty while a command is running

	input    components.TextInput
	choice   components.MultiChoice
	cells    []components.TextInput
	cellKeys []string
	cell     int
	grid     components.GraphGrid

	result      *session.Result
	hint        string
	explanation string
	explaining  bool
	notice      string
	errMsg      string

	conv        *tutor.Conversation
	chatInput   components.TextInput
	chatPending string
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)

// New creates a screen that starts lessonID when initialized.
func New(env *screen.Env, lessonID string) *LessonScreen {
	return &LessonScreen{env: env, lessonID: lessonID}
}

// Resume creates a screen for the engine's current attempt.
func Resume(env *screen.Env) *LessonScreen {
	return &LessonScreen{env: env}
}

func (l *LessonScreen) Init() tea.Cmd {
	if l.lessonID == "" {
		return func() tea.Msg { return startedMsg{} }
	}
	env, id := l.env, l.lessonID
	l.busy = "Loading lesson..."
	return func() tea.Msg {
		return startedMsg{Err: env.Engine.Start(env.Context(), id)}
	}
}

func (l *LessonScreen) Title() string {
	id := l.lessonID
	if l.sess != nil {
		id = l.sess.LessonID
	}
	if lesson, ok := content.LessonByID(id); ok {
		return lesson.Title.Get(l.lang())
	}
	return "Lesson"
}

func (l *LessonScreen) KeyHints() []layout.KeyHint {
	if l.errMsg != "" {
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	switch l.mode {
	case modeQuitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave lesson"},
			{Key: "N", Description: "Keep going"},
		}
	case modeChat:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Send"},
			{Key: "Esc", Description: "Close chat"},
		}
	case modeFeedback:
		hints := []layout.KeyHint{{Key: "Enter", Description: "Next"}}
		if l.result != nil && !l.result.Correct {
			hints = append(hints, layout.KeyHint{Key: "?", Description: "Hint"})
			if l.env.Engine.CanGenerate() {
				hints = append(hints, layout.KeyHint{Key: "V", Description: "New version"})
			}
		}
		hints = append(hints, layout.KeyHint{Key: "E", Description: "Explain"})
		if l.env.Tutor != nil {
			hints = append(hints, layout.KeyHint{Key: "C", Description: "Chat"})
		}
		if l.problem != nil && l.problem.Illustration != "" && l.env.Generator != nil {
			hints = append(hints, layout.KeyHint{Key: "I", Description: "Illustrate"})
		}
		return hints
	}

	hints := []layout.KeyHint{{Key: "Enter", Description: "Check"}}
	switch l.problemType() {
	case content.TypeGraphing:
		hints = append(hints,
			layout.KeyHint{Key: "←↑↓→", Description: "Move"},
			layout.KeyHint{Key: "Space", Description: "Plot"})
	case content.TypeTableCompletion:
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Next cell"})
	case content.TypeMultipleChoice:
		hints = append(hints, layout.KeyHint{Key: "↑↓", Description: "Choose"})
	}
	return append(hints,
		layout.KeyHint{Key: "?", Description: "Hint"},
		layout.KeyHint{Key: "Esc", Description: "Leave"})
}

func (l *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		l.busy = ""
		if msg.Err != nil {
			l.errMsg = "Could not start the lesson: " + msg.Err.Error()
			return l, nil
		}
		return l, l.sync()

	case gradedMsg:
		return l.handleGraded(msg)

	case advancedMsg:
		if msg.Err != nil {
			l.busy = ""
			l.notice = msg.Err.Error()
			return l, nil
		}
		if l.env.Engine.Phase() == session.PhaseComplete {
			l.busy = "Wrapping up..."
			return l, l.finish()
		}
		l.busy = ""
		return l, l.sync()

	case variationMsg:
		l.busy = ""
		if msg.Err != nil {
			l.notice = variationNotice(msg.Err)
			return l, nil
		}
		return l, l.sync()

	case finishedMsg:
		l.busy = ""
		if msg.Err != nil {
			l.errMsg = msg.Err.Error()
			return l, nil
		}
		var resume func() screen.Screen
		if !msg.Summary.Diagnostic {
			env := l.env
			resume = func() screen.Screen { return Resume(env) }
		}
		next := summary.New(l.env, msg.Summary, msg.Placed, resume)
		return l, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case explainTickMsg:
		return l.handleExplainTick()

	case chatReplyMsg:
		l.chatPending = ""
		if msg.Err != nil {
			l.notice = "The tutor did not answer: " + msg.Err.Error()
		}
		return l, nil

	case illustrationMsg:
		l.busy = ""
		if msg.Err != nil {
			l.notice = "Could not draw the illustration: " + msg.Err.Error()
		} else {
			l.notice = "Illustration saved to " + msg.Path
		}
		return l, nil

	case exitedMsg:
		return l, func() tea.Msg { return router.PopScreenMsg{} }

	case tea.KeyPressMsg:
		return l.handleKey(msg)
	}
	return l, nil
}

func (l *LessonScreen) lang() content.Language {
	return l.env.Engine.Learner().Language
}

func (l *LessonScreen) problemType() content.ProblemType {
	if l.problem == nil {
		return ""
	}
	return l.problem.Type()
}

// sync refreshes the attempt snapshot and rebuilds the widgets when the
// current problem changed.
func (l *LessonScreen) sync() tea.Cmd {
	l.sess = l.env.Engine.Session()
	if l.sess == nil {
		l.errMsg = "No lesson in progress."
		return nil
	}
	p := l.sess.Current()
	if p == nil || p == l.problem {
		return nil
	}
	return l.load(p)
}

// load resets the per-problem UI state for p.
func (l *LessonScreen) load(p *content.Problem) tea.Cmd {
	l.problem = p
	l.mode = modeAnswer
	l.result = nil
	l.hint, l.explanation, l.notice = "", "", ""
	l.explaining = false
	l.conv = &tutor.Conversation{}
	l.chatPending = ""

	lang := l.lang()
	switch a := p.Answer.(type) {
	case *content.ExpressionAnswer:
		l.input = components.NewTextInput("Type your answer...", false, 40)
		return l.input.Focus()
	case *content.ChoiceAnswer:
		opts := make([]string, len(p.Options))
		for i, o := range p.Options {
			opts[i] = o.Get(lang)
		}
		l.choice = components.NewMultiChoice(opts)
	case *content.TableAnswer:
		l.cellKeys = a.Keys()
		l.cells = make([]components.TextInput, len(l.cellKeys))
		for i := range l.cells {
			l.cells[i] = components.NewTextInput("?", true, 8)
			l.cells[i].Blur()
		}
		l.cell = 0
		if len(l.cells) > 0 {
			return l.cells[0].Focus()
		}
	case *content.GraphAnswer:
		l.grid = components.NewGraphGrid()
	}
	return nil
}

func (l *LessonScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if l.errMsg != "" {
		return l, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if l.sess == nil || l.problem == nil || l.busy != "" {
		return l, nil
	}

	switch l.mode {
	case modeQuitConfirm:
		switch msg.String() {
		case "y", "Y":
			return l, l.exit()
		case "n", "N", "esc":
			l.mode = l.prevMode
		}
		return l, nil
	case modeChat:
		return l.handleChatKey(msg)
	case modeFeedback:
		return l.handleFeedbackKey(msg.String())
	}
	return l.handleAnswerKey(msg)
}

func (l *LessonScreen) handleAnswerKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch key {
	case "esc":
		l.confirmQuit()
		return l, nil
	case "?":
		l.revealHint()
		return l, nil
	case "enter":
		return l, l.submit()
	}

	var cmd tea.Cmd
	switch l.problem.Answer.(type) {
	case *content.ExpressionAnswer:
		l.input, cmd = l.input.Update(msg)
	case *content.ChoiceAnswer:
		l.choice = l.choice.Update(msg)
	case *content.TableAnswer:
		switch key {
		case "tab", "down":
			cmd = l.focusCell(l.cell + 1)
		case "shift+tab", "up":
			cmd = l.focusCell(l.cell - 1)
		default:
			if len(l.cells) > 0 {
				l.cells[l.cell], cmd = l.cells[l.cell].Update(msg)
			}
		}
	case *content.GraphAnswer:
		var toggle bool
		l.grid, toggle = l.grid.Update(msg)
		if toggle {
			if _, err := l.env.Engine.TogglePoint(l.grid.Cursor); err != nil {
				l.notice = err.Error()
			}
			l.sess = l.env.Engine.Session()
		}
	}
	return l, cmd
}

// focusCell moves the table cursor, wrapping at both ends.
func (l *LessonScreen) focusCell(i int) tea.Cmd {
	n := len(l.cells)
	if n == 0 {
		return nil
	}
	l.cells[l.cell].Blur()
	l.cell = (i%n + n) % n
	return l.cells[l.cell].Focus()
}

func (l *LessonScreen) confirmQuit() {
	l.prevMode = l.mode
	l.mode = modeQuitConfirm
}

func (l *LessonScreen) revealHint() {
	hint, err := l.env.Engine.RevealHint()
	if err != nil {
		l.notice = err.Error()
		return
	}
	if hint == "" {
		hint = "No hint for this one. Try the explanation."
	}
	l.hint = hint
}

// submit copies the widget values into the engine and grades them.
func (l *LessonScreen) submit() tea.Cmd {
	values := make(map[string]string)
	switch l.problem.Answer.(type) {
	case *content.ExpressionAnswer:
		v := l.input.Value()
		if v == "" {
			return nil
		}
		values[session.KeyMain] = v
	case *content.ChoiceAnswer:
		values[session.KeyChoice] = strconv.Itoa(l.choice.Selected)
	case *content.TableAnswer:
		for i, k := range l.cellKeys {
			v := l.cells[i].Value()
			if v == "" {
				l.notice = "Fill in every cell first."
				return l.focusCell(i)
			}
			values[k] = v
		}
	case *content.GraphAnswer:
		if l.sess.Input.Points.Len() == 0 {
			l.notice = "Plot at least one point first."
			return nil
		}
	}
	if len(values) > 0 {
		if err := l.env.Engine.SetInput(values); err != nil {
			l.notice = err.Error()
			return nil
		}
	}

	l.notice = ""
	l.busy = "Checking..."
	env := l.env
	return func() tea.Msg {
		res, err := env.Engine.Grade(env.Context())
		return gradedMsg{Result: res, Err: err}
	}
}

func (l *LessonScreen) handleGraded(msg gradedMsg) (screen.Screen, tea.Cmd) {
	l.busy = ""
	if msg.Err != nil {
		l.notice = msg.Err.Error()
		return l, nil
	}
	l.result = msg.Result
	l.mode = modeFeedback
	l.sess = l.env.Engine.Session()

	switch a := l.problem.Answer.(type) {
	case *content.ExpressionAnswer:
		l.input.Submit(msg.Result.Correct)
		l.input.Blur()
	case *content.ChoiceAnswer:
		l.choice.Reveal(a.Index)
	case *content.TableAnswer:
		for i := range l.cells {
			l.cells[i].Submit(msg.Result.Correct)
			l.cells[i].Blur()
		}
	}
	return l, nil
}

func (l *LessonScreen) handleFeedbackKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "enter", "n":
		l.busy = "Loading..."
		env := l.env
		return l, func() tea.Msg {
			return advancedMsg{Err: env.Engine.Advance(env.Context())}
		}
	case "?":
		l.revealHint()
	case "e":
		return l, l.explain()
	case "v":
		return l, l.variation()
	case "c":
		return l, l.openChat()
	case "i":
		return l, l.illustrate()
	case "esc":
		l.confirmQuit()
	}
	return l, nil
}

// explain shows the scripted explanation, or asks the tutor for one when a
// provider is configured.
func (l *LessonScreen) explain() tea.Cmd {
	if l.explaining {
		return nil
	}
	if l.env.Tutor == nil {
		l.explanation = l.scriptedExplanation()
		return nil
	}
	l.explaining = true
	l.env.Tutor.RequestExplanation(l.env.Context(), l.problem, l.lang())
	return explainTick()
}

func (l *LessonScreen) scriptedExplanation() string {
	if text := l.problem.Tutor.Explanation.Get(l.lang()); text != "" {
		return text
	}
	return "The answer is " + l.problem.CorrectAnswerText(l.lang()) + "."
}

func explainTick() tea.Cmd {
	return tea.Tick(explainPollInterval, func(t time.Time) tea.Msg {
		return explainTickMsg(t)
	})
}

func (l *LessonScreen) handleExplainTick() (screen.Screen, tea.Cmd) {
	if !l.explaining || l.env.Tutor == nil {
		return l, nil
	}
	ex, ok := l.env.Tutor.ConsumeExplanation()
	if !ok {
		return l, explainTick()
	}
	l.explaining = false
	if ex.Err != nil {
		logger := logging.FromContext(l.env.Context())
		logger.Warn().Err(ex.Err).Str("problem_id", l.problem.ID).Msg("explanation failed")
		l.explanation = l.scriptedExplanation()
		return l, nil
	}
	l.explanation = ex.Text
	return l, nil
}

func (l *LessonScreen) variation() tea.Cmd {
	if !l.env.Engine.CanGenerate() {
		l.notice = "New versions need an AI provider."
		return nil
	}
	l.busy = "Writing a new version..."
	env := l.env
	return func() tea.Msg {
		return variationMsg{Err: env.Engine.RequestVariation(env.Context())}
	}
}

func variationNotice(err error) string {
	switch {
	case errors.Is(err, session.ErrVariationNotAllowed):
		return "After a wrong answer, look at the hint (?) and then ask for a new version."
	case errors.Is(err, session.ErrStaleProblem):
		return ""
	}
	return "Could not write a new version: " + err.Error()
}

func (l *LessonScreen) openChat() tea.Cmd {
	if l.env.Tutor == nil {
		l.notice = "Chat needs an AI provider."
		return nil
	}
	l.prevMode = l.mode
	l.mode = modeChat
	l.chatInput = components.NewTextInput("Ask the tutor...", false, 280)
	return l.chatInput.Focus()
}

func (l *LessonScreen) handleChatKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		l.mode = l.prevMode
		l.chatInput.Blur()
		return l, nil
	case "enter":
		text := l.chatInput.Value()
		if text == "" || l.chatPending != "" {
			return l, nil
		}
		l.chatPending = text
		l.chatInput.Model.SetValue("")
		env, p, conv, lang := l.env, l.problem, l.conv, l.lang()
		return l, func() tea.Msg {
			reply, err := env.Tutor.Chat(env.Context(), text, p, conv, lang)
			return chatReplyMsg{Reply: reply, Err: err}
		}
	}
	var cmd tea.Cmd
	l.chatInput, cmd = l.chatInput.Update(msg)
	return l, cmd
}

// illustrate generates the problem's artwork and writes it as an SVG file.
func (l *LessonScreen) illustrate() tea.Cmd {
	switch {
	case l.problem.Illustration == "":
		l.notice = "This problem has no illustration."
		return nil
	case l.env.Generator == nil:
		l.notice = "Illustrations need an AI provider."
		return nil
	}
	dir := l.env.IllustrationDir
	if dir == "" {
		dir = DefaultIllustrationDir
	}
	l.busy = "Drawing..."
	env, p := l.env, l.problem
	return func() tea.Msg {
		svg, err := env.Generator.Illustration(env.Context(), p.Illustration)
		if err != nil {
			return illustrationMsg{Err: err}
		}
		path, err := writeIllustration(dir, p.ID, svg)
		return illustrationMsg{Path: path, Err: err}
	}
}

func writeIllustration(dir, problemID, svg string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, problemID)
	path := filepath.Join(dir, name+".svg")
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// finish summarizes a completed attempt. A finished diagnostic is left
// right away so the learner is placed on a path.
func (l *LessonScreen) finish() tea.Cmd {
	env := l.env
	return func() tea.Msg {
		sum, err := env.Engine.Summary()
		if err != nil {
			return finishedMsg{Err: err}
		}
		var placed content.Difficulty
		if sum.Diagnostic {
			placed, err = env.Engine.Exit(env.Context())
			if err != nil {
				return finishedMsg{Err: err}
			}
			sum.Path = placed
		}
		return finishedMsg{Summary: sum, Placed: placed}
	}
}

func (l *LessonScreen) exit() tea.Cmd {
	env := l.env
	return func() tea.Msg {
		if _, err := env.Engine.Exit(env.Context()); err != nil {
			logger := logging.FromContext(env.Context())
			logger.Warn().Err(err).Msg("leaving lesson")
		}
		return exitedMsg{}
	}
}
