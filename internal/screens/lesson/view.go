package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/diagnosis"
	"github.com/abhisek/mathpath/internal/llm"
	"github.com/abhisek/mathpath/internal/ui/components"
	"github.com/abhisek/mathpath/internal/ui/theme"
)

// chatTurnsShown is how many recent chat turns are rendered.
const chatTurnsShown = 6

func (l *LessonScreen) View(width, height int) string {
	if l.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(l.errMsg)+"\n\n"+
				theme.Hint.Render("Press any key to go back"))
	}
	if l.problem == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render(l.busy))
	}
	if l.mode == modeQuitConfirm {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Card.Render("Leave this lesson?\n\nYour points are kept.\n\n[Y] Leave   [N] Keep going"))
	}

	lang := l.lang()
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString(l.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	b.WriteString(center.Foreground(theme.Text).Bold(true).Render(l.problem.Question.Get(lang)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, l.renderAnswer()))
	b.WriteString("\n")

	if l.result != nil {
		b.WriteString("\n")
		b.WriteString(center.Render(l.renderResult(lang, width)))
		b.WriteString("\n")
	}
	if l.hint != "" {
		b.WriteString("\n")
		b.WriteString(center.Render(theme.Hint.Render("Hint: " + l.hint)))
		b.WriteString("\n")
	}
	switch {
	case l.explaining:
		b.WriteString("\n")
		b.WriteString(center.Render(theme.Hint.Render("The tutor is thinking...")))
		b.WriteString("\n")
	case l.explanation != "":
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			components.Panel(l.explanation, components.PanelWidth(width), components.ToneTutor)))
		b.WriteString("\n")
	}
	if l.mode == modeChat {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, l.renderChat(width)))
		b.WriteString("\n")
	}
	if l.busy != "" {
		b.WriteString("\n")
		b.WriteString(center.Render(theme.Hint.Render(l.busy)))
	} else if l.notice != "" {
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.Accent).Render(l.notice))
	}
	return b.String()
}

// renderInfoLine shows the position in the attempt and the running score.
func (l *LessonScreen) renderInfoLine(width int) string {
	p := l.env.Engine.Progress()
	st := l.env.Engine.Learner()

	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("  %s · %s", l.problem.LessonID, l.problem.Difficulty))

	bar := components.NewProgressBar("", p.Index, p.Total, 16).View()
	right := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%s  %s %d  %s %d",
		bar,
		lipgloss.NewStyle().Foreground(theme.Success).Render("✓"), p.Correct,
		lipgloss.NewStyle().Foreground(theme.Accent).Render("🔥"), st.Streak,
	))

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line
}

func (l *LessonScreen) renderAnswer() string {
	switch a := l.problem.Answer.(type) {
	case *content.ExpressionAnswer:
		return "Answer: " + l.input.View()
	case *content.ChoiceAnswer:
		return l.choice.View()
	case *content.TableAnswer:
		return l.renderTable(a)
	case *content.GraphAnswer:
		return l.grid.View(l.sess.Input.Points)
	}
	return ""
}

// renderTable draws the table as two rows: x labels and the learner's y
// cells.
func (l *LessonScreen) renderTable(a *content.TableAnswer) string {
	cell := lipgloss.NewStyle().Width(10).Align(lipgloss.Center)
	head := lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true)

	xs := []string{cell.Render(head.Render("x"))}
	ys := []string{cell.Render(head.Render("y"))}
	for i, k := range l.cellKeys {
		xs = append(xs, cell.Render(k))
		v := l.cells[i].View()
		if i == l.cell && l.mode == modeAnswer {
			v = theme.Selected.Render("▸") + v
		}
		ys = append(ys, cell.Render(v))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, xs...) + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, ys...)
}

func (l *LessonScreen) renderResult(lang content.Language, width int) string {
	pw := components.PanelWidth(width)
	r := l.result
	if r.Correct {
		msg := theme.Correct.Render(fmt.Sprintf("Correct! +%d points", r.Points))
		if r.Streak >= 3 {
			msg += "  " + lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("🔥 %d in a row", r.Streak))
		}
		return components.Panel(msg, pw, components.ToneCorrect)
	}

	var b strings.Builder
	b.WriteString(theme.Incorrect.Render("Not quite"))
	if r.Diagnosis != nil && r.Diagnosis.Category != diagnosis.CategoryUnclassified && r.Message != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(r.Message))
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Correct answer: " + l.problem.CorrectAnswerText(lang)))
	return components.Panel(b.String(), pw, components.ToneWrong)
}

func (l *LessonScreen) renderChat(width int) string {
	cw := components.PanelWidth(width)
	you := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	tut := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)

	var b strings.Builder
	if s := l.conv.Summary(); s != "" {
		b.WriteString(theme.Hint.Render("Earlier: " + s))
		b.WriteString("\n")
	}
	turns := l.conv.Turns()
	if len(turns) > chatTurnsShown {
		turns = turns[len(turns)-chatTurnsShown:]
	}
	for _, t := range turns {
		who := tut.Render("Tutor: ")
		if t.Role == llm.RoleUser {
			who = you.Render("You: ")
		}
		b.WriteString(who + t.Text + "\n")
	}
	if l.chatPending != "" {
		b.WriteString(you.Render("You: ") + l.chatPending + "\n")
		b.WriteString(theme.Hint.Render("The tutor is typing...") + "\n")
	}
	b.WriteString("> " + l.chatInput.View())
	return components.Panel(b.String(), cw, components.ToneTutor)
}
