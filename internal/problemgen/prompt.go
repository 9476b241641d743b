package problemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/learner"
)

const variationSystemPrompt = `You are a math teacher writing practice problems for students around 14 years old.

Rules:
- Write a NEW variation of the given problem: different numbers, the exact same logic and difficulty.
- Keep the same problem type. For multiple choice keep the same number of options; for a table keep the same x values.
- Provide the question, hint and explanation in English (EN), Macedonian (MK), Albanian (SQ) and Turkish (TR).
- Use LaTeX with $ delimiters for math in question, options, hint and explanation.
- correct_answer is plain text with no $ delimiters.
- The answer must be correct. Check it before you respond.`

const challengeSystemPrompt = `You are a math teacher setting the final "boss" problem for a unit on linear functions:
formulas and substitution, plotting graphs, gradient and intercept (y = mx + c), and interpreting graphs.

Rules:
- Write ONE challenging free-response problem whose answer is a number or an expression the student types.
- Lean on the topics the student got wrong recently, if any.
- Provide the question, hint and explanation in English (EN), Macedonian (MK), Albanian (SQ) and Turkish (TR).
- Use LaTeX with $ delimiters for math in question, hint and explanation.
- type is "input", options is an empty array, correct_answer is plain text with no $ delimiters.
- The answer must be correct. Check it before you respond.`

const illustrationSystemPrompt = `You draw simple flat-design SVG illustrations for math problems.
Return only the <svg> element, no commentary. Use viewBox="0 0 200 200". Do not include any text elements.`

// buildVariationMessage describes the problem to vary.
func buildVariationMessage(p *content.Problem, lang content.Language) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Problem type: %s\n", p.Type())
	fmt.Fprintf(&b, "Difficulty: %s\n", p.Difficulty)
	fmt.Fprintf(&b, "Student language: %s\n", lang)
	fmt.Fprintf(&b, "Question: %s\n", p.Question.Get(content.EN))
	if len(p.Options) > 0 {
		b.WriteString("Options:\n")
		for i, o := range p.Options {
			fmt.Fprintf(&b, "%d. %s\n", i, o.Get(content.EN))
		}
	}
	if t, ok := p.Answer.(*content.TableAnswer); ok {
		fmt.Fprintf(&b, "Table x values: %s\n", strings.Join(t.Keys(), ", "))
	}
	fmt.Fprintf(&b, "Correct answer: %s\n", p.CorrectAnswerText(content.EN))
	return strings.TrimRight(b.String(), "\n")
}

// buildChallengeMessage summarizes recent answers, newest last.
func buildChallengeMessage(history []learner.HistoryEntry, lang content.Language) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Student language: %s\n", lang)
	b.WriteString("\nRecent answers:\n")
	b.WriteString(buildHistory(history))
	return b.String()
}

func buildHistory(history []learner.HistoryEntry) string {
	if len(history) == 0 {
		return "None"
	}
	var b strings.Builder
	for i, h := range history {
		verdict := "wrong"
		if h.Correct {
			verdict = "correct"
		}
		lesson := h.LessonID
		if lesson == "" {
			lesson = "?"
		}
		fmt.Fprintf(&b, "%d. %s (lesson %s): %s\n", i+1, h.ProblemID, lesson, verdict)
	}
	return strings.TrimRight(b.String(), "\n")
}

func buildIllustrationMessage(description string) string {
	return "Draw: " + strings.TrimSpace(description)
}
