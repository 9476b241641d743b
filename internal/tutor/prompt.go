package tutor

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathpath/internal/content"
	"github.com/abhisek/mathpath/internal/llm"
)

const explainSystemPrompt = `You are a patient math tutor for students around 14 years old.
Keep explanations brief and friendly.
Wrap all mathematical formulas, variables and numbers in LaTeX delimiters '$' (e.g. $y=2x$, $10^{\circ}$).`

const chatSystemPrompt = `You are a patient math tutor helping a student around 14 years old with one problem.
Guide the student towards the answer with questions and small steps. Do not just state the final answer.
Keep replies short. Wrap all mathematical formulas, variables and numbers in LaTeX delimiters '$'.`

const compressionSystemPrompt = `You summarize tutoring conversations so they can be continued later.
Keep what the student understood, what they still struggle with, and any numbers already worked out.`

// buildExplainMessage asks for an explanation of p in lang.
func buildExplainMessage(p *content.Problem, lang content.Language) string {
	return fmt.Sprintf("Explain the math problem %q to a 14 year old student in %s. Keep it brief.",
		p.Question.Get(lang), lang.Name())
}

// buildChatSystem adds the problem and any earlier summary to the chat
// system prompt.
func buildChatSystem(p *content.Problem, lang content.Language, summary string) string {
	var b strings.Builder

	b.WriteString(chatSystemPrompt)
	fmt.Fprintf(&b, "\n\nReply in %s.\n", lang.Name())
	if p != nil {
		fmt.Fprintf(&b, "\nProblem: %s\n", p.Question.Get(lang))
		for i, o := range p.Options {
			fmt.Fprintf(&b, "Option %d: %s\n", i+1, o.Get(lang))
		}
		fmt.Fprintf(&b, "Correct answer (do not reveal directly): %s\n", p.CorrectAnswerText(lang))
	}
	if summary != "" {
		fmt.Fprintf(&b, "\nEarlier in this conversation: %s\n", summary)
	}
	return strings.TrimRight(b.String(), "\n")
}

// buildCompressionMessage renders the turns to fold.
func buildCompressionMessage(previous string, turns []Turn) string {
	var b strings.Builder

	if previous != "" {
		fmt.Fprintf(&b, "Summary so far: %s\n\n", previous)
	}
	b.WriteString("Conversation:\n")
	for _, t := range turns {
		who := "Student"
		if t.Role != llm.RoleUser {
			who = "Tutor"
		}
		fmt.Fprintf(&b, "%s: %s\n", who, t.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}
