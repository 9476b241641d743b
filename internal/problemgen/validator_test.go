package problemgen

import (
	"strings"
	"testing"

	"github.com/abhisek/mathpath/internal/content"
)

func localizedText(s string) content.Text {
	return content.Text{content.EN: s, content.MK: s, content.SQ: s, content.TR: s}
}

func validDraft() *Draft {
	return &Draft{
		Question:      localizedText("Find y when x = 2 for y = 3x + 1."),
		CorrectAnswer: "7",
		Tutor: content.TutorContent{
			Hint:        localizedText("Substitute x."),
			Explanation: localizedText("$3 \\cdot 2 + 1 = 7$"),
		},
	}
}

func inputFor(t *testing.T, id string) Input {
	return Input{Kind: KindVariation, Base: builtin(t, id), Language: content.EN}
}

func TestStructural_Valid(t *testing.T) {
	v := &StructuralValidator{}
	if err := v.Validate(validDraft(), inputFor(t, "GS_Q1a")); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestStructural_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Draft)
		want   string
	}{
		{"missing locale", func(d *Draft) { delete(d.Question, content.TR) }, "missing locales TR"},
		{"blank locale", func(d *Draft) { d.Question[content.SQ] = "  " }, "missing locales SQ"},
		{"long question", func(d *Draft) { d.Question[content.EN] = strings.Repeat("a", maxQuestionLen+1) }, "exceeds"},
		{"empty answer", func(d *Draft) { d.CorrectAnswer = " " }, "correct_answer is empty"},
		{"empty hint", func(d *Draft) { d.Tutor.Hint = nil }, "hint is empty"},
		{"empty explanation", func(d *Draft) { d.Tutor.Explanation = content.Text{} }, "explanation is empty"},
		{"wrong type", func(d *Draft) { d.Type = "graphing" }, `type "graphing"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(d)
			err := (&StructuralValidator{}).Validate(d, inputFor(t, "GS_Q1a"))
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Validator != "structural" {
				t.Errorf("validator = %q", err.Validator)
			}
			if !err.Retryable {
				t.Error("expected retryable")
			}
			if !strings.Contains(err.Message, tt.want) {
				t.Errorf("message %q does not contain %q", err.Message, tt.want)
			}
		})
	}
}

func TestStructural_MultipleChoiceOptions(t *testing.T) {
	d := validDraft()
	d.CorrectAnswer = "0"
	d.Options = []content.Text{localizedText("a")}
	in := inputFor(t, "GS_Q2")

	if err := (&StructuralValidator{}).Validate(d, in); err == nil {
		t.Fatal("expected error for a single option")
	}
	d.Options = append(d.Options, content.Text{})
	if err := (&StructuralValidator{}).Validate(d, in); err == nil || !strings.Contains(err.Message, "option 1") {
		t.Fatalf("expected empty option error, got %v", err)
	}
	d.Options[1] = localizedText("b")
	if err := (&StructuralValidator{}).Validate(d, in); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestMathCheck(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		answer  string
		options int
		wantErr bool
	}{
		{"number", "GS_Q1a", "85", 0, false},
		{"formula", "11.1_WB_Q1b", "h = 5n + 10", 0, false},
		{"latex delimited", "11.1_WB_Q1b", "$h=5n+10$", 0, false},
		{"garbage", "GS_Q1a", "85 +* 2", 0, true},
		{"choice in range", "GS_Q2", "3", 4, false},
		{"choice out of range", "GS_Q2", "4", 4, true},
		{"choice not a number", "GS_Q2", "C", 4, true},
		{"table complete", "11.2_WB_Q1", `{"-2":1,"-1":2,"0":3,"1":4,"2":5,"3":6}`, 0, false},
		{"table missing row", "11.2_WB_Q1", `{"-2":1,"-1":2,"0":3}`, 0, true},
		{"table not json", "11.2_WB_Q1", "1, 2, 3", 0, true},
		{"graph anything", "11.2_WB_Q3b", "a line", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			d.CorrectAnswer = tt.answer
			for i := 0; i < tt.options; i++ {
				d.Options = append(d.Options, localizedText("opt"))
			}
			err := (&MathCheckValidator{}).Validate(d, inputFor(t, tt.base))
			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
			if err != nil && err.Validator != "math-check" {
				t.Errorf("validator = %q", err.Validator)
			}
		})
	}
}

func TestMathCheck_ChallengeIsInput(t *testing.T) {
	d := validDraft()
	d.CorrectAnswer = "y = 2x + 3"
	if err := (&MathCheckValidator{}).Validate(d, Input{Kind: KindChallenge}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	d.CorrectAnswer = "y = = 3"
	if err := (&MathCheckValidator{}).Validate(d, Input{Kind: KindChallenge}); err == nil {
		t.Fatal("expected parse failure")
	}
}
