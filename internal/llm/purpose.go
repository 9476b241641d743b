package llm

import "context"

// Purpose labels an LLM call in logs, metrics and the request log.
type Purpose string

const (
	PurposeVariation    Purpose = "variation"
	PurposeChallenge    Purpose = "challenge"
	PurposeIllustration Purpose = "illustration"
	PurposeExplanation  Purpose = "explanation"
	PurposeChat         Purpose = "chat"
	PurposeChatCompress Purpose = "chat-compress"
	PurposeDiagnosis    Purpose = "error-diagnosis"
	PurposeUnknown      Purpose = "unknown"
)

// PlainText reports whether calls for p expect a text reply rather than a
// schema-bound object.
func (p Purpose) PlainText() bool {
	switch p {
	case PurposeIllustration, PurposeExplanation, PurposeChat:
		return true
	}
	return false
}

func (p Purpose) String() string { return string(p) }

type purposeKey struct{}

// WithPurpose attaches a purpose label to the context.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}
