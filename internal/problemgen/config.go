package problemgen

import "time"

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators is the ordered list of validators to run on every
	// generated problem. They execute in order; the first failure
	// stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for problem responses.
	MaxTokens int

	// IllustrationMaxTokens is the token budget for SVG responses.
	IllustrationMaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// HistoryWindow is how many recent answers a challenge prompt sees.
	HistoryWindow int

	// Now stamps variation ids. Defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&MathCheckValidator{},
		},
		MaxTokens:             1024,
		IllustrationMaxTokens: 2048,
		Temperature:           0.7,
		HistoryWindow:         20,
		Now:                   time.Now,
	}
}
