package tutor

// Config holds explanation and chat settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// CompressThreshold is the conversation size, in characters, above
	// which older turns are folded into a summary.
	CompressThreshold int

	// KeepRecent is how many of the newest turns survive compression.
	KeepRecent int
}

// DefaultConfig returns sensible defaults for the tutor.
func DefaultConfig() Config {
	return Config{
		MaxTokens:         512,
		Temperature:       0.5,
		CompressThreshold: 1500,
		KeepRecent:        4,
	}
}

// CompressorConfig holds compression settings.
type CompressorConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultCompressorConfig returns sensible defaults for compression.
func DefaultCompressorConfig() CompressorConfig {
	return CompressorConfig{
		MaxTokens:   256,
		Temperature: 0.3,
	}
}
