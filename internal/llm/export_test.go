package llm

// Exported for the llm_test package, which checks the providers against
// the problem, diagnosis and tutor schemas.
var (
	ValidateResponse = validateResponse
	GeminiSchema     = geminiSchema
)
