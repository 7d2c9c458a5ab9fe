package scenario

// Config controls the behavior of the Generator.
type Config struct {
	// Validators run in order on every generated problem; the first
	// failure rejects the response.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&DistinctChoicesValidator{},
		},
		MaxTokens:   1024,
		Temperature: 0.8,
	}
}
