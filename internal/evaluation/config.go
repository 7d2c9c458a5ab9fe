package evaluation

// Config controls the behavior of the Evaluator.
type Config struct {
	// Validators run in order; the first failure rejects the response.
	Validators []Validator

	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&CompletenessValidator{},
			&LabelValidator{},
		},
		MaxTokens:   4096,
		Temperature: 0.4,
	}
}
