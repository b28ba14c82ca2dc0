package core

// RequestUsage captures token usage reported by a model for a single message.
type RequestUsage struct {
	PromptTokens     int `json:"prompt_tokens" yaml:"prompt_tokens" mapstructure:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens" yaml:"completion_tokens" mapstructure:"completion_tokens"`
}

// Add accumulates other into u. Negative counts are ignored so totals never
// decrease.
func (u *RequestUsage) Add(other RequestUsage) {
	if other.PromptTokens > 0 {
		u.PromptTokens += other.PromptTokens
	}
	if other.CompletionTokens > 0 {
		u.CompletionTokens += other.CompletionTokens
	}
}

// Total returns prompt + completion tokens.
func (u RequestUsage) Total() int { return u.PromptTokens + u.CompletionTokens }
