package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Provider is the core abstraction for LLM interaction.
// Consumers call Generate with a Request and receive either schema-checked
// JSON or the model's raw text.
type Provider interface {
	// Generate sends a prompt to the LLM and returns a structured response.
	// The request's Schema field, when set, instructs the provider to return
	// JSON conforming to that schema. The response Content will be the
	// validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Sets the LLM's role and constraints.
	System string

	// Messages is the conversation history. Callers usually send one user
	// message and let the memory decorator prepend earlier turns.
	Messages []Message

	// ConversationID binds the request to a session's conversation memory.
	// Empty means the request is stateless.
	ConversationID string

	// Schema is the JSON Schema the response must conform to.
	// When set, the provider uses its native structured output mechanism.
	// When nil, the response Content is raw text as json.RawMessage.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Default: 0.0 (deterministic) when not set.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema (used as tool name for Anthropic,
	// schema name for OpenAI). Kebab-case, e.g. "love-scenario".
	Name string

	// Description is a human-readable description of what this schema
	// represents. Sent to the LLM to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the generated output. When a Schema was provided in the
	// request, this is the validated JSON object. When no Schema was
	// provided, this is the raw text response wrapped as a JSON string.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Text returns the response content as a string, trimmed of surrounding
// whitespace.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(string(r.Content))
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
	StopFiltered  = "filtered"
)

// finish assembles a Response from a provider's raw output. Truncated,
// filtered and empty output become typed errors.
func finish(req Request, content json.RawMessage, usage Usage, model, stop string) (*Response, error) {
	switch stop {
	case StopMaxTokens:
		return nil, &ErrMaxTokensExceeded{Content: content}
	case StopFiltered:
		return nil, &ErrInvalidResponse{Content: content, Err: errContentFiltered}
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return nil, &ErrInvalidResponse{Err: ErrEmptyResponse}
	}
	if req.Schema != nil {
		if err := ValidateJSON(req.Schema, content); err != nil {
			return nil, err
		}
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}

// mapCallError converts an SDK error into one of the typed errors in
// errors.go. status extracts the HTTP status (and Retry-After, if any)
// from the SDK's own error type and reports false when err is not one.
func mapCallError(ctx context.Context, err error, status func(error) (int, time.Duration, bool)) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("llm call aborted: %w", ctxErr)
	}
	code, wait, ok := status(err)
	if !ok {
		return &ErrProviderUnavailable{Err: err}
	}
	mapped := mapStatusError(code, err)
	if rl, isRL := mapped.(*ErrRateLimit); isRL {
		rl.RetryAfter = wait
	}
	return mapped
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(h.Get("Retry-After")))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
