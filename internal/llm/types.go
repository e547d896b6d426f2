package llm

import (
	"errors"
	"fmt"
)

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompletionRequest holds one chat completion call.
type CompletionRequest struct {
	// System is the system prompt. Empty means none.
	System string

	Messages []Message

	// MaxTokens specifies the maximum number of tokens to generate.
	// If 0, the provider default is used.
	MaxTokens int

	Temperature float32

	// Penalties are ignored by providers that do not support them.
	PresencePenalty  float32
	FrequencyPenalty float32

	// JSONObject asks the provider to reply with a single JSON object.
	JSONObject bool
}

// ErrNoChoices is returned when the provider answers without any content.
var ErrNoChoices = errors.New("no choices returned")

// APIError is a non-2xx answer from the provider.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s API error (%d): %s", e.Provider, e.StatusCode, e.Message)
	if e.RequestID != "" {
		msg += fmt.Sprintf(" (request-id: %s)", e.RequestID)
	}
	return msg
}

// IsAPIError checks if an error is an APIError
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
