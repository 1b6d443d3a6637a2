package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client abstracts the local text-generation server.
type Client interface {
	// Ping checks that the server answers its status route.
	Ping(ctx context.Context) error
	// Generate returns the completion for prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// Model is the identifier sent with every generation request.
	Model() string
}

// ErrTimeout marks a request that ran past its deadline.
var ErrTimeout = errors.New("llm request timed out")

// StatusError is returned when the server answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm server returned status %d", e.StatusCode)
}
