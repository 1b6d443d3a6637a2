// Package embedding provides the sentence-embedding model shared by all requests.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Model maps texts to fixed-length vectors. Implementations must be safe for
// concurrent use; the handle is loaded once and shared read-only.
type Model interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	Name() string
}

var (
	ErrEmptyEmbedding = errors.New("embedding model returned an empty vector")
	ErrCountMismatch  = errors.New("embedding model returned a different number of vectors")
)

// Options selects and configures the model backend.
type Options struct {
	Provider string // "ollama" (default) or "openai"
	BaseURL  string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// Loaded wraps a warmed-up model and records its dimension.
type Loaded struct {
	Model
	dimension int
}

// Dimension is the vector length observed during warm-up.
func (l *Loaded) Dimension() int { return l.dimension }

// Load builds the configured model and embeds a probe sentence so that a missing
// or misconfigured model fails at startup instead of on the first request.
func Load(ctx context.Context, opts Options) (*Loaded, error) {
	var m Model
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", "ollama":
		m = NewOllama(opts)
	case "openai":
		oa, err := NewOpenAI(opts)
		if err != nil {
			return nil, err
		}
		m = oa
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", opts.Provider)
	}
	return Warm(ctx, m)
}

// Warm embeds a probe sentence with m and returns the loaded handle.
func Warm(ctx context.Context, m Model) (*Loaded, error) {
	vecs, err := m.Embed(ctx, []string{"resume matcher warm-up"})
	if err != nil {
		return nil, fmt.Errorf("load embedding model %s: %w", m.Name(), err)
	}
	if len(vecs) != 1 || len(vecs[0]) == 0 {
		return nil, fmt.Errorf("load embedding model %s: %w", m.Name(), ErrEmptyEmbedding)
	}
	return &Loaded{Model: m, dimension: len(vecs[0])}, nil
}

func checkVectors(texts []string, vecs [][]float64) error {
	if len(vecs) != len(texts) {
		return fmt.Errorf("%w: want %d, got %d", ErrCountMismatch, len(texts), len(vecs))
	}
	for i, v := range vecs {
		if len(v) == 0 {
			return fmt.Errorf("input %d: %w", i, ErrEmptyEmbedding)
		}
	}
	return nil
}
