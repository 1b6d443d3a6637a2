// Package suggestions asks the local language model for résumé improvement advice.
// Every failure degrades to explanatory text; nothing here fails an analysis.
package suggestions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resume-matcher/internal/llm"
	"resume-matcher/internal/shared/telemetry"
)

// Kind classifies how a suggestion request ended.
type Kind string

const (
	KindOK          Kind = "ok"
	KindUnavailable Kind = "unavailable"
	KindTimeout     Kind = "timeout"
	KindHTTPError   Kind = "http_error"
	KindFailed      Kind = "failed"
)

// Result is the advice text plus the outcome that produced it.
type Result struct {
	Kind Kind
	Text string
}

const (
	emptyText   = "No suggestions generated"
	timeoutText = "AI suggestion timed out. Try again or continue without AI suggestions."
)

// Requester produces suggestions through an llm.Client.
type Requester struct {
	client llm.Client
}

func NewRequester(client llm.Client) *Requester {
	return &Requester{client: client}
}

// Model returns the configured generation model id.
func (r *Requester) Model() string { return r.client.Model() }

// Available reports whether the generation server answers its status probe.
func (r *Requester) Available(ctx context.Context) bool {
	return r.client.Ping(ctx) == nil
}

// Suggest probes the server and, when it is up, requests numbered suggestions
// for raising score. No generation request is sent when the probe fails.
func (r *Requester) Suggest(ctx context.Context, resumeText, jobDescription string, score float64) Result {
	if err := r.client.Ping(ctx); err != nil {
		telemetry.Info("suggestions.unavailable", map[string]any{
			"model": r.client.Model(),
			"error": err,
		})
		return Result{Kind: KindUnavailable, Text: unavailableText(r.client.Model())}
	}

	text, err := r.client.Generate(ctx, llm.SuggestionsPrompt(resumeText, jobDescription, score))
	if err != nil {
		return failure(err)
	}
	if strings.TrimSpace(text) == "" {
		text = emptyText
	}
	return Result{Kind: KindOK, Text: text}
}

func failure(err error) Result {
	var statusErr *llm.StatusError
	switch {
	case errors.Is(err, llm.ErrTimeout):
		telemetry.Warn("suggestions.timeout", map[string]any{"error": err})
		return Result{Kind: KindTimeout, Text: timeoutText}
	case errors.As(err, &statusErr):
		telemetry.Warn("suggestions.http_error", map[string]any{
			"status": statusErr.StatusCode,
			"body":   statusErr.Body,
		})
		return Result{
			Kind: KindHTTPError,
			Text: fmt.Sprintf("Error: suggestion service returned status %d", statusErr.StatusCode),
		}
	default:
		telemetry.Error("suggestions.failed", map[string]any{"error": err})
		return Result{
			Kind: KindFailed,
			Text: fmt.Sprintf("Error getting AI suggestions: %v\n\nThe app works fine without AI suggestions!", err),
		}
	}
}

func unavailableText(model string) string {
	return "Ollama is not running.\n\n" +
		"To enable AI suggestions:\n" +
		"1. Install Ollama from: https://ollama.com/download\n" +
		"2. Run: ollama pull " + model + "\n" +
		"3. Ollama will start automatically\n\n" +
		"The app works fine without AI suggestions!"
}
