package suggestions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"resume-matcher/internal/llm"
	"resume-matcher/internal/llm/ollama"
)

type fakeClient struct {
	pingErr   error
	text      string
	genErr    error
	generated int
	prompt    string
}

func (f *fakeClient) Ping(context.Context) error { return f.pingErr }

func (f *fakeClient) Generate(_ context.Context, prompt string) (string, error) {
	f.generated++
	f.prompt = prompt
	return f.text, f.genErr
}

func (f *fakeClient) Model() string { return "llama3.2" }

func TestSuggestOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		client    *fakeClient
		wantKind  Kind
		wantText  string
		wantCalls int
	}{
		{
			name:      "ok",
			client:    &fakeClient{text: "1. Add Kubernetes: list your cluster work."},
			wantKind:  KindOK,
			wantText:  "1. Add Kubernetes: list your cluster work.",
			wantCalls: 1,
		},
		{
			name:      "empty response",
			client:    &fakeClient{text: "  "},
			wantKind:  KindOK,
			wantText:  "No suggestions generated",
			wantCalls: 1,
		},
		{
			name:      "unavailable",
			client:    &fakeClient{pingErr: errors.New("connection refused")},
			wantKind:  KindUnavailable,
			wantText:  "ollama pull llama3.2",
			wantCalls: 0,
		},
		{
			name:      "timeout",
			client:    &fakeClient{genErr: fmt.Errorf("%w: deadline", llm.ErrTimeout)},
			wantKind:  KindTimeout,
			wantText:  "timed out",
			wantCalls: 1,
		},
		{
			name:      "status",
			client:    &fakeClient{genErr: &llm.StatusError{StatusCode: 500}},
			wantKind:  KindHTTPError,
			wantText:  "Error: suggestion service returned status 500",
			wantCalls: 1,
		},
		{
			name:      "other",
			client:    &fakeClient{genErr: errors.New("unexpected EOF")},
			wantKind:  KindFailed,
			wantText:  "unexpected EOF",
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := NewRequester(tt.client).Suggest(context.Background(), "resume", "job", 55.5)
			if got.Kind != tt.wantKind {
				t.Fatalf("kind = %s, want %s", got.Kind, tt.wantKind)
			}
			if !strings.Contains(got.Text, tt.wantText) {
				t.Fatalf("text %q does not contain %q", got.Text, tt.wantText)
			}
			if tt.client.generated != tt.wantCalls {
				t.Fatalf("generate calls = %d, want %d", tt.client.generated, tt.wantCalls)
			}
		})
	}
}

func TestSuggestBuildsPrompt(t *testing.T) {
	client := &fakeClient{text: "ok"}
	NewRequester(client).Suggest(context.Background(), "Go developer", "Kubernetes role", 41.25)
	if !strings.Contains(client.prompt, "41.25%") || !strings.Contains(client.prompt, "Kubernetes role") {
		t.Fatalf("unexpected prompt:\n%s", client.prompt)
	}
}

func TestSuggestAgainstUnreachableServerSkipsGeneration(t *testing.T) {
	var generates int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/generate" {
			atomic.AddInt32(&generates, 1)
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := ollama.NewClient(ollama.Options{BaseURL: srv.URL, Model: "llama3.2"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	req := NewRequester(client)

	got := req.Suggest(context.Background(), "r", "j", 10)
	if got.Kind != KindUnavailable {
		t.Fatalf("expected unavailable, got %s", got.Kind)
	}
	if atomic.LoadInt32(&generates) != 0 {
		t.Fatal("generation request issued while server unavailable")
	}
	if req.Available(context.Background()) {
		t.Fatal("expected Available to be false")
	}
}

func TestSuggestAgainstSlowServerTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{"models":[]}`))
			return
		}
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client, err := ollama.NewClient(ollama.Options{
		BaseURL:         srv.URL,
		Model:           "llama3.2",
		GenerateTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	got := NewRequester(client).Suggest(context.Background(), "r", "j", 10)
	if got.Kind != KindTimeout || got.Text != timeoutText {
		t.Fatalf("expected timeout result, got %#v", got)
	}
}
