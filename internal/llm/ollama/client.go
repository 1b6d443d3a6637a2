// Package ollama implements llm.Client against a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"resume-matcher/internal/llm"
)

const DefaultBaseURL = "http://localhost:11434"

// Options configures a Client.
type Options struct {
	BaseURL         string
	Model           string
	Stream          bool
	ProbeTimeout    time.Duration
	GenerateTimeout time.Duration
}

// Client talks to Ollama's /api/tags and /api/generate routes.
type Client struct {
	baseURL         string
	model           string
	stream          bool
	probeTimeout    time.Duration
	generateTimeout time.Duration
	httpClient      *http.Client
}

// NewClient constructs a Client. The model id is required so the advertised
// model and the requested one can never diverge.
func NewClient(opts Options) (*Client, error) {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		return nil, fmt.Errorf("OLLAMA_MODEL is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	probe := opts.ProbeTimeout
	if probe <= 0 {
		probe = 2 * time.Second
	}
	generate := opts.GenerateTimeout
	if generate <= 0 {
		generate = 60 * time.Second
	}
	return &Client{
		baseURL:         baseURL,
		model:           model,
		stream:          opts.Stream,
		probeTimeout:    probe,
		generateTimeout: generate,
		httpClient:      &http.Client{},
	}, nil
}

func (c *Client) Model() string { return c.model }

// Ping issues GET /api/tags bounded by the probe timeout.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("create probe request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classify(ctx, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &llm.StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Generate posts prompt to /api/generate bounded by the generation timeout.
// Streamed replies are accumulated chunk by chunk.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.generateTimeout)
	defer cancel()

	payload, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt, Stream: c.stream})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &llm.StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	text, err := readChunks(resp.Body)
	if err != nil {
		return "", classify(ctx, err)
	}
	return text, nil
}

// readChunks concatenates the response field of every JSON object in r. A
// non-streamed reply is a single object and reads the same way.
func readChunks(r io.Reader) (string, error) {
	var out strings.Builder
	dec := json.NewDecoder(r)
	for {
		var chunk generateChunk
		err := dec.Decode(&chunk)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse generate response: %w", err)
		}
		if chunk.Error != "" {
			return "", fmt.Errorf("ollama: %s", chunk.Error)
		}
		out.WriteString(chunk.Response)
		if chunk.Done {
			break
		}
	}
	return out.String(), nil
}

func classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", llm.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", llm.ErrTimeout, err)
	}
	return err
}

var _ llm.Client = (*Client)(nil)
