package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI generates embeddings through any OpenAI-compatible /v1/embeddings endpoint,
// including Ollama's compatibility layer and hosted sentence-transformer servers.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI-compatible embedding client.
func NewOpenAI(opts Options) (*OpenAI, error) {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		return nil, fmt.Errorf("EMBEDDING_MODEL is required for the openai provider")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		// Local compatible servers ignore the key but the SDK requires one.
		apiKey = "unused"
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(timeout),
		option.WithMaxRetries(1),
	}
	if baseURL := strings.TrimSpace(opts.BaseURL); baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(reqOpts...)
	return &OpenAI{client: &client, model: model}, nil
}

// Name returns the model identifier.
func (o *OpenAI) Name() string { return "openai/" + o.model }

// Embed generates one vector per input text, ordered like texts.
func (o *OpenAI) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(o.model),
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	out := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(out) {
			return nil, fmt.Errorf("%w: index %d out of range", ErrCountMismatch, d.Index)
		}
		out[d.Index] = d.Embedding
	}
	if err := checkVectors(texts, out); err != nil {
		return nil, err
	}
	return out, nil
}

var _ Model = (*OpenAI)(nil)
