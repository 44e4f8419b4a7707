// Package enrichment implements the optional page-summary follow-up step:
// after a job reaches Completed, a best-effort call to an LLM turns the
// simulated page count into a short human-readable summary stored on
// ProcessingJob.Result. Failure here is logged and swallowed — it never
// alters job status and can never violate a pipeline invariant.
package enrichment

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/momentumlabs/docflow/internal/domain"
)

// DefaultModel is used when no model override is configured.
const DefaultModel = openai.ChatModelGPT4oMini

// Enricher produces a best-effort JobResult for a completed job. Worker
// engines treat any returned error as non-fatal.
type Enricher interface {
	Summarize(ctx context.Context, pageCount int) (domain.JobResult, error)
}

// OpenAIEnricher summarizes via OpenAI's chat completions API.
type OpenAIEnricher struct {
	client openai.Client
	model  string
}

type config struct {
	model         string
	clientOptions []option.RequestOption
}

type Option func(*config)

// WithModel overrides the chat model used for summarization.
func WithModel(model string) Option {
	return func(c *config) { c.model = model }
}

// WithClientOptions passes additional openai-go request options through to
// the client, e.g. option.WithBaseURL for pointing at a test double.
func WithClientOptions(opts ...option.RequestOption) Option {
	return func(c *config) { c.clientOptions = append(c.clientOptions, opts...) }
}

// New builds an OpenAIEnricher. apiKey must be non-empty; callers should
// simply not construct this type when OPENAI_API_KEY is unset, leaving the
// engine's enricher nil and the step skipped entirely.
func New(apiKey string, opts ...Option) (*OpenAIEnricher, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("enrichment: api key is required")
	}

	cfg := &config{model: DefaultModel}
	for _, opt := range opts {
		opt(cfg)
	}

	clientOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, cfg.clientOptions...)
	return &OpenAIEnricher{
		client: openai.NewClient(clientOpts...),
		model:  cfg.model,
	}, nil
}

// Summarize asks the model for a one-sentence status summary of a document
// that finished processing with pageCount simulated pages.
func (e *OpenAIEnricher) Summarize(ctx context.Context, pageCount int) (domain.JobResult, error) {
	prompt := fmt.Sprintf(
		"Write one short sentence summarizing that a document finished processing with %d pages extracted. "+
			"Respond with the sentence only, no preamble.", pageCount)

	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: e.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return domain.JobResult{}, fmt.Errorf("enrichment: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.JobResult{}, fmt.Errorf("enrichment: no completion choices returned")
	}

	return domain.JobResult{
		Summary: resp.Choices[0].Message.Content,
		Model:   e.model,
	}, nil
}
