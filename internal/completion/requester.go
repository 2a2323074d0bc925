// Package completion issues single, non-streaming chat completion requests
// against an OpenAI-compatible endpoint.
package completion

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

// Parameters are the generation knobs passed through to the endpoint as-is.
// A zero Temperature is sent as the smallest positive float32, since the
// client omits zero values from the request body.
type Parameters struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// Defaults used by the form sliders.
const (
	DefaultTemperature = 0.5
	DefaultMaxTokens   = 150
)

// DefaultParameters returns the parameters a fresh form starts with.
func DefaultParameters() Parameters {
	return Parameters{Temperature: DefaultTemperature, MaxTokens: DefaultMaxTokens}
}

// Request is one completion call. It is built per user action and never stored.
type Request struct {
	Credential string
	Model      string
	Prompt     string
	Params     Parameters
}

// EffectivePrompt appends document to prompt separated by a blank line. A nil
// document leaves prompt unchanged.
func EffectivePrompt(prompt string, document *string) string {
	if document == nil {
		return prompt
	}
	return prompt + "\n\n" + *document
}

// TokenCounter estimates the number of prompt tokens for model.
type TokenCounter interface {
	Count(model, text string) (int, bool)
}

// Options configure a Requester.
type Options struct {
	// BaseURL overrides the endpoint root, e.g. https://api.openai.com/v1.
	BaseURL string
	// HTTPClient is used for outbound calls; nil means a fresh http.Client
	// without a timeout.
	HTTPClient *http.Client
	// Tokens, when set, feeds the prompt token histogram.
	Tokens TokenCounter
	Logger zerolog.Logger
}

// Requester sends prompts to the completion endpoint.
type Requester struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenCounter
	log        zerolog.Logger
}

// NewRequester builds a Requester from opts.
func NewRequester(opts Options) *Requester {
	return &Requester{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		tokens:     opts.Tokens,
		log:        opts.Logger,
	}
}

// Complete sends req as a single user message and returns the first choice's
// content with surrounding whitespace removed. Every failure is a *RemoteError.
// There is no retry; ctx is the only bound on the call.
func (r *Requester) Complete(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	if r.tokens != nil {
		if n, ok := r.tokens.Count(req.Model, req.Prompt); ok {
			promptTokens.WithLabelValues(req.Model).Observe(float64(n))
		}
	}

	client := openai.NewClientWithConfig(r.clientConfig(req.Credential))
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: req.Prompt,
		}},
		Temperature: wireTemperature(req.Params.Temperature),
		MaxTokens:   req.Params.MaxTokens,
	})
	if err != nil {
		rerr := classify(err)
		r.observe(req.Model, string(rerr.Kind), start, rerr)
		return "", rerr
	}
	if len(resp.Choices) == 0 {
		rerr := &RemoteError{Kind: KindInvalidResponse, Err: errNoChoices}
		r.observe(req.Model, string(rerr.Kind), start, rerr)
		return "", rerr
	}
	r.observe(req.Model, "ok", start, nil)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (r *Requester) clientConfig(credential string) openai.ClientConfig {
	cfg := openai.DefaultConfig(credential)
	if r.baseURL != "" {
		cfg.BaseURL = r.baseURL
	}
	if r.httpClient != nil {
		cfg.HTTPClient = r.httpClient
	}
	return cfg
}

func (r *Requester) observe(model, outcome string, start time.Time, err error) {
	completionsTotal.WithLabelValues(model, outcome).Inc()
	ev := r.log.Debug()
	if err != nil {
		ev = r.log.Info().Err(err)
	}
	ev.Str("model", model).Str("outcome", outcome).Dur("dur", time.Since(start)).Msg("completion")
}

// wireTemperature keeps an explicit zero on the wire; the client drops zero
// floats from the request body.
func wireTemperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}
