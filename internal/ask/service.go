// Package ask validates a user's ask, assembles the effective prompt and
// issues the completion call.
package ask

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"docqa/internal/completion"
	"docqa/internal/extract"
	"docqa/internal/registry"
	"docqa/pkg/types"
)

// Completer sends one completion request.
type Completer interface {
	Complete(ctx context.Context, req completion.Request) (string, error)
}

// Upload is an attached file, materialized once at the boundary.
type Upload struct {
	Name      string
	MediaType string
	Data      []byte
}

// Input is everything one user action submits.
type Input struct {
	Credential string
	// Model may be empty to select the registry default.
	Model  string
	Prompt string
	Params completion.Parameters
	File   *Upload
	// Session keys the in-flight guard. Empty skips the guard.
	Session string
}

// Service runs asks. It holds no per-request state.
type Service struct {
	completer Completer
	models    *registry.Registry
	guard     Guard
	log       zerolog.Logger
}

// NewService wires a Service. A nil guard admits every ask.
func NewService(completer Completer, models *registry.Registry, guard Guard, log zerolog.Logger) *Service {
	return &Service{completer: completer, models: models, guard: guard, log: log}
}

// ListModels returns the selectable models in display order.
func (s *Service) ListModels() []types.Model { return s.models.List() }

// DefaultModel returns the model used when an ask names none.
func (s *Service) DefaultModel() string { return s.models.Default() }

// Ready reports whether the guard backend, if it can be probed, is reachable.
func (s *Service) Ready(ctx context.Context) bool {
	p, ok := s.guard.(interface{ Ping(context.Context) error })
	if !ok {
		return true
	}
	if err := p.Ping(ctx); err != nil {
		s.log.Warn().Err(err).Msg("readiness: session guard unreachable")
		return false
	}
	return true
}

// Ask runs one user action to completion. Validation failures never reach the
// extractor or the endpoint.
func (s *Service) Ask(ctx context.Context, in Input) Outcome {
	start := time.Now()
	out := s.ask(ctx, in)
	asksTotal.WithLabelValues(out.Status.String()).Inc()

	ev := s.log.Info()
	if out.Status == StatusRemoteFailed {
		ev = s.log.Warn().Err(out.Err)
	} else if out.Err != nil {
		ev = ev.Err(out.Err)
	}
	ev.Str("status", out.Status.String()).
		Str("model", out.Model).
		Str("document", out.Document).
		Dur("dur", time.Since(start)).
		Msg("ask")
	return out
}

func (s *Service) ask(ctx context.Context, in Input) Outcome {
	if in.Credential == "" {
		return Outcome{Status: StatusMissingCredential, Message: MsgMissingCredential}
	}
	if in.Prompt == "" && in.File == nil {
		return Outcome{Status: StatusMissingInput, Message: MsgMissingInput}
	}
	model := in.Model
	if model == "" {
		model = s.models.Default()
	}
	if !s.models.Has(model) {
		return Outcome{Status: StatusInvalidModel, Model: model, Message: fmt.Sprintf("Unknown model %q.", model)}
	}

	if s.guard != nil && in.Session != "" {
		release, err := s.guard.Acquire(ctx, in.Session)
		if err != nil {
			if IsBusy(err) {
				return Outcome{Status: StatusBusy, Model: model, Message: MsgBusy, Err: err}
			}
			// a broken guard backend must not take asks down with it
			s.log.Warn().Err(err).Msg("session guard unavailable")
		} else {
			defer release()
		}
	}

	var document *string
	var format string
	if in.File != nil {
		res := extract.Extract(in.File.MediaType, in.File.Data)
		format = res.Format
		extractionsTotal.WithLabelValues(res.Format, res.Kind.String()).Inc()
		if res.Kind == extract.KindDecodeFailure {
			return Outcome{
				Status:   StatusExtractionFailed,
				Model:    model,
				Document: format,
				Message:  fmt.Sprintf("Could not parse uploaded file %q as %s.", in.File.Name, res.Format),
				Err:      res.Err,
			}
		}
		text := res.Display()
		document = &text
	}

	answer, err := s.completer.Complete(ctx, completion.Request{
		Credential: in.Credential,
		Model:      model,
		Prompt:     completion.EffectivePrompt(in.Prompt, document),
		Params:     in.Params,
	})
	if err != nil {
		return Outcome{Status: StatusRemoteFailed, Model: model, Document: format, Message: "Error: " + err.Error(), Err: err}
	}
	return Outcome{Status: StatusAnswered, Model: model, Document: format, Answer: answer}
}
