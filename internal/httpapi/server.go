// Package httpapi serves the ask form, its JSON twin and operational endpoints.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docqa/internal/ask"
	"docqa/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Ask(ctx context.Context, in ask.Input) ask.Outcome
	ListModels() []types.Model
	DefaultModel() string
	Ready(ctx context.Context) bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}))
	}

	h := &handlers{svc: svc}
	r.Get("/", h.index)
	r.Post("/ask", h.askPage)
	r.Post("/api/ask", h.askAPI)
	r.Get("/models", h.models)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if svc.Ready(ctx) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("unavailable"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

type handlers struct {
	svc Service
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	sessionID(w, r)
	renderPage(w, http.StatusOK, newPage(h.svc))
}

// models godoc
// @Summary      List selectable models
// @Tags         models
// @Produce      json
// @Success      200  {object}  types.ModelsResponse
// @Router       /models [get]
func (h *handlers) models(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.ModelsResponse{Models: h.svc.ListModels(), Default: h.svc.DefaultModel()})
}

func (h *handlers) askPage(w http.ResponseWriter, r *http.Request) {
	session := sessionID(w, r)
	page := newPage(h.svc)
	in, err := parseAsk(w, r)
	if err != nil {
		incRejected(kindOf(err))
		logRequestError(r, err)
		page.Error = err.Error()
		renderPage(w, statusOf(err), page)
		return
	}
	in.Session = session
	out, ok := h.run(w, r, in)
	if !ok {
		return
	}
	renderPage(w, http.StatusOK, page.withInput(in).withOutcome(out))
}

// askAPI godoc
// @Summary      Ask a question, optionally about an uploaded document
// @Description  Sends the prompt, followed by the text of the uploaded file, to the completion endpoint and returns the trimmed answer.
// @Tags         ask
// @Accept       multipart/form-data
// @Produce      json
// @Param        api_key      formData  string  true   "Completion endpoint credential"
// @Param        model        formData  string  false  "Model id"
// @Param        prompt       formData  string  false  "Prompt text"
// @Param        temperature  formData  number  false  "Temperature in [0,1]"
// @Param        max_tokens   formData  integer false  "Max output tokens in [1,1000]"
// @Param        file         formData  file    false  "Document (.txt, .pdf, .docx)"
// @Success      200  {object}  types.AskResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      401  {object}  types.ErrorResponse
// @Failure      409  {object}  types.ErrorResponse
// @Failure      413  {object}  types.ErrorResponse
// @Failure      429  {object}  types.ErrorResponse
// @Failure      502  {object}  types.ErrorResponse
// @Router       /api/ask [post]
func (h *handlers) askAPI(w http.ResponseWriter, r *http.Request) {
	session := sessionID(w, r)
	in, err := parseAsk(w, r)
	if err != nil {
		incRejected(kindOf(err))
		logRequestError(r, err)
		writeRequestError(w, err)
		return
	}
	in.Session = session
	out, ok := h.run(w, r, in)
	if !ok {
		return
	}
	if out.OK() {
		writeJSON(w, http.StatusOK, types.AskResponse{Answer: out.Answer, Model: out.Model, Document: out.Document})
		return
	}
	msg := out.Message
	if out.Status == ask.StatusRemoteFailed && out.Err != nil {
		msg = out.Err.Error()
	}
	writeJSONError(w, out.StatusCode(), msg, out.Kind())
}

// run executes the ask under a context that also ends on server shutdown.
// It reports false when the client went away and nothing should be written.
func (h *handlers) run(w http.ResponseWriter, r *http.Request, in ask.Input) (ask.Outcome, bool) {
	start := time.Now()
	ctx, cancel := joinContexts(r.Context(), serverBaseCtx)
	defer cancel()
	out := h.svc.Ask(ctx, in)
	if r.Context().Err() != nil {
		return out, false
	}
	if serverBaseCtx.Err() != nil {
		writeJSONError(w, http.StatusServiceUnavailable, "server shutting down", "shutdown")
		return out, false
	}
	if out.Status == ask.StatusBusy {
		incRejected("busy")
	}
	if ev := requestEvent(r, out.StatusCode()); ev != nil {
		ev.Str("outcome", out.Status.String()).
			Str("kind", out.Kind()).
			Str("model", out.Model).
			Str("document", out.Document).
			Dur("dur", time.Since(start)).
			Msg("ask")
	}
	return out, true
}

func logRequestError(r *http.Request, err error) {
	if ev := requestEvent(r, statusOf(err)); ev != nil {
		ev.Str("kind", kindOf(err)).Msg("ask rejected")
	}
}

func statusOf(err error) int {
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

func kindOf(err error) string {
	if re, ok := err.(*requestError); ok {
		return re.kind
	}
	return ""
}
