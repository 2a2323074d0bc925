package httpapi

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"docqa/internal/ask"
	"docqa/internal/completion"
	"docqa/pkg/types"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// pageData is the view of the form. The credential is never part of it.
type pageData struct {
	Models      []types.Model
	Selected    string
	Temperature float64
	MaxTokens   int
	Prompt      string

	Answered bool
	Answer   string
	Error    string
	Warning  string

	MinTemperature, MaxTemperature float64
	MinMaxTokens, MaxMaxTokens     int
}

func newPage(svc Service) pageData {
	p := completion.DefaultParameters()
	return pageData{
		Models:         svc.ListModels(),
		Selected:       svc.DefaultModel(),
		Temperature:    p.Temperature,
		MaxTokens:      p.MaxTokens,
		MinTemperature: minTemperature,
		MaxTemperature: maxTemperature,
		MinMaxTokens:   minMaxTokens,
		MaxMaxTokens:   maxMaxTokens,
	}
}

// withInput carries the submitted form values back into the page so a
// failed ask can be retried without retyping.
func (p pageData) withInput(in ask.Input) pageData {
	if in.Model != "" {
		p.Selected = in.Model
	}
	p.Temperature = in.Params.Temperature
	p.MaxTokens = in.Params.MaxTokens
	p.Prompt = in.Prompt
	return p
}

// withOutcome fills the result area. A missing prompt is a warning; every
// other failure is an error.
func (p pageData) withOutcome(out ask.Outcome) pageData {
	switch {
	case out.OK():
		p.Answered = true
		p.Answer = out.Answer
	case out.Status == ask.StatusMissingInput:
		p.Warning = out.Message
	default:
		p.Error = out.Message
	}
	return p
}

func renderPage(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		zlog.Error().Err(err).Msg("render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
