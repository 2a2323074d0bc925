package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"docqa/internal/ask"
	"docqa/internal/completion"
	"docqa/internal/extract"
)

// Form field names shared by the page and POST /api/ask.
const (
	fieldAPIKey      = "api_key"
	fieldModel       = "model"
	fieldPrompt      = "prompt"
	fieldTemperature = "temperature"
	fieldMaxTokens   = "max_tokens"
	fieldFile        = "file"
)

// Bounds of the form sliders.
const (
	minTemperature = 0.0
	maxTemperature = 1.0
	minMaxTokens   = 1
	maxMaxTokens   = 1000
)

// parseAsk reads an ask from a multipart or urlencoded body. The upload is
// read into memory exactly once here.
func parseAsk(w http.ResponseWriter, r *http.Request) (ask.Input, error) {
	if r.ContentLength > maxUploadBytes {
		return ask.Input{}, tooLarge()
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return ask.Input{}, tooLarge()
		}
		return ask.Input{}, badRequest("invalid_form", "Could not read the submitted form.")
	}

	params, err := parseParams(r)
	if err != nil {
		return ask.Input{}, err
	}
	in := ask.Input{
		Credential: r.FormValue(fieldAPIKey),
		Model:      strings.TrimSpace(r.FormValue(fieldModel)),
		Prompt:     r.FormValue(fieldPrompt),
		Params:     params,
	}
	up, err := readUpload(r)
	if err != nil {
		return ask.Input{}, err
	}
	in.File = up
	return in, nil
}

func tooLarge() *requestError {
	return &requestError{
		status: http.StatusRequestEntityTooLarge,
		kind:   "too_large",
		msg:    fmt.Sprintf("Request exceeds the %d byte upload limit.", maxUploadBytes),
	}
}

func parseParams(r *http.Request) (completion.Parameters, error) {
	p := completion.DefaultParameters()
	if v := strings.TrimSpace(r.FormValue(fieldTemperature)); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil || t < minTemperature || t > maxTemperature {
			return p, badRequest("invalid_parameters", fmt.Sprintf("temperature must be a number in [%.1f, %.1f]", minTemperature, maxTemperature))
		}
		p.Temperature = t
	}
	if v := strings.TrimSpace(r.FormValue(fieldMaxTokens)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < minMaxTokens || n > maxMaxTokens {
			return p, badRequest("invalid_parameters", fmt.Sprintf("max_tokens must be an integer in [%d, %d]", minMaxTokens, maxMaxTokens))
		}
		p.MaxTokens = n
	}
	return p, nil
}

// readUpload returns nil when no file was attached.
func readUpload(r *http.Request) (*ask.Upload, error) {
	f, hdr, err := r.FormFile(fieldFile)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, badRequest("invalid_form", "Could not read the uploaded file.")
	}
	defer f.Close()
	if !extract.AllowedExtension(hdr.Filename) {
		return nil, badRequest("unsupported_file", fmt.Sprintf("File %q is not a .txt, .pdf or .docx file.", hdr.Filename))
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, badRequest("invalid_form", "Could not read the uploaded file.")
	}
	return &ask.Upload{Name: hdr.Filename, MediaType: uploadMediaType(hdr.Header.Get("Content-Type"), hdr.Filename), Data: data}, nil
}

// uploadMediaType trusts the declared type unless the client sent none or a
// generic one, in which case the extension decides.
func uploadMediaType(declared, filename string) string {
	d := strings.ToLower(strings.TrimSpace(declared))
	if d == "" || strings.HasPrefix(d, "application/octet-stream") {
		return extract.MediaTypeFor(filename)
	}
	return declared
}
