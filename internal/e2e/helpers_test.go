package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/rs/zerolog"

	"docqa/internal/ask"
	"docqa/internal/completion"
	"docqa/internal/completion/completiontest"
	"docqa/internal/httpapi"
	"docqa/internal/registry"
	"docqa/pkg/types"
)

type stack struct {
	srv      *httptest.Server
	endpoint *completiontest.Server
}

// newStack wires the real service against a fake completion endpoint.
func newStack(t *testing.T, guard ask.Guard) *stack {
	t.Helper()
	endpoint := completiontest.New()
	t.Cleanup(endpoint.Close)
	models, err := registry.New(registry.DefaultModels, "")
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	req := completion.NewRequester(completion.Options{BaseURL: endpoint.BaseURL(), Logger: zerolog.Nop()})
	svc := ask.NewService(req, models, guard, zerolog.Nop())
	srv := httptest.NewServer(httpapi.NewMux(svc))
	t.Cleanup(srv.Close)
	return &stack{srv: srv, endpoint: endpoint}
}

type upload struct {
	name, contentType string
	data              []byte
}

func newFormRequest(t *testing.T, url string, fields map[string]string, file *upload, header http.Header) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("field: %v", err)
		}
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+file.name+`"`)
		h.Set("Content-Type", file.contentType)
		w, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("part: %v", err)
		}
		_, _ = w.Write(file.data)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, &buf)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func postForm(t *testing.T, url string, fields map[string]string, file *upload, header http.Header) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.DefaultClient.Do(newFormRequest(t, url, fields, file, header))
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func decodeAnswer(t *testing.T, body []byte) types.AskResponse {
	t.Helper()
	var out types.AskResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("json: %v body=%q", err, body)
	}
	return out
}

func decodeError(t *testing.T, body []byte) types.ErrorResponse {
	t.Helper()
	var out types.ErrorResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("json: %v body=%q", err, body)
	}
	return out
}
