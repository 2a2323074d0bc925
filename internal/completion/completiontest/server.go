// Package completiontest provides an in-process stand-in for the chat
// completion endpoint.
package completiontest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Call is one request the fake endpoint received.
type Call struct {
	Authorization string
	Model         string
	Prompt        string
	Temperature   *float64
	MaxTokens     int
}

// Reply decides the response to a call. Status 0 means 200.
type Reply struct {
	Status int
	// Answer becomes the single choice's content when Body is empty.
	Answer string
	// Body, when set, is written verbatim.
	Body string
	// NoChoices returns a well-formed response with an empty choices list.
	NoChoices bool
}

// Server records calls and answers them with Respond.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	calls   []Call
	Respond func(Call) Reply
}

// New starts a fake endpoint that echoes the prompt back as the answer until
// Respond is replaced.
func New() *Server {
	s := &Server{Respond: func(c Call) Reply { return Reply{Answer: "echo: " + c.Prompt} }}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", s.handle)
	s.Server = httptest.NewServer(mux)
	return s
}

// BaseURL is the value to configure as the endpoint root.
func (s *Server) BaseURL() string { return s.URL + "/v1" }

// Calls returns a copy of the calls received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount returns the number of calls received so far.
func (s *Server) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// Unauthorized answers like the hosted endpoint does for a bad key.
func Unauthorized(msg string) Reply {
	return Reply{Status: http.StatusUnauthorized, Body: errorBody(msg, "invalid_request_error", "invalid_api_key")}
}

// Failure answers with status and an error envelope carrying msg.
func Failure(status int, msg string) Reply {
	return Reply{Status: status, Body: errorBody(msg, "server_error", "")}
}

func errorBody(msg, typ, code string) string {
	b, _ := json.Marshal(map[string]any{"error": map[string]any{"message": msg, "type": typ, "code": code}})
	return string(b)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model       string   `json:"model"`
		Temperature *float64 `json:"temperature"`
		MaxTokens   int      `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	call := Call{
		Authorization: r.Header.Get("Authorization"),
		Model:         req.Model,
		Temperature:   req.Temperature,
		MaxTokens:     req.MaxTokens,
	}
	if len(req.Messages) > 0 {
		call.Prompt = req.Messages[len(req.Messages)-1].Content
	}
	s.mu.Lock()
	s.calls = append(s.calls, call)
	respond := s.Respond
	s.mu.Unlock()

	reply := respond(call)
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if reply.Body != "" {
		_, _ = w.Write([]byte(reply.Body))
		return
	}
	choices := []map[string]any{}
	if !reply.NoChoices {
		choices = append(choices, map[string]any{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": reply.Answer},
		})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"model":   call.Model,
		"choices": choices,
	})
}
