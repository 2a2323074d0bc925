package types

// AskRequest documents the multipart fields accepted by POST /api/ask. The
// server reads them as form values; the struct exists for API docs and clients.
type AskRequest struct {
	// Credential for the completion endpoint. Never echoed back.
	// example: sk-...
	APIKey string `json:"api_key" example:"sk-..."`
	// Model identifier; empty selects the default.
	// example: gpt-4o-mini
	Model string `json:"model,omitempty" example:"gpt-4o-mini"`
	// Prompt text. May be empty when a file is attached.
	// example: Summarize this
	Prompt string `json:"prompt" example:"Summarize this"`
	// Sampling temperature in [0, 1].
	// example: 0.5
	Temperature float64 `json:"temperature" example:"0.5"`
	// Maximum number of output tokens in [1, 1000].
	// example: 150
	MaxTokens int `json:"max_tokens" example:"150"`
}

// AskResponse carries the trimmed answer of a successful ask.
type AskResponse struct {
	// Answer text with surrounding whitespace removed.
	// example: A summary.
	Answer string `json:"answer" example:"A summary."`
	// Model that produced the answer.
	// example: gpt-4o-mini
	Model string `json:"model" example:"gpt-4o-mini"`
	// Format of the attached document, if any (text, pdf, docx, unsupported).
	// example: pdf
	Document string `json:"document,omitempty" example:"pdf"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// Selectable models in display order.
	Models []Model `json:"models"`
	// Model preselected when none is given.
	// example: gpt-4o-mini
	Default string `json:"default" example:"gpt-4o-mini"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: Please enter your OpenAI API Key.
	Error string `json:"error" example:"Please enter your OpenAI API Key."`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
	// Machine readable failure class (missing_credential, missing_input,
	// invalid_model, extraction_failed, busy, auth, rate_limited, ...).
	// example: missing_credential
	Kind string `json:"kind,omitempty" example:"missing_credential"`
}
