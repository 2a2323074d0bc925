package ask

import (
	"errors"
	"net/http"

	"docqa/internal/completion"
)

// Status is the terminal state of one ask.
type Status int

const (
	StatusAnswered Status = iota
	StatusMissingCredential
	StatusMissingInput
	StatusInvalidModel
	StatusExtractionFailed
	StatusBusy
	StatusRemoteFailed
)

func (s Status) String() string {
	switch s {
	case StatusAnswered:
		return "answered"
	case StatusMissingCredential:
		return "missing_credential"
	case StatusMissingInput:
		return "missing_input"
	case StatusInvalidModel:
		return "invalid_model"
	case StatusExtractionFailed:
		return "extraction_failed"
	case StatusBusy:
		return "busy"
	case StatusRemoteFailed:
		return "remote_failed"
	default:
		return "unknown"
	}
}

// User-facing messages.
const (
	MsgMissingCredential = "Please enter your OpenAI API Key."
	MsgMissingInput      = "Please provide a prompt or upload a file."
	MsgBusy              = "A request for this session is already in progress."
)

// Outcome is the result of Service.Ask. Answer is set only for
// StatusAnswered; Message holds the text to show otherwise.
type Outcome struct {
	Status  Status
	Answer  string
	Message string
	// Model actually used, after defaulting.
	Model string
	// Document is the extract format label of the attached file, "" without one.
	Document string
	Err      error
}

// OK reports whether the ask produced an answer.
func (o Outcome) OK() bool { return o.Status == StatusAnswered }

// Kind is a machine readable failure class. Remote failures report the
// completion error kind.
func (o Outcome) Kind() string {
	if o.Status == StatusRemoteFailed {
		if k := completion.KindOf(o.Err); k != "" {
			return string(k)
		}
	}
	return o.Status.String()
}

// StatusCode maps the outcome to an HTTP status for the JSON API.
func (o Outcome) StatusCode() int {
	switch o.Status {
	case StatusAnswered:
		return http.StatusOK
	case StatusBusy:
		return http.StatusConflict
	case StatusRemoteFailed:
		var re *completion.RemoteError
		if errors.As(o.Err, &re) {
			return re.StatusCode()
		}
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}
