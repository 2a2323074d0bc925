package completion

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// ErrorKind is a coarse classification of a failed completion call.
type ErrorKind string

const (
	KindAuth            ErrorKind = "auth"
	KindRateLimited     ErrorKind = "rate_limited"
	KindBadRequest      ErrorKind = "bad_request"
	KindUnavailable     ErrorKind = "unavailable"
	KindInvalidResponse ErrorKind = "invalid_response"
	KindTransport       ErrorKind = "transport"
)

var errNoChoices = errors.New("completion response contained no choices")

// RemoteError wraps any failure of the completion endpoint. Error returns the
// upstream message unchanged.
type RemoteError struct {
	Kind ErrorKind
	Err  error
}

func (e *RemoteError) Error() string { return e.Err.Error() }

func (e *RemoteError) Unwrap() error { return e.Err }

// StatusCode maps the failure to the HTTP status the API layer reports.
func (e *RemoteError) StatusCode() int {
	switch e.Kind {
	case KindAuth:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// KindOf returns the kind of a RemoteError in err's chain, or "" when err is
// not a completion failure.
func KindOf(err error) ErrorKind {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// IsAuth reports whether the endpoint rejected the credential.
func IsAuth(err error) bool { return KindOf(err) == KindAuth }

func classify(err error) *RemoteError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &RemoteError{Kind: kindForStatus(apiErr.HTTPStatusCode), Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &RemoteError{Kind: kindForStatus(reqErr.HTTPStatusCode), Err: err}
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &RemoteError{Kind: KindInvalidResponse, Err: err}
	}
	return &RemoteError{Kind: KindTransport, Err: err}
}

func kindForStatus(code int) ErrorKind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindAuth
	case code == http.StatusTooManyRequests:
		return KindRateLimited
	case code >= 400 && code < 500:
		return KindBadRequest
	case code >= 500:
		return KindUnavailable
	default:
		return KindInvalidResponse
	}
}
