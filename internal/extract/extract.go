// Package extract turns uploaded document bytes into plain text based on the
// declared media type of the upload.
package extract

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/sourcegraph/conc/panics"
)

// Recognized media types.
const (
	MediaTypeText = "text/plain"
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// UnsupportedText is what an unsupported upload renders as when it is folded
// into a prompt.
const UnsupportedText = "Unsupported file format."

// Kind tags the outcome of an extraction.
type Kind int

const (
	KindExtracted Kind = iota
	KindUnsupported
	KindDecodeFailure
)

func (k Kind) String() string {
	switch k {
	case KindExtracted:
		return "extracted"
	case KindUnsupported:
		return "unsupported"
	case KindDecodeFailure:
		return "decode_failure"
	default:
		return "unknown"
	}
}

// Result is the outcome of Extract. Text is only meaningful for KindExtracted
// and Err is only set for KindDecodeFailure.
type Result struct {
	Kind   Kind
	Format string
	Text   string
	Err    error
}

// Display returns the text a caller appends to a prompt: the document text
// when extraction succeeded, UnsupportedText for unrecognized uploads and the
// empty string otherwise.
func (r Result) Display() string {
	switch r.Kind {
	case KindExtracted:
		return r.Text
	case KindUnsupported:
		return UnsupportedText
	default:
		return ""
	}
}

// Extract returns the plain-text content of data interpreted as mediaType.
// data is read once and never retained.
func Extract(mediaType string, data []byte) Result {
	format := Format(mediaType)
	var (
		text string
		err  error
	)
	switch format {
	case "text":
		text, err = decodeText(data)
	case "pdf":
		text, err = guarded(func() (string, error) { return extractPDF(data) })
	case "docx":
		text, err = guarded(func() (string, error) { return extractDOCX(data) })
	default:
		return Result{Kind: KindUnsupported, Format: format}
	}
	if err != nil {
		return Result{Kind: KindDecodeFailure, Format: format, Err: err}
	}
	return Result{Kind: KindExtracted, Format: format, Text: text}
}

// Format maps a declared media type to a short label: text, pdf, docx or
// unsupported. Media type parameters are ignored.
func Format(mediaType string) string {
	switch normalize(mediaType) {
	case MediaTypeText:
		return "text"
	case MediaTypePDF:
		return "pdf"
	case MediaTypeDOCX:
		return "docx"
	default:
		return "unsupported"
	}
}

// allowedExtensions mirrors the upload picker filter.
var allowedExtensions = map[string]string{
	".txt":  MediaTypeText,
	".pdf":  MediaTypePDF,
	".docx": MediaTypeDOCX,
}

// AllowedExtension reports whether filename carries one of the accepted
// upload extensions.
func AllowedExtension(filename string) bool {
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// MediaTypeFor guesses the media type from a file extension for inputs that
// carry no declared type. Unknown extensions yield "".
func MediaTypeFor(filename string) string {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// DecodeError reports bytes that could not be parsed as the declared format.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode %s: %v", e.Format, e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }

func normalize(mediaType string) string {
	mediaType = strings.TrimSpace(mediaType)
	if mediaType == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(mediaType); err == nil {
		return mt
	}
	return strings.ToLower(mediaType)
}

func decodeText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", &DecodeError{Format: "text", Err: fmt.Errorf("invalid UTF-8 byte sequence")}
	}
	return string(data), nil
}

// guarded runs fn and converts a parser panic into an error.
func guarded(fn func() (string, error)) (text string, err error) {
	if rec := panics.Try(func() { text, err = fn() }); rec != nil {
		return "", rec.AsError()
	}
	return text, err
}
