package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF concatenates the text of every page in order with no separator.
// Pages without a content stream contribute nothing. The reader emits a
// newline for every text object, so each page is trimmed before joining.
func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &DecodeError{Format: "pdf", Err: err}
	}
	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", &DecodeError{Format: "pdf", Err: fmt.Errorf("page %d: %w", i, err)}
		}
		sb.WriteString(strings.TrimSpace(text))
	}
	return sb.String(), nil
}
