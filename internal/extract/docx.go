package extract

import (
	"bytes"
	"errors"
	"strings"

	"github.com/fumiama/go-docx"
)

var errNoDocumentPart = errors.New("archive has no word/document.xml part")

// extractDOCX joins the text of the top-level body paragraphs with "\n".
// Tables, headers and footers are not part of the output.
func extractDOCX(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &DecodeError{Format: "docx", Err: err}
	}
	if doc.Document.XMLName.Local == "" {
		return "", &DecodeError{Format: "docx", Err: errNoDocumentPart}
	}
	paragraphs := make([]string, 0, len(doc.Document.Body.Items))
	for _, item := range doc.Document.Body.Items {
		if p, ok := item.(*docx.Paragraph); ok {
			paragraphs = append(paragraphs, p.String())
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}
