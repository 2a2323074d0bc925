package extract

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"docqa/internal/extract/extracttest"
)

func TestExtractPlainTextVerbatim(t *testing.T) {
	cases := []string{"", "hello", "Q: 2+2?\nA: 4", "  spaced  \n\n", "héllo wörld ✓"}
	for _, in := range cases {
		res := Extract(MediaTypeText, []byte(in))
		if res.Kind != KindExtracted {
			t.Fatalf("%q: kind=%v err=%v", in, res.Kind, res.Err)
		}
		if res.Text != in {
			t.Fatalf("%q: got %q", in, res.Text)
		}
	}
}

func TestExtractPlainTextWithCharsetParameter(t *testing.T) {
	res := Extract("text/plain; charset=utf-8", []byte("abc"))
	if res.Kind != KindExtracted || res.Text != "abc" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestExtractPlainTextInvalidUTF8(t *testing.T) {
	res := Extract(MediaTypeText, []byte{0xff, 0xfe, 'a'})
	if res.Kind != KindDecodeFailure {
		t.Fatalf("kind=%v", res.Kind)
	}
	var de *DecodeError
	if !errors.As(res.Err, &de) || de.Format != "text" {
		t.Fatalf("expected DecodeError for text, got %v", res.Err)
	}
	if res.Display() != "" {
		t.Fatalf("display=%q", res.Display())
	}
}

func TestExtractUnsupported(t *testing.T) {
	for _, mt := range []string{"", "image/png", "application/msword", "text/html", "application/octet-stream"} {
		res := Extract(mt, []byte("whatever"))
		if res.Kind != KindUnsupported {
			t.Fatalf("%q: kind=%v", mt, res.Kind)
		}
		if res.Display() != "Unsupported file format." {
			t.Fatalf("%q: display=%q", mt, res.Display())
		}
	}
}

func TestExtractedSentinelTextIsNotUnsupported(t *testing.T) {
	res := Extract(MediaTypeText, []byte(UnsupportedText))
	if res.Kind != KindExtracted {
		t.Fatalf("kind=%v", res.Kind)
	}
}

func TestExtractPDFConcatenatesPages(t *testing.T) {
	data := extracttest.PDF("Hello", "World")
	res := Extract(MediaTypePDF, data)
	if res.Kind != KindExtracted {
		t.Fatalf("kind=%v err=%v", res.Kind, res.Err)
	}
	if res.Text != "HelloWorld" {
		t.Fatalf("text=%q", res.Text)
	}
}

func TestExtractPDFEmptyPageContributesNothing(t *testing.T) {
	data := extracttest.PDF("A", "", "B")
	res := Extract(MediaTypePDF, data)
	if res.Kind != KindExtracted {
		t.Fatalf("kind=%v err=%v", res.Kind, res.Err)
	}
	if res.Text != "AB" {
		t.Fatalf("text=%q", res.Text)
	}
}

func TestExtractPDFOnlyEmptyPages(t *testing.T) {
	res := Extract(MediaTypePDF, extracttest.PDF("", ""))
	if res.Kind != KindExtracted || res.Text != "" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestExtractPDFMalformed(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("not a pdf at all"), []byte("%PDF-1.4\ngarbage without trailer")} {
		res := Extract(MediaTypePDF, data)
		if res.Kind != KindDecodeFailure {
			t.Fatalf("%q: kind=%v", data, res.Kind)
		}
		if res.Err == nil {
			t.Fatalf("%q: missing error", data)
		}
	}
}

func TestExtractDOCXJoinsParagraphs(t *testing.T) {
	data := extracttest.DOCX("First", "Second", "Third")
	res := Extract(MediaTypeDOCX, data)
	if res.Kind != KindExtracted {
		t.Fatalf("kind=%v err=%v", res.Kind, res.Err)
	}
	if res.Text != "First\nSecond\nThird" {
		t.Fatalf("text=%q", res.Text)
	}
}

func TestExtractDOCXKeepsEmptyParagraphs(t *testing.T) {
	data := extracttest.DOCX("a", "", "b")
	res := Extract(MediaTypeDOCX, data)
	if res.Text != "a\n\nb" {
		t.Fatalf("text=%q", res.Text)
	}
}

func TestExtractDOCXMultipleRunsInParagraph(t *testing.T) {
	body := `<w:p><w:r><w:t xml:space="preserve">Hello, </w:t></w:r><w:r><w:t>world</w:t></w:r></w:p>`
	res := Extract(MediaTypeDOCX, extracttest.DOCXBody(body))
	if res.Text != "Hello, world" {
		t.Fatalf("text=%q", res.Text)
	}
}

func TestExtractDOCXSkipsTables(t *testing.T) {
	table := `<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`
	res := Extract(MediaTypeDOCX, extracttest.DOCXBody(extracttest.Paragraph("before")+table+extracttest.Paragraph("after")))
	if res.Text != "before\nafter" {
		t.Fatalf("text=%q", res.Text)
	}
}

func TestExtractDOCXMalformed(t *testing.T) {
	res := Extract(MediaTypeDOCX, []byte("PK not really a zip"))
	if res.Kind != KindDecodeFailure {
		t.Fatalf("kind=%v", res.Kind)
	}

	// a valid zip that is not a word document
	res = Extract(MediaTypeDOCX, extracttest.Zip(map[string]string{"readme.txt": "hi"}))
	if res.Kind != KindDecodeFailure || !errors.Is(res.Err, errNoDocumentPart) {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestExtractDoesNotMutateInput(t *testing.T) {
	data := extracttest.DOCX("x")
	orig := append([]byte(nil), data...)
	_ = Extract(MediaTypeDOCX, data)
	if !bytes.Equal(orig, data) {
		t.Fatalf("input mutated")
	}
}

func TestFormat(t *testing.T) {
	cases := map[string]string{
		"text/plain":                "text",
		"TEXT/PLAIN; charset=utf-8": "text",
		"application/pdf":           "pdf",
		MediaTypeDOCX:               "docx",
		"":                          "unsupported",
		"image/jpeg":                "unsupported",
	}
	for in, want := range cases {
		if got := Format(in); got != want {
			t.Fatalf("Format(%q)=%q want %q", in, got, want)
		}
	}
}

func TestAllowedExtension(t *testing.T) {
	cases := map[string]bool{
		"notes.txt":        true,
		"Report.PDF":       true,
		"letter.docx":      true,
		"letter.doc":       false,
		"image.png":        false,
		"noextension":      false,
		"archive.docx.zip": false,
	}
	for in, want := range cases {
		if got := AllowedExtension(in); got != want {
			t.Fatalf("AllowedExtension(%q)=%v want %v", in, got, want)
		}
	}
	if MediaTypeFor("a.pdf") != MediaTypePDF || MediaTypeFor("a.bin") != "" {
		t.Fatalf("MediaTypeFor mismatch")
	}
}

func TestGuardedConvertsPanics(t *testing.T) {
	_, err := guarded(func() (string, error) { panic("boom") })
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("err=%v", err)
	}
}
