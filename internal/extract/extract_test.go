package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	doc := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + body + `</w:t></w:r></w:p></w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestTextFromBytes_PlainText(t *testing.T) {
	got, err := TextFromBytes(context.Background(), []byte("  eight years of Go experience \n"), "text/plain; charset=utf-8", "cv.txt")
	if err != nil {
		t.Fatalf("TextFromBytes: %v", err)
	}
	if got != "eight years of Go experience" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestTextFromBytes_DocxFromZipMime(t *testing.T) {
	data := buildDocx(t, "Backend engineer")
	got, err := TextFromBytes(context.Background(), data, "application/zip", "cv.docx")
	if err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
	if !strings.Contains(got, "Backend engineer") {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestTextFromBytes_RealZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = TextFromBytes(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for zip, got %v", err)
	}
}

func TestTextFromBytes_ExtensionFallback(t *testing.T) {
	got, err := TextFromBytes(context.Background(), []byte("plain body"), "", "cv.txt")
	if err != nil {
		t.Fatalf("TextFromBytes: %v", err)
	}
	if got != "plain body" {
		t.Fatalf("unexpected text: %q", got)
	}
}
