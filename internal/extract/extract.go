package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"recruit-backend/internal/shared/storage/object"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrUnsupported indicates the document format has no local extractor.
var ErrUnsupported = errors.New("unsupported mime type")

// CVText reads a stored CV and returns its plain text along with the
// raw bytes. On extraction failure the raw bytes are still returned so
// the caller can fall back to an attachment-based analysis.
func CVText(ctx context.Context, store object.ObjectStore, fileKey, mimeType, fileName string) (string, []byte, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	body, err := store.Open(ctx, fileKey)
	if err != nil {
		return "", nil, fmt.Errorf("open cv key=%s: %w", fileKey, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", nil, fmt.Errorf("read cv key=%s: %w", fileKey, err)
	}

	text, err := TextFromBytes(ctx, raw, mimeType, fileName)
	if err != nil {
		return "", raw, fmt.Errorf("extract cv key=%s mime=%s: %w", fileKey, mimeType, err)
	}
	return text, raw, nil
}

// TextFromBytes extracts text from an in-memory document.
func TextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch resolved := resolveMimeType(mimeType, fileName, data); {
	case resolved == mimePDF:
		return pdfText(data)
	case resolved == mimeDOCX:
		return docxText(data)
	case strings.HasPrefix(resolved, "text/"):
		return strings.TrimSpace(string(data)), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, resolved)
	}
}

// resolveMimeType trims charset parameters and resolves the two cases
// sniffing gets wrong: empty types fall back to the file extension, and
// docx uploads sniff as plain zip.
func resolveMimeType(mimeType, fileName string, data []byte) string {
	base, _, _ := strings.Cut(mimeType, ";")
	base = strings.ToLower(strings.TrimSpace(base))
	ext := strings.ToLower(filepath.Ext(fileName))

	switch base {
	case "":
		switch ext {
		case ".pdf":
			return mimePDF
		case ".docx":
			return mimeDOCX
		case ".txt":
			return "text/plain"
		}
	case "application/zip":
		if ext == ".docx" || zipHasDocumentXML(data) {
			return mimeDOCX
		}
	}
	return base
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func docxText(data []byte) (string, error) {
	doc, err := openZipEntry(data, "word/document.xml")
	if err != nil {
		return "", err
	}
	return flattenDocumentXML(doc), nil
}

// flattenDocumentXML keeps character data and turns paragraph and line
// break ends into newlines. Malformed XML returns the raw string rather
// than losing the content.
func flattenDocumentXML(raw []byte) string {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return string(raw)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func openZipEntry(data []byte, entry string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") != entry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found in archive", entry)
}

func zipHasDocumentXML(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}
