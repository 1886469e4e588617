// Package resume extracts plain text from uploaded resume files.
package resume

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// MIME types accepted by ExtractText.
const (
	MimePlain = "text/plain"
	MimePDF   = "application/pdf"
	MimeDocx  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ExtractText returns the plain text of a resume file. Unsupported types are
// a caller error, not an upstream failure.
func ExtractText(mime string, data []byte) (string, error) {
	switch mime {
	case MimePlain:
		return string(data), nil

	case MimePDF:
		return extractPDFText(data)

	case MimeDocx:
		return extractDocxText(data)

	default:
		return "", fmt.Errorf("unsupported file type: %s", mime)
	}
}

func extractPDFText(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		textBuilder.WriteString(text)
	}
	return textBuilder.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	r := bytes.NewReader(data)

	doc, err := docx.ReadDocxFromMemory(r, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}
