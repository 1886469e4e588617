package resume_test

import (
	"testing"

	"github.com/skillbridge/skillbridge/internal/resume"
)

func TestExtractText_PlainText(t *testing.T) {
	text := "Five years of warehouse operations and inventory management."
	got, err := resume.ExtractText(resume.MimePlain, []byte(text))
	if err != nil {
		t.Fatalf("extract plain text: %v", err)
	}
	if got != text {
		t.Fatalf("expected %q got %q", text, got)
	}
}

func TestExtractText_UnsupportedType(t *testing.T) {
	if _, err := resume.ExtractText("image/png", []byte("binary")); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := resume.ExtractText("", []byte("data")); err == nil {
		t.Fatalf("expected error for empty mime type")
	}
}

func TestExtractText_CorruptPDF(t *testing.T) {
	if _, err := resume.ExtractText(resume.MimePDF, []byte("not a pdf")); err == nil {
		t.Fatalf("expected error for corrupt pdf payload")
	}
}

func TestExtractText_CorruptDocx(t *testing.T) {
	if _, err := resume.ExtractText(resume.MimeDocx, []byte("not a zip archive")); err == nil {
		t.Fatalf("expected error for corrupt docx payload")
	}
}
