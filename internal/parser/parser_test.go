package parser

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		wantType string
		wantErr  bool
	}{
		{"a.txt", "*parser.TextParser", false},
		{"a.MD", "*parser.MarkdownParser", false},
		{"a.markdown", "*parser.MarkdownParser", false},
		{"a.csv", "*parser.CSVParser", false},
		{"a.htm", "*parser.HTMLParser", false},
		{"a.pdf", "*parser.PDFParser", false},
		{"a.docx", "*parser.DOCXParser", false},
		{"a.xlsx", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.filename, Options{})
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tt.filename)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.filename, err)
		}
		if got := fmt.Sprintf("%T", p); got != tt.wantType {
			t.Errorf("%s: expected %s, got %s", tt.filename, tt.wantType, got)
		}
	}
}

func TestForFile_PDFFallbackOption(t *testing.T) {
	p, err := ForFile("scan.pdf", Options{PDFFallbackPdftotext: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.(*PDFParser).FallbackPdftotext {
		t.Error("expected fallback to be enabled")
	}
}

func TestDecode_Text(t *testing.T) {
	tree, text, err := Decode(strings.NewReader("1 Notional Amount\nThe amount."), "doc.txt", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "doc" {
		t.Errorf("expected title %q, got %q", "doc", tree.Title)
	}
	if text != "1 Notional Amount\nThe amount." {
		t.Errorf("unexpected text %q", text)
	}
}

func TestDecode_UnsupportedIsDecodeError(t *testing.T) {
	_, _, err := Decode(strings.NewReader("x"), "doc.xlsx", Options{})
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
	if de.Filename != "doc.xlsx" {
		t.Errorf("expected filename doc.xlsx, got %q", de.Filename)
	}
}

func TestDecode_CorruptPDFIsDecodeError(t *testing.T) {
	_, _, err := Decode(strings.NewReader("not a pdf"), "broken.pdf", Options{})
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
}

func TestDecode_CorruptDOCXIsDecodeError(t *testing.T) {
	_, _, err := Decode(strings.NewReader("not a zip"), "broken.docx", Options{})
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("Report.PDF") {
		t.Error("expected .PDF to be supported")
	}
	if IsSupportedExtension("image.png") {
		t.Error("expected .png to be unsupported")
	}
}
