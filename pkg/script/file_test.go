package script

import (
	"errors"
	"strings"
	"testing"
)

func TestReadImport_PlainText(t *testing.T) {
	text, err := ReadImport("scene.txt", strings.NewReader("ALEX: Hello.\nJORDAN: Hi."))
	if err != nil {
		t.Fatalf("ReadImport failed: %v", err)
	}
	if !strings.Contains(text, "ALEX") {
		t.Errorf("unexpected content: %q", text)
	}
}

func TestReadImport_RejectsPDF(t *testing.T) {
	_, err := ReadImport("sides.pdf", strings.NewReader("%PDF-1.7 ..."))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestReadImport_RejectsBinary(t *testing.T) {
	_, err := ReadImport("scene.txt", strings.NewReader("MZ\x00\x01\x02binary"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestReadImport_SizeLimit(t *testing.T) {
	big := strings.Repeat("a", maxImportSize+1)
	_, err := ReadImport("scene.txt", strings.NewReader(big))
	if err == nil {
		t.Error("expected an error for oversized import")
	}
}
