package script

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// maxImportSize caps uploaded script files at 1MB. Real scripts are a few KB.
const maxImportSize = 1 << 20

// ErrUnsupportedFormat is returned for uploads that are not plain text.
var ErrUnsupportedFormat = fmt.Errorf("unsupported file format, paste the text instead")

// ReadImport reads an uploaded script file and returns its text. Only plain
// text is accepted; PDFs and binary files fail with ErrUnsupportedFormat
// rather than silently producing garbage.
func ReadImport(filename string, r io.Reader) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".text", "":
		// Plain text, or no extension: sniff the content below.
	default:
		return "", fmt.Errorf("%q: %w", filename, ErrUnsupportedFormat)
	}

	data, err := io.ReadAll(io.LimitReader(r, maxImportSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", filename, err)
	}
	if len(data) > maxImportSize {
		return "", fmt.Errorf("%q exceeds the %d byte import limit", filename, maxImportSize)
	}

	if bytes.ContainsRune(data, 0) || !utf8.Valid(data) {
		return "", fmt.Errorf("%q: %w", filename, ErrUnsupportedFormat)
	}

	return string(data), nil
}
