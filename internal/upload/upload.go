// Package upload turns a submitted file into candidate chat text. Callers
// hand it raw bytes; it applies the size cap, sniffs the container format,
// unwraps zip archives, and runs the cheap export-shape pre-validation so
// downstream code only ever sees plausible chat text.
package upload

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrTooLarge  = errors.New("file too large")
	ErrNotExport = errors.New("no recognizable chat export timestamp found")
	ErrEncoding  = errors.New("file is not valid UTF-8 text")
	ErrArchive   = errors.New("archive must contain exactly one chat export text file")
)

// Validator is the pre-validation gate applied to candidate text; wired to
// chatlog.QuickCheck in production.
type Validator func(content []byte) bool

// ExtractText returns the chat text contained in data, whether data is the
// text itself or a zip archive wrapping exactly one qualifying .txt entry.
func ExtractText(data []byte, filename string, maxBytes int64, valid Validator) (string, error) {
	if int64(len(data)) > maxBytes {
		return "", ErrTooLarge
	}

	kind := mimetype.Detect(data)

	if kind.Is("application/zip") || strings.HasSuffix(strings.ToLower(filename), ".zip") {
		return extractFromZip(data, maxBytes, valid)
	}

	return candidateText(data, valid)
}

func candidateText(data []byte, valid Validator) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrEncoding
	}

	if !valid(data) {
		return "", ErrNotExport
	}

	return string(data), nil
}

// extractFromZip scans the archive for .txt entries that pass the validator.
// Exactly one must qualify; zero or several is ErrArchive.
func extractFromZip(data []byte, maxBytes int64, valid Validator) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening archive: %w", err)
	}

	var candidate string

	found := false

	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name), ".txt") {
			continue
		}

		if entry.UncompressedSize64 > uint64(maxBytes) {
			return "", ErrTooLarge
		}

		text, err := readZipEntry(entry, maxBytes)
		if err != nil {
			return "", err
		}

		if !utf8.ValidString(text) || !valid([]byte(text)) {
			continue
		}

		if found {
			return "", ErrArchive
		}

		candidate = text
		found = true
	}

	if !found {
		return "", ErrArchive
	}

	return candidate, nil
}

func readZipEntry(entry *zip.File, maxBytes int64) (string, error) {
	rc, err := entry.Open()
	if err != nil {
		return "", fmt.Errorf("opening archive entry %s: %w", entry.Name, err)
	}
	defer rc.Close()

	// LimitReader guards against lying size headers (zip bombs).
	data, err := io.ReadAll(io.LimitReader(rc, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading archive entry %s: %w", entry.Name, err)
	}

	if int64(len(data)) > maxBytes {
		return "", ErrTooLarge
	}

	return string(data), nil
}
