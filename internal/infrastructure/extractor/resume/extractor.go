// Package resume extracts plain text from uploaded resume files. PDF and
// UTF-8 text formats are supported; everything else is rejected as invalid
// input so the handler can report it to the uploader.
package resume

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/talentpool/talent-match/internal/core/domain"
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract resume",
			fmt.Errorf("empty file %q", filename))
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDF(filename, data)
	case ".txt", ".md", "":
		return extractPlainText(filename, data)
	default:
		return "", domain.WrapError(domain.ErrInvalidInput, "extract resume",
			fmt.Errorf("unsupported resume format: %s", filename))
	}
}

func extractPDF(filename string, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract resume",
			fmt.Errorf("parse pdf %q: %w", filename, err))
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text %q: %w", filename, err)
	}
	raw, err := io.ReadAll(textReader)
	if err != nil {
		return "", fmt.Errorf("read pdf text %q: %w", filename, err)
	}
	return normalizeText(string(raw)), nil
}

func extractPlainText(filename string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract resume",
			fmt.Errorf("file %q is not valid UTF-8 text", filename))
	}
	return strings.TrimSpace(string(data)), nil
}

// normalizeText collapses whitespace runs: pdf text extraction produces
// erratic spacing and line breaks that would pollute the search index.
func normalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
