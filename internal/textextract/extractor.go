// Package textextract turns uploaded trade documents into plain text,
// dispatching on the file extension.
package textextract

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"declarant/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor implements port.TextExtractionService.
type Extractor struct {
	logger *zap.Logger
}

// New creates an Extractor.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract returns the plain text of file. .docx files go through the OOXML
// reader, .txt files are decoded directly, and anything else is accepted only
// if its content sniffs as text.
func (e *Extractor) Extract(ctx context.Context, file domain.UploadedFile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := extension(file.Name)
	var (
		text string
		err  error
	)
	switch domain.FileExtension(ext) {
	case domain.ExtDOCX:
		text, err = docxText(file.Data)
		if err != nil {
			return "", fmt.Errorf("failed to parse DOCX file: %w", err)
		}
	case domain.ExtTXT:
		text, err = decodeText(file.Data)
		if err != nil {
			return "", err
		}
	default:
		if !looksLikeText(file.Data) {
			return "", &domain.UnsupportedFormatError{Extension: ext}
		}
		text, err = decodeText(file.Data)
		if err != nil {
			return "", &domain.UnsupportedFormatError{Extension: ext}
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyDocument
	}

	e.logger.Debug("textextract: extracted document",
		zap.String("file", file.Name),
		zap.String("ext", ext),
		zap.Int("bytes", len(file.Data)),
		zap.Int("chars", utf8.RuneCountInString(text)),
	)
	return text, nil
}

func extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// looksLikeText walks the detected MIME hierarchy looking for text/plain, so
// csv, html, json and friends all qualify.
func looksLikeText(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// decodeText handles UTF-8 (with or without BOM), UTF-16 with a BOM, and
// falls back to GB18030 for legacy Chinese encodings.
func decodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(bytes.TrimPrefix(data, utf8BOM)), nil
	}
	dec := unicode.BOMOverride(simplifiedchinese.GB18030.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("decoding text: %w", err)
	}
	if !utf8.Valid(out) {
		return "", fmt.Errorf("decoding text: result is not valid UTF-8")
	}
	return string(out), nil
}
