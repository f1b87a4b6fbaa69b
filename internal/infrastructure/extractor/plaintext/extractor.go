package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/eixo/medical-scribe/internal/core/domain"
	"github.com/eixo/medical-scribe/internal/core/ports"
)

const mimePDF = "application/pdf"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor reads an uploaded transcript back from storage as text. Plain UTF-8
// and PDF uploads are supported.
type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, c *domain.Consultation) (string, error) {
	reader, err := e.storage.Open(ctx, c.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open stored transcript: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read stored transcript: %w", err)
	}

	if isPDF(c, raw) {
		return extractPDF(raw, c.Filename)
	}
	return decodeText(raw, c.Filename)
}

func isPDF(c *domain.Consultation, raw []byte) bool {
	return strings.EqualFold(c.MimeType, mimePDF) ||
		strings.EqualFold(filepath.Ext(c.Filename), ".pdf") ||
		bytes.HasPrefix(raw, []byte("%PDF-"))
}

func decodeText(raw []byte, filename string) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "decode transcript", fmt.Errorf("file=%s", filename))
	}
	return normalize(string(raw)), nil
}

// extractPDF recovers from parser panics; the pdf reader panics on some
// malformed content streams.
func extractPDF(raw []byte, filename string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = domain.WrapError(domain.ErrUnsupportedFormat, "read pdf text", fmt.Errorf("file=%s: %v", filename, r))
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "open pdf transcript", fmt.Errorf("file=%s: %w", filename, err))
	}
	plain, err := doc.GetPlainText()
	if err != nil {
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "read pdf text", fmt.Errorf("file=%s: %w", filename, err))
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return normalize(buf.String()), nil
}

// normalize folds CRLF so diarization sees one utterance per line.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSpace(s)
}
