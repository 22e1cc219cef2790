package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"flightlog-service/pkg/logger"

	"github.com/ledongthuc/pdf"
)

// Extractor pulls the plain text layer out of PDF attachments
type Extractor struct {
	logger logger.Logger
}

// NewExtractor creates a new PDF text extractor
func NewExtractor(logger logger.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// ExtractText returns the document text, or "" when the PDF cannot be read
func (e *Extractor) ExtractText(data []byte) string {
	text, err := extract(data)
	if err != nil {
		e.logger.Warn("Failed to extract PDF text", "size", len(data), "error", err)
		return ""
	}
	return strings.TrimSpace(text)
}

func extract(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty document")
	}

	// The reader panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open document: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read text: %w", err)
	}

	out, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("failed to read text: %w", err)
	}
	return string(out), nil
}
