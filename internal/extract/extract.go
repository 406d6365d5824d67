// Package extract turns image files into normalized single-line text using an
// OCR engine port. Extraction failures are swallowed: the pipeline treats an
// empty result as "cannot evaluate" and skips the file.
package extract

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"imagemod/pkg/logger"
	"imagemod/pkg/ocr"
)

// newlineReplacer substitutes every newline variant with a single space.
var newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ") //nolint: gochecknoglobals

// Extractor adapts the OCR engine port to the pipeline's contract: a
// normalized string per image, empty on any failure.
type Extractor struct {
	engine ocr.Engine
}

// New constructs an Extractor over the given OCR engine.
func New(engine ocr.Engine) *Extractor {
	return &Extractor{engine: engine}
}

// Extract recognizes the text of the image at path. Newlines are collapsed to
// spaces and surrounding whitespace is trimmed. Any engine error is logged
// and degraded to an empty result.
func (e *Extractor) Extract(ctx context.Context, path string) string {
	text, err := e.engine.Recognize(ctx, path)
	if err != nil {
		logger.Warn(ctx, "text extraction failed", zap.String("file", path), zap.Error(err))

		return ""
	}

	return strings.TrimSpace(newlineReplacer.Replace(text))
}
