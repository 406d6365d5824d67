// Package tesseract provides an ocr.Engine implementation backed by the
// Tesseract OCR engine through gosseract.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"imagemod/pkg/ocr"
)

const (
	// DefaultLanguage restricts recognition to English.
	DefaultLanguage = "eng"
	// DefaultPageSegMode assumes a single uniform block of text, which works
	// best for the short overlay captions this pipeline targets.
	DefaultPageSegMode = 6
	// DefaultWhitelist limits recognition to ASCII letters and spaces. Digits
	// and punctuation are dropped on purpose: they are mostly noise for theme
	// classification, at the cost of losing numeric content.
	DefaultWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz "
)

// Options configure the fixed recognition settings applied to every call.
type Options struct {
	// Language is the Tesseract language model to load.
	Language string
	// PageSegMode is the Tesseract page segmentation mode.
	PageSegMode int
	// Whitelist is the set of characters recognition is restricted to.
	Whitelist string
}

// Engine recognizes text using a fresh gosseract client per call. Creating a
// client per image keeps calls independent; gosseract clients are not safe
// for concurrent reuse.
type Engine struct {
	options       Options
	clientFactory func() *gosseract.Client
}

// New constructs a Tesseract-backed engine. Zero-valued options fall back to
// the package defaults.
func New(options Options) *Engine {
	if options.Language == "" {
		options.Language = DefaultLanguage
	}
	if options.PageSegMode == 0 {
		options.PageSegMode = DefaultPageSegMode
	}
	if options.Whitelist == "" {
		options.Whitelist = DefaultWhitelist
	}

	return &Engine{
		options:       options,
		clientFactory: gosseract.NewClient,
	}
}

// Recognize runs Tesseract over the image at path and returns the raw text.
func (e *Engine) Recognize(ctx context.Context, path string) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("recognition canceled: %w", ctx.Err())
	default:
	}

	c := e.clientFactory()
	defer func() {
		_ = c.Close()
	}()

	if err := c.SetImage(path); err != nil {
		return "", fmt.Errorf("could not set image: %w", err)
	}
	if err := c.SetLanguage(e.options.Language); err != nil {
		return "", fmt.Errorf("could not set language: %w", err)
	}
	if err := c.SetPageSegMode(gosseract.PageSegMode(e.options.PageSegMode)); err != nil {
		return "", fmt.Errorf("could not set page segmentation mode: %w", err)
	}
	if err := c.SetWhitelist(e.options.Whitelist); err != nil {
		return "", fmt.Errorf("could not set whitelist: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("could not recognize text: %w", err)
	}

	return text, nil
}

// Ensure Engine conforms to the ocr.Engine interface at compile time.
var _ ocr.Engine = (*Engine)(nil)
