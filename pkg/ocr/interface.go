// Package ocr defines the port used to extract visible text from image files.
// Implementations wrap a concrete recognition engine; the pipeline depends
// only on this abstraction so tests can substitute deterministic fakes.
package ocr

import (
	"context"
)

// Engine is the abstraction for OCR backends. Implementations receive the
// path of an image file and return the raw recognized text. Recognition
// configuration (language, segmentation mode, character whitelist) is fixed
// at construction time and identical for every call.
//
//go:generate mockgen -package mockocr -source=interface.go -destination=mock/mockocr.go *
type Engine interface {
	// Recognize runs text recognition over the image at path and returns the
	// raw, unnormalized text. An error is returned for unsupported formats,
	// corrupted files or engine failures.
	Recognize(ctx context.Context, path string) (string, error)
}
