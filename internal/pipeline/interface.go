package pipeline

import (
	"context"

	"imagemod/pkg/domain"
)

// The orchestrator depends only on these ports so every collaborator can be
// replaced with a deterministic fake in tests.
//
//go:generate mockgen -package mockpipeline -source=interface.go -destination=mock/mockpipeline.go *

// Scanner lists the image files of a source tree in processing order.
type Scanner interface {
	Scan(ctx context.Context, root string) ([]string, error)
}

// Extractor converts one image into normalized single-line text. An empty
// result means the file cannot be evaluated and must be skipped.
type Extractor interface {
	Extract(ctx context.Context, path string) string
}

// Classifier returns the moderation verdict for extracted text. Failures are
// degraded inside the implementation; the orchestrator only sees a boolean.
type Classifier interface {
	Classify(ctx context.Context, text string) bool
}

// Transformer applies the geometric transform to an image that passed
// moderation.
type Transformer interface {
	Transform(ctx context.Context, path string) (domain.Outcome, error)
}

// Router moves flagged images into the quarantine folder.
type Router interface {
	// EnsureDir idempotently creates the quarantine folder.
	EnsureDir() error
	// Quarantine moves the file at path into the quarantine folder. On error
	// the source file is left in place.
	Quarantine(ctx context.Context, path string) error
}
