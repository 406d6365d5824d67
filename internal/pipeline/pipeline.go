// Package pipeline drives the per-file moderation state machine over a
// scanned source tree: extract, classify, then quarantine or transform.
// Files are processed strictly one at a time in scan order; effects on file N
// are fully resolved before file N+1 begins.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"imagemod/internal/config"
	"imagemod/pkg/domain"
	"imagemod/pkg/logger"
)

// Options configure run-level behavior of the orchestrator.
type Options struct {
	// TextPreviewLen limits the extracted-text preview logged per file.
	TextPreviewLen int
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		TextPreviewLen: cfg.Pipeline.TextPreviewLen,
	}
}

// Pipeline is the orchestrator. It owns the run statistics; counters are
// mutated only by the single execution stream, so no locking is needed.
type Pipeline struct {
	options     Options
	scanner     Scanner
	extractor   Extractor
	classifier  Classifier
	transformer Transformer
	router      Router
}

// New wires the orchestrator with its collaborator ports.
func New(
	scanner Scanner,
	extractor Extractor,
	classifier Classifier,
	transformer Transformer,
	router Router,
	options Options,
) *Pipeline {
	if options.TextPreviewLen <= 0 {
		options.TextPreviewLen = 80
	}

	return &Pipeline{
		options:     options,
		scanner:     scanner,
		extractor:   extractor,
		classifier:  classifier,
		transformer: transformer,
		router:      router,
	}
}

// Run processes every image under root exactly once and returns the run
// statistics. Only quarantine-folder creation and the initial scan are fatal;
// everything after is contained at the file boundary so one bad file cannot
// abort the run.
func (p *Pipeline) Run(ctx context.Context, root string) (domain.RunStats, error) {
	ctx = logger.WithFields(ctx, zap.String("runID", uuid.NewString()), zap.String("root", root))

	var stats domain.RunStats

	if err := p.router.EnsureDir(); err != nil {
		return stats, fmt.Errorf("could not prepare quarantine folder: %w", err)
	}

	files, err := p.scanner.Scan(ctx, root)
	if err != nil {
		return stats, fmt.Errorf("could not scan source tree: %w", err)
	}
	stats.Found = len(files)
	logger.Info(ctx, "starting moderation run", zap.Int("found", stats.Found))

	for _, path := range files {
		p.processFile(ctx, path, &stats)
	}

	logger.Info(ctx, "moderation run finished",
		zap.Int("found", stats.Found),
		zap.Int("processed", stats.Processed),
		zap.Int("quarantined", stats.Quarantined),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed))

	return stats, nil
}

// processFile drives the state machine for one image:
// Discovered -> Extracted -> Classified -> Quarantined | Transformed, with
// Skipped short-circuiting when no text could be extracted. Panics are
// recovered here so processing proceeds to the next file.
func (p *Pipeline) processFile(ctx context.Context, path string, stats *domain.RunStats) {
	ctx = logger.WithFields(ctx, zap.String("file", path))

	state := domain.FileStateDiscovered
	defer func() {
		if r := recover(); r != nil {
			stats.Failed++
			logger.Error(ctx, "unexpected failure while processing file",
				zap.Any("panic", r), zap.String("state", string(state)))
		}
	}()

	logger.Info(ctx, "processing image")

	text := p.extractor.Extract(ctx, path)
	if text == "" {
		state = domain.FileStateSkipped
		stats.Skipped++
		logger.Info(ctx, "no extractable text, skipping", zap.String("state", string(state)))

		return
	}
	state = domain.FileStateExtracted
	logger.Info(ctx, "extracted text", zap.String("preview", preview(text, p.options.TextPreviewLen)))

	flagged := p.classifier.Classify(ctx, text)
	state = domain.FileStateClassified
	stats.Processed++
	logger.Info(ctx, "classified text", zap.Bool("flagged", flagged))

	if flagged {
		if err := p.router.Quarantine(ctx, path); err != nil {
			// the file stays in the source tree, so it still goes through the
			// transform like unflagged content
			logger.Error(ctx, "quarantine failed, falling through to transform", zap.Error(err))
		} else {
			state = domain.FileStateQuarantined
			stats.Quarantined++

			return
		}
	}

	outcome, err := p.transformer.Transform(ctx, path)
	if err != nil {
		logger.Error(ctx, "transform failed, file left unchanged", zap.Error(err))
	}
	state = domain.FileStateTransformed
	logger.Info(ctx, "transform finished", zap.String("outcome", string(outcome)))
}

// preview shortens text to at most n runes for log lines.
func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[:n]) + "..."
}
