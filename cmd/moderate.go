package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"imagemod/internal/classify"
	"imagemod/internal/config"
	"imagemod/internal/extract"
	"imagemod/internal/pipeline"
	"imagemod/internal/quarantine"
	"imagemod/internal/scanner"
	"imagemod/internal/transform"
	"imagemod/pkg/llm/openaichat"
	"imagemod/pkg/ocr/tesseract"
	"imagemod/pkg/serrors"
)

func moderateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moderate <folder>",
		Short: "Moderates all images under the given folder",
		Long: "Walks the folder recursively, extracts visible text from every image, " +
			"classifies it for sensitive themes, moves flagged images into the " +
			"quarantine subfolder and crops the rest.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			root := args[0]
			info, err := os.Stat(root)
			if err != nil {
				return fmt.Errorf("could not access folder %q: %w", root, err)
			}
			if !info.IsDir() {
				return serrors.With(serrors.ErrBadRequest, "not a directory: %s", root)
			}

			engine := tesseract.New(tesseract.Options{
				Language:    cfg.OCR.Language,
				PageSegMode: cfg.OCR.PageSegMode,
				Whitelist:   cfg.OCR.Whitelist,
			})
			llmClient := openaichat.New(openaichat.Options{
				APIKey:    cfg.Classifier.APIKey,
				BaseURL:   cfg.Classifier.BaseURL,
				Model:     cfg.Classifier.Model,
				MaxTokens: cfg.Classifier.MaxTokens,
			})

			p := pipeline.New(
				scanner.New(cfg.Pipeline.QuarantineDir),
				extract.New(engine),
				classify.New(llmClient, classify.NewOptions(cfg)),
				transform.New(transform.NewOptions(cfg)),
				quarantine.New(filepath.Join(root, cfg.Pipeline.QuarantineDir)),
				pipeline.NewOptions(cfg),
			)

			stats, err := p.Run(ctx, root)
			if err != nil {
				return fmt.Errorf("moderation run failed: %w", err)
			}

			fmt.Printf("Found: %d, Processed: %d, Quarantined: %d, Skipped: %d, Failed: %d\n",
				stats.Found, stats.Processed, stats.Quarantined, stats.Skipped, stats.Failed)

			return nil
		},
	}

	return cmd
}
