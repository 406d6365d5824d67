// Package quarantine moves flagged images out of the source tree into the
// quarantine folder. Quarantine is terminal and one-way: there is no undo.
package quarantine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"imagemod/pkg/logger"
	"imagemod/pkg/serrors"
)

// Router copies flagged files into the quarantine folder and removes them
// from their source location.
type Router struct {
	// dir is the absolute path of the quarantine folder for this run.
	dir string
}

// New constructs a Router targeting the given quarantine folder. Call
// EnsureDir before the first Quarantine.
func New(dir string) *Router {
	return &Router{dir: dir}
}

// Dir returns the quarantine folder path.
func (r *Router) Dir() string { return r.dir }

// EnsureDir creates the quarantine folder if it does not exist yet. Creation
// is idempotent; an existing folder is not an error.
func (r *Router) EnsureDir() error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return serrors.Wrap(serrors.ErrQuarantine, err, "could not create quarantine folder %q", r.dir)
	}

	return nil
}

// Quarantine copies the file at path into the quarantine folder under its
// original base name, then deletes the source. A name collision silently
// overwrites the previous quarantine entry; quarantine is terminal, so the
// newest flagged content wins. On any failure the source file stays in place.
func (r *Router) Quarantine(ctx context.Context, path string) error {
	dst := filepath.Join(r.dir, filepath.Base(path))

	if err := copyFile(path, dst); err != nil {
		return serrors.Wrap(serrors.ErrQuarantine, err, "could not copy %q into quarantine", path)
	}
	if err := os.Remove(path); err != nil {
		return serrors.Wrap(serrors.ErrQuarantine, err, "could not remove quarantined source %q", path)
	}

	logger.Info(ctx, "quarantined image", zap.String("file", path), zap.String("quarantined", dst))

	return nil
}

// copyFile copies src to dst byte for byte, truncating an existing dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("could not open source: %w", err)
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("could not create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()

		return fmt.Errorf("could not copy contents: %w", err)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()

		return fmt.Errorf("could not sync destination: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("could not close destination: %w", err)
	}

	return nil
}
