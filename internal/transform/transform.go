// Package transform applies the deterministic geometric transform to images
// that passed moderation: landscape and square images lose their bottom
// fraction, portrait images are reduced to a top square, and extremely
// elongated images are deleted outright.
package transform

import (
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"

	"imagemod/internal/config"
	"imagemod/pkg/domain"
	"imagemod/pkg/logger"
	"imagemod/pkg/serrors"
)

// jpegQuality is used when re-encoding cropped JPEG images.
const jpegQuality = 90

// Options configure the geometry decision.
type Options struct {
	// CropFraction is the kept height fraction for landscape/square images.
	CropFraction float64
	// MaxAspect is the width/height ratio beyond which an image is considered
	// an unusable banner and deleted instead of cropped.
	MaxAspect float64
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		CropFraction: cfg.Pipeline.CropFraction,
		MaxAspect:    cfg.Pipeline.MaxAspect,
	}
}

// Transformer inspects image geometry and executes the crop/delete decision.
type Transformer struct {
	options Options
}

// New creates a Transformer. Zero-valued options fall back to the defaults
// (keep 70% of the height, delete beyond a 4:1 width/height ratio).
func New(options Options) *Transformer {
	if options.CropFraction <= 0 || options.CropFraction > 1 {
		options.CropFraction = 0.7
	}
	if options.MaxAspect <= 0 {
		options.MaxAspect = 4.0
	}

	return &Transformer{options: options}
}

// Transform decides and executes the transformation for the image at path.
// The decision uses pixel width w and height h, evaluated once:
//  1. w/h beyond MaxAspect: delete the file.
//  2. h <= w (landscape or square): keep the top region of full width and
//     height floor(h * CropFraction).
//  3. h > w (portrait): keep the top-left w x w square.
//
// When the geometry cannot be read the file is left untouched and the
// outcome is Unchanged. Crop failures leave the original file in place.
func (t *Transformer) Transform(ctx context.Context, path string) (domain.Outcome, error) {
	w, h, err := readGeometry(path)
	if err != nil {
		logger.Warn(ctx, "could not read image geometry, leaving file unchanged",
			zap.String("file", path), zap.Error(err))

		return domain.OutcomeUnchanged, nil
	}

	if float64(w)/float64(h) > t.options.MaxAspect {
		if err := os.Remove(path); err != nil {
			return domain.OutcomeFailed, serrors.Wrap(serrors.ErrTransform, err, "could not delete %q", path)
		}
		logger.Info(ctx, "deleted image with unusual aspect ratio",
			zap.String("file", path), zap.Int("width", w), zap.Int("height", h))

		return domain.OutcomeDeleted, nil
	}

	var rect image.Rectangle
	if h <= w {
		rect = image.Rect(0, 0, w, int(math.Floor(float64(h)*t.options.CropFraction)))
	} else {
		rect = image.Rect(0, 0, w, w)
	}

	if err := cropInPlace(path, rect); err != nil {
		return domain.OutcomeFailed, serrors.Wrap(serrors.ErrTransform, err, "could not crop %q", path)
	}
	logger.Info(ctx, "cropped image",
		zap.String("file", path), zap.Int("width", rect.Dx()), zap.Int("height", rect.Dy()))

	return domain.OutcomeCropped, nil
}

// readGeometry returns the pixel dimensions of the image without decoding the
// full pixel data.
func readGeometry(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("could not open image: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("could not decode image metadata: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("degenerate dimensions %dx%d", cfg.Width, cfg.Height)
	}

	return cfg.Width, cfg.Height, nil
}

// cropInPlace replaces the image at path with its rect sub-region. The result
// is written to a sibling temp file and renamed over the original, so a crash
// mid-write never leaves a half-written image at the canonical path.
func cropInPlace(path string, rect image.Rectangle) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open image: %w", err)
	}
	img, format, err := image.Decode(f)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("could not decode image: %w", err)
	}

	sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	})
	if !ok {
		return fmt.Errorf("decoded %s image does not support sub-regions", format)
	}
	cropped := sub.SubImage(rect)

	tmp := path + ".tmp-" + uuid.NewString()
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}

	if err := encode(out, cropped, format); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)

		return fmt.Errorf("could not encode cropped image: %w", err)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)

		return fmt.Errorf("could not sync temp file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)

		return fmt.Errorf("could not close temp file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)

		return fmt.Errorf("could not replace original: %w", err)
	}

	return nil
}

// encode writes img in the same format the original was decoded from, so the
// file keeps matching its extension.
func encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case "png":
		return png.Encode(w, img)
	case "gif":
		return gif.Encode(w, img, nil)
	case "bmp":
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}
