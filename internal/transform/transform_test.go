package transform_test

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"imagemod/internal/transform"
	"imagemod/pkg/domain"
	"imagemod/pkg/logger"
	"imagemod/pkg/serrors"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255}) //nolint: gosec
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func writeBMP(t *testing.T, path string, w, h int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, img))
	require.NoError(t, f.Close())
}

func readGeometry(t *testing.T, path string) (int, int) {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)

	return cfg.Width, cfg.Height
}

func newTransformer() *transform.Transformer {
	return transform.New(transform.Options{CropFraction: 0.7, MaxAspect: 4.0})
}

func TestTransform_LandscapeTopCrop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "landscape.png")
	writePNG(t, path, 1000, 500)

	outcome, err := newTransformer().Transform(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeCropped, outcome)

	w, h := readGeometry(t, path)
	require.Equal(t, 1000, w)
	require.Equal(t, 350, h)
}

func TestTransform_SquareTopCrop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "square.png")
	writePNG(t, path, 200, 200)

	outcome, err := newTransformer().Transform(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeCropped, outcome)

	w, h := readGeometry(t, path)
	require.Equal(t, 200, w)
	require.Equal(t, 140, h)
}

func TestTransform_PortraitSquareCrop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portrait.png")
	writePNG(t, path, 400, 800)

	outcome, err := newTransformer().Transform(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeCropped, outcome)

	w, h := readGeometry(t, path)
	require.Equal(t, 400, w)
	require.Equal(t, 400, h)
}

func TestTransform_CropFractionFloors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "odd.png")
	// 55 * 0.7 = 38.5, floored to 38
	writePNG(t, path, 60, 55)

	outcome, err := newTransformer().Transform(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeCropped, outcome)

	_, h := readGeometry(t, path)
	require.Equal(t, 38, h)
}

func TestTransform_BMPRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "banner.bmp")
	writeBMP(t, path, 100, 50)

	outcome, err := newTransformer().Transform(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeCropped, outcome)

	w, h := readGeometry(t, path)
	require.Equal(t, 100, w)
	require.Equal(t, 35, h)
}

func TestTransform_ElongatedImageDeleted(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "banner.png")
	writePNG(t, path, 4000, 100)

	outcome, err := newTransformer().Transform(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeDeleted, outcome)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr), "file should be gone")
}

func TestTransform_UnreadableGeometryLeavesFileUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a png"), 0o644))

	outcome, err := newTransformer().Transform(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeUnchanged, outcome)

	b, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	require.Equal(t, []byte("definitely not a png"), b)
}

func TestTransform_MissingFileLeavesOutcomeUnchanged(t *testing.T) {
	outcome, err := newTransformer().Transform(context.Background(), filepath.Join(t.TempDir(), "gone.png"))
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeUnchanged, outcome)
}

func TestTransform_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")
	writePNG(t, path, 300, 100)

	_, err := newTransformer().Transform(context.Background(), path)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "img.png", entries[0].Name())
}

func TestTransform_RepeatedRunShrinksCumulatively(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "again.png")
	writePNG(t, path, 1000, 500)

	tr := newTransformer()

	_, err := tr.Transform(context.Background(), path)
	require.NoError(t, err)
	_, err = tr.Transform(context.Background(), path)
	require.NoError(t, err)

	// the crop fraction applies again to the already-cropped image:
	// 500 -> 350 -> 244 (floor of 350 * 0.7). Documented behavior, not a bug.
	_, h := readGeometry(t, path)
	require.Equal(t, 244, h)
}

func TestTransform_ErrorIsTransformKind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "truncated.png")
	// valid header so DecodeConfig succeeds, but truncated pixel data makes
	// the full decode fail during cropping
	writePNG(t, filepath.Join(dir, "full.png"), 100, 50)
	full, err := os.ReadFile(filepath.Join(dir, "full.png"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, full[:64], 0o644))

	outcome, err := newTransformer().Transform(context.Background(), path)
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrTransform)
	require.Equal(t, domain.OutcomeFailed, outcome)
}
