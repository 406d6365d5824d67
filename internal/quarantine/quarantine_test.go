package quarantine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"imagemod/internal/quarantine"
	"imagemod/pkg/logger"
	"imagemod/pkg/serrors"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dacy")
	r := quarantine.New(dir)

	require.NoError(t, r.EnsureDir())
	require.NoError(t, r.EnsureDir(), "existing folder must not be an error")

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestQuarantine_MovesFileWithIdenticalBytes(t *testing.T) {
	root := t.TempDir()
	r := quarantine.New(filepath.Join(root, "dacy"))
	require.NoError(t, r.EnsureDir())

	src := filepath.Join(root, "flagged.png")
	content := []byte{0x89, 0x50, 0x4E, 0x47, 1, 2, 3}
	require.NoError(t, os.WriteFile(src, content, 0o644))

	require.NoError(t, r.Quarantine(context.Background(), src))

	_, err := os.Stat(src)
	require.True(t, os.IsNotExist(err), "source must be removed")

	got, err := os.ReadFile(filepath.Join(root, "dacy", "flagged.png"))
	require.NoError(t, err)
	require.Equal(t, content, got)
}

func TestQuarantine_NameCollisionOverwrites(t *testing.T) {
	root := t.TempDir()
	r := quarantine.New(filepath.Join(root, "dacy"))
	require.NoError(t, r.EnsureDir())

	require.NoError(t, os.WriteFile(filepath.Join(root, "dacy", "dup.png"), []byte("old"), 0o644))

	src := filepath.Join(root, "dup.png")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
	require.NoError(t, r.Quarantine(context.Background(), src))

	got, err := os.ReadFile(filepath.Join(root, "dacy", "dup.png"))
	require.NoError(t, err)
	require.Equal(t, []byte("new"), got)
}

func TestQuarantine_MissingSourceLeavesNothingBehind(t *testing.T) {
	root := t.TempDir()
	r := quarantine.New(filepath.Join(root, "dacy"))
	require.NoError(t, r.EnsureDir())

	err := r.Quarantine(context.Background(), filepath.Join(root, "gone.png"))
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrQuarantine)

	entries, readErr := os.ReadDir(filepath.Join(root, "dacy"))
	require.NoError(t, readErr)
	require.Empty(t, entries)
}

func TestQuarantine_CopyFailureKeepsSource(t *testing.T) {
	root := t.TempDir()
	// quarantine dir never created, so the copy fails
	r := quarantine.New(filepath.Join(root, "dacy"))

	src := filepath.Join(root, "keep.png")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0o644))

	err := r.Quarantine(context.Background(), src)
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrQuarantine)

	got, readErr := os.ReadFile(src)
	require.NoError(t, readErr)
	require.Equal(t, []byte("data"), got, "source must stay in place on failure")
}
