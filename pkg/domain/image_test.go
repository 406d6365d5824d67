package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"imagemod/pkg/domain"
)

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"photo.jpg", true},
		{"photo.JPG", true},
		{"photo.jpeg", true},
		{"photo.png", true},
		{"anim.gif", true},
		{"old.bmp", true},
		{"/some/dir/photo.PnG", true},
		{"notes.txt", false},
		{"archive.jpg.zip", false},
		{"photo.webp", false},
		{"photo.tiff", false},
		{"noext", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.Equal(t, tt.want, domain.IsImageFile(tt.path))
		})
	}
}
