package ansi

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestRender(t *testing.T) {
	out := Render(solid(30, 42, color.RGBA{R: 255, A: 255}), 10, 7)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, strings.Repeat("▀", 10), Strip(lines[0]))
	assert.True(t, strings.HasPrefix(lines[0], "\x1b[38;2;"))
	assert.Contains(t, lines[0], ";0;0m")
	assert.Equal(t, 10, Width(out))
}

func TestRenderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, solid(8, 8, color.White)))
	require.NoError(t, f.Close())

	out, err := RenderFile(path, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, Width(out))

	_, err = RenderFile(filepath.Join(t.TempDir(), "missing.png"), 4, 4)
	assert.Error(t, err)
}

func TestStrip(t *testing.T) {
	assert.Equal(t, "plain", Strip("\x1b[38;2;1;2;3mplain\x1b[0m"))
	assert.Equal(t, "", Strip(""))
}

func TestWrap(t *testing.T) {
	lines := Wrap("1[credit]: Break 1 code gate subroutine. 1[credit]: +1 strength.", 20)
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), 20)
	}
	assert.Equal(t, "1[credit]: Break 1", lines[0])
	assert.Equal(t, []string{""}, Wrap("   ", 20))
}
