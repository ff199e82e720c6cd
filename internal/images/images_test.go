package images

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/cardsync/internal/config"
	"github.com/arcanaland/cardsync/internal/transform"
)

func jpegFixture(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestReencodeScalesDown(t *testing.T) {
	data, err := Reencode(bytes.NewReader(jpegFixture(t, 600, 836)), 300)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.InDelta(t, 418, img.Bounds().Dy(), 1)
}

func TestReencodeKeepsSmallImages(t *testing.T) {
	data, err := Reencode(bytes.NewReader(jpegFixture(t, 100, 140)), 300)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
}

func TestReencodeRejectsGarbage(t *testing.T) {
	_, err := Reencode(bytes.NewReader([]byte("not an image")), 300)
	assert.Error(t, err)
}

func TestDownloaderFetch(t *testing.T) {
	fixture := jpegFixture(t, 40, 56)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(fixture)
	}))
	defer srv.Close()

	d := NewDownloader(
		config.APIConfig{Timeout: config.Duration{Duration: 5 * time.Second}},
		config.ImageConfig{Width: 20},
	)
	dest := filepath.Join(t.TempDir(), "cards", "sure-gamble.png")

	path, err := d.Fetch(context.Background(), srv.URL+"/01001.jpg", dest)
	require.NoError(t, err)
	assert.Equal(t, dest, path)

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())

	_, err = d.Fetch(context.Background(), srv.URL+"/missing.png", filepath.Join(t.TempDir(), "x.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestSinkMaterialize(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "accident.png")
	require.NoError(t, os.WriteFile(existing, []byte("png"), 0o644))

	var fetched []string
	fetch := func(ctx context.Context, source, dest string) (string, error) {
		fetched = append(fetched, source)
		if source == "bad" {
			return "", errors.New("boom")
		}
		return dest, nil
	}

	sink := &Sink{Fetch: fetch, Limiter: NewLimiter(0)}
	stats, err := sink.Materialize(context.Background(), []transform.ImageRequest{
		{Title: "Accident", Source: "a", Dest: existing},
		{Title: "Sure Gamble", Source: "b", Dest: filepath.Join(dir, "sure-gamble.png")},
		{Title: "Broken", Source: "bad", Dest: filepath.Join(dir, "broken.png")},
	})
	require.NoError(t, err)
	assert.Equal(t, Stats{Saved: 1, Existed: 1, Failed: 1}, stats)
	assert.Equal(t, []string{"b", "bad"}, fetched)

	sink.Overwrite = true
	fetched = nil
	stats, err = sink.Materialize(context.Background(), []transform.ImageRequest{
		{Title: "Accident", Source: "a", Dest: existing},
	})
	require.NoError(t, err)
	assert.Equal(t, Stats{Saved: 1}, stats)
	assert.Equal(t, []string{"a"}, fetched)
}

func TestSinkMaterializeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	fetch := func(ctx context.Context, source, dest string) (string, error) {
		calls++
		cancel()
		return "", ctx.Err()
	}

	sink := &Sink{Fetch: fetch}
	dir := t.TempDir()
	_, err := sink.Materialize(ctx, []transform.ImageRequest{
		{Title: "A", Source: "a", Dest: filepath.Join(dir, "a.png")},
		{Title: "B", Source: "b", Dest: filepath.Join(dir, "b.png")},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
