// Package images downloads card images and re-encodes them as PNG.
package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/nfnt/resize"
	"golang.org/x/time/rate"

	"github.com/arcanaland/cardsync/internal/config"
	"github.com/arcanaland/cardsync/internal/store"
	"github.com/arcanaland/cardsync/internal/transform"
)

// FetchFunc materializes the image at source into dest and returns the path
// written. The transform never calls it directly; the update command passes
// one in so tests can swap it out.
type FetchFunc func(ctx context.Context, source, dest string) (string, error)

// Downloader fetches over HTTP and re-encodes to PNG.
type Downloader struct {
	client    *http.Client
	userAgent string
	width     uint
}

// NewDownloader creates a downloader. width 0 keeps the original size.
func NewDownloader(api config.APIConfig, img config.ImageConfig) *Downloader {
	return &Downloader{
		client:    &http.Client{Timeout: api.Timeout.Duration},
		userAgent: api.UserAgent,
		width:     uint(img.Width),
	}
}

// Fetch implements FetchFunc.
func (d *Downloader) Fetch(ctx context.Context, source, dest string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", fmt.Errorf("create request for %s: %w", source, err)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: HTTP %d", source, resp.StatusCode)
	}

	data, err := Reencode(resp.Body, d.width)
	if err != nil {
		return "", fmt.Errorf("re-encode %s: %w", source, err)
	}

	if err := store.WriteFileAtomic(dest, data); err != nil {
		return "", err
	}
	return dest, nil
}

// Reencode decodes a png, jpeg or gif image, scales it down to width when it
// is wider, and returns it PNG encoded.
func Reencode(r io.Reader, width uint) ([]byte, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if width > 0 && uint(img.Bounds().Dx()) > width {
		img = resize.Resize(width, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Stats counts what Materialize did.
type Stats struct {
	Saved   int
	Existed int
	Failed  int
}

// Sink runs image requests one at a time.
type Sink struct {
	Fetch     FetchFunc
	Limiter   *rate.Limiter
	Logger    *slog.Logger
	Overwrite bool
}

// NewLimiter paces downloads at perSecond; 0 disables pacing.
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// Materialize fetches every request whose destination is missing. A failed
// image is logged and counted; only context cancellation stops the loop.
func (s *Sink) Materialize(ctx context.Context, reqs []transform.ImageRequest) (Stats, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var stats Stats
	for _, req := range reqs {
		if !s.Overwrite {
			if _, err := os.Stat(req.Dest); err == nil {
				stats.Existed++
				continue
			}
		}

		if s.Limiter != nil {
			if err := s.Limiter.Wait(ctx); err != nil {
				return stats, err
			}
		}

		path, err := s.Fetch(ctx, req.Source, req.Dest)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			stats.Failed++
			logger.Warn("image download failed",
				slog.String("title", req.Title),
				slog.String("source", req.Source),
				slog.String("error", err.Error()))
			continue
		}

		stats.Saved++
		logger.Debug("image saved", slog.String("title", req.Title), slog.String("path", path))
	}
	return stats, nil
}
