// Package imagefetch downloads remote artwork and re-encodes it as a plain
// PNG that image edit APIs accept.
package imagefetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	// Decoders for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
)

// DefaultMaxBytes caps downloaded images.
const DefaultMaxBytes = 16 << 20

// Fetch errors.
var (
	// ErrNotImage is returned when the server answers with a non-image
	// content type, typically an HTML hotlink-block page.
	ErrNotImage = errors.New("response is not an image")

	// ErrTooLarge is returned when the image exceeds the size limit.
	ErrTooLarge = errors.New("image too large")

	// ErrHTTPStatus is returned for non-2xx responses.
	ErrHTTPStatus = errors.New("unexpected HTTP status")
)

// Fetcher implements generators.ImageFetcher over HTTP.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	logger   *slog.Logger
}

// New creates a Fetcher with the given request timeout.
func New(timeout time.Duration, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: DefaultMaxBytes,
		logger:   logger.With("component", "imagefetch"),
	}
}

// FetchPNG downloads url and returns it re-encoded as PNG. GIFs yield their
// first frame.
func (f *Fetcher) FetchPNG(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.WarnContext(ctx, "image fetch failed", "url", url, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "image/") {
		f.logger.WarnContext(ctx, "non-image payload", "url", url, "content_type", mediaType)
		return nil, fmt.Errorf("%w: %q", ErrNotImage, mediaType)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(raw)) > f.maxBytes {
		return nil, ErrTooLarge
	}

	return ToPNG(raw)
}

// ToPNG decodes a PNG, JPEG or GIF image and encodes it as PNG.
func ToPNG(raw []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
