// Package openai implements generation.ImageGenerator on the OpenAI images API.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/phrazzld/wallet-wrapped/internal/config"
	"github.com/phrazzld/wallet-wrapped/internal/generation"
)

// ErrEmptyImage is returned when the API answers without image data.
var ErrEmptyImage = errors.New("image response contained no data")

// ImagesAPI is the slice of the OpenAI client the adapter uses.
// *openai.ImageService satisfies it.
type ImagesAPI interface {
	Generate(ctx context.Context, body openai.ImageGenerateParams, opts ...option.RequestOption) (*openai.ImagesResponse, error)
	Edit(ctx context.Context, body openai.ImageEditParams, opts ...option.RequestOption) (*openai.ImagesResponse, error)
}

// ImageGenerator creates and edits PNG images.
type ImageGenerator struct {
	images  ImagesAPI
	model   string
	size    string
	quality string
	logger  *slog.Logger
}

// NewImageGenerator creates an ImageGenerator for the configured model.
func NewImageGenerator(logger *slog.Logger, cfg config.ImagesConfig) (*ImageGenerator, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: openai API key cannot be empty", generation.ErrInvalidConfig)
	}
	client := openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))
	return NewImageGeneratorWithAPI(&client.Images, logger, cfg)
}

// NewImageGeneratorWithAPI creates an ImageGenerator over an existing API.
func NewImageGeneratorWithAPI(images ImagesAPI, logger *slog.Logger, cfg config.ImagesConfig) (*ImageGenerator, error) {
	if images == nil {
		return nil, fmt.Errorf("%w: images API cannot be nil", generation.ErrInvalidConfig)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", generation.ErrInvalidConfig)
	}
	g := &ImageGenerator{
		images:  images,
		model:   cfg.Model,
		size:    cfg.Size,
		quality: cfg.Quality,
		logger:  logger.With("component", "openai_images"),
	}
	if g.model == "" {
		g.model = "gpt-image-1"
	}
	if g.size == "" {
		g.size = "1024x1024"
	}
	if g.quality == "" {
		g.quality = "low"
	}
	return g, nil
}

// Generate implements generation.ImageGenerator.
func (g *ImageGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := g.images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:  prompt,
		Model:   openai.ImageModel(g.model),
		Size:    openai.ImageGenerateParamsSize(g.size),
		Quality: openai.ImageGenerateParamsQuality(g.quality),
		N:       openai.Int(1),
	})
	if err != nil {
		g.logger.ErrorContext(ctx, "image generation failed", "error", err)
		return nil, fmt.Errorf("%w: image generation: %v", generation.ErrUpstream, err)
	}
	return decodeFirst(resp)
}

// Edit implements generation.ImageGenerator.
func (g *ImageGenerator) Edit(ctx context.Context, prompt string, images [][]byte) ([]byte, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: no input images", generation.ErrInvalidConfig)
	}
	files := make([]io.Reader, len(images))
	for i, img := range images {
		files[i] = openai.File(bytes.NewReader(img), fmt.Sprintf("image-%d.png", i), "image/png")
	}

	resp, err := g.images.Edit(ctx, openai.ImageEditParams{
		Image:   openai.ImageEditParamsImageUnion{OfFileArray: files},
		Prompt:  prompt,
		Model:   openai.ImageModel(g.model),
		Size:    openai.ImageEditParamsSize(g.size),
		Quality: openai.ImageEditParamsQuality(g.quality),
		N:       openai.Int(1),
	})
	if err != nil {
		g.logger.ErrorContext(ctx, "image edit failed", "error", err, "inputs", len(images))
		return nil, fmt.Errorf("%w: image edit: %v", generation.ErrUpstream, err)
	}
	return decodeFirst(resp)
}

func decodeFirst(resp *openai.ImagesResponse) ([]byte, error) {
	if resp == nil || len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, ErrEmptyImage
	}
	png, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image data: %w", err)
	}
	return png, nil
}
