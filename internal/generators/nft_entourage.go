package generators

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phrazzld/wallet-wrapped/internal/domain"
	"github.com/phrazzld/wallet-wrapped/internal/generation"
)

const entourageDataPrompt = `Look at this wallet's profile and recent trades. Find the 4 most valuable NFTs it still owns.
For each one note the collection name, the token id and its signature trait.
Write a short, punchy description of this entourage, leading in with something like "Your NFT entourage is...".
Highlights: one per NFT, label = collection name, value = token name exactly as listed,
image = the NFT image URL (required).
If fewer than 4 are owned use as many as there are.`

const entourageImagePrompt = `Create a cinematic scene called "NFT Entourage".
Use the provided images as the only characters, treated as subjects rather than framed pictures.
They walk toward the camera in a loose V formation on a rain-slick neon street at night.
The most valuable NFT is front and centre, the others flank it, the fourth slightly behind.
Remove original backgrounds, match lighting and shadows to the scene and grade everything teal and magenta
while keeping each character recognisable. Slightly low camera angle, shallow depth of field.
One square image. No text, captions, watermarks, frames or extra characters.`

const entourageFallbackPrompt = "Generate an SVG representation of the NFTs in the highlights:\n\n%s"

// NFTEntourage is the NFT entourage card. Its media processor fetches the
// highlighted NFT images, asks the image model to composite them into one
// scene and uploads the result. When images, the image model or the uploader
// are unavailable, or the image edit fails, it falls back to an SVG from the
// AI client. With a temp dir configured the source images and the composite
// are staged under it; the staging directory is removed after a successful
// upload and kept when the upload fails.
func NFTEntourage(fetcher ImageFetcher) generation.Spec {
	return generation.MustSpec(generation.Definition{
		Kind:           KindNFTEntourage,
		Version:        1,
		Order:          15,
		Requires:       []generation.Requirement{generation.RequiresNFTs},
		DataPrompt:     entourageDataPrompt,
		MediaProcessor: entourageMedia(fetcher),
	})
}

func entourageMedia(fetcher ImageFetcher) generation.MediaProcessor {
	return func(ctx context.Context, in generation.MediaInput) (*domain.Media, error) {
		highlights, err := json.MarshalIndent(in.Data.Highlights, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode highlights: %w", err)
		}
		fallback := func() (*domain.Media, error) {
			return generation.PromptMedia(ctx, in.Caps.AI, in.Caps.Sanitizer,
				fmt.Sprintf(entourageFallbackPrompt, highlights), nil, in.Vars)
		}

		if fetcher == nil || in.Caps.Images == nil || in.Caps.Upload == nil {
			return fallback()
		}

		var images [][]byte
		for _, h := range in.Data.Highlights {
			if h.Image == "" {
				continue
			}
			png, err := fetcher.FetchPNG(ctx, h.Image)
			if err != nil {
				continue
			}
			images = append(images, png)
		}
		if len(images) == 0 {
			return fallback()
		}

		prompt := entourageImagePrompt
		if len(images) < 4 {
			prompt += fmt.Sprintf("\n\nOnly %d NFT image(s) are available; adjust the composition.", len(images))
		}
		prompt += "\n\nNFTs:\n" + string(highlights)

		png, err := in.Caps.Images.Edit(ctx, prompt, images)
		if err != nil {
			return fallback()
		}

		staged := stageEntourage(in.Caps.TempDir, images, png)

		url, err := in.Caps.Upload.Upload(ctx, entourageObjectName(in.Vars), png, "image/png")
		if err != nil {
			if staged != "" {
				return nil, fmt.Errorf("upload entourage image (staged in %s): %w", staged, err)
			}
			return nil, fmt.Errorf("upload entourage image: %w", err)
		}
		if staged != "" {
			_ = os.RemoveAll(staged)
		}
		return domain.NewURLMedia(url, "NFT Entourage")
	}
}

// stageEntourage writes the inputs and the composite to a fresh directory
// under tmpDir and returns its path. Staging is best effort: any failure
// removes the directory and returns "".
func stageEntourage(tmpDir string, images [][]byte, scene []byte) string {
	if tmpDir == "" {
		return ""
	}
	dir, err := os.MkdirTemp(tmpDir, "entourage-*")
	if err != nil {
		return ""
	}
	files := map[string][]byte{"scene.png": scene}
	for i, img := range images {
		files[fmt.Sprintf("input-%d.png", i)] = img
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o600); err != nil {
			_ = os.RemoveAll(dir)
			return ""
		}
	}
	return dir
}

func entourageObjectName(vars generation.Vars) string {
	stamp := strings.NewReplacer(":", "", ".", "").Replace(vars.SnapshotAt)
	return fmt.Sprintf("%s/%s-%s.png", vars.Address, KindNFTEntourage, stamp)
}
