package service

import (
	"fmt"
	"strings"

	"github.com/h2non/bimg"

	"github.com/fleveque/logolist/internal/model"
	"github.com/fleveque/logolist/internal/storage"
)

// ImageProcessor renders logos into the square PNG sizes and optionally
// stores them. It uses bimg (Go bindings for libvips), which requires libvips
// as a system dependency.
type ImageProcessor struct {
	fs *storage.FileSystem
}

// NewImageProcessor creates a processor. fs may be nil when the caller only
// renders on the fly (the download proxy).
func NewImageProcessor(fs *storage.FileSystem) *ImageProcessor {
	return &ImageProcessor{fs: fs}
}

// Render resizes imageData (PNG, JPEG, SVG, WebP...) to a square PNG of the
// given size, flattening it onto bg when bg is a hex colour.
func (p *ImageProcessor) Render(imageData []byte, size model.LogoSize, bg string) ([]byte, error) {
	out := imageData
	if size != "" {
		pixels, ok := model.SizePixels[size]
		if !ok {
			return nil, fmt.Errorf("%w: unknown size %q", ErrInvalidInput, size)
		}
		resized, err := resizeToSquarePNG(out, pixels)
		if err != nil {
			return nil, err
		}
		out = resized
	}
	if bg != "" {
		flat, err := ApplyBackground(out, bg)
		if err != nil {
			return nil, err
		}
		out = flat
	}
	return out, nil
}

// Export renders every size for one brand and writes them under its slug.
// All sizes are attempted; the error lists the ones that failed.
func (p *ImageProcessor) Export(slug string, imageData []byte) (int, error) {
	if p.fs == nil {
		return 0, fmt.Errorf("image processor has no asset store")
	}

	images := make(map[model.LogoSize][]byte, len(model.AllSizes))
	var errs []string
	for _, size := range model.AllSizes {
		resized, err := resizeToSquarePNG(imageData, model.SizePixels[size])
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", size, err))
			continue
		}
		images[size] = resized
	}

	if len(images) > 0 {
		if err := p.fs.WriteAll(slug, images); err != nil {
			return 0, err
		}
	}
	if len(errs) > 0 {
		return len(images), fmt.Errorf("rendering %s: %s", slug, strings.Join(errs, "; "))
	}
	return len(images), nil
}

// resizeToSquarePNG resizes an image to a square PNG of the given pixel size.
// bimg.Options is a struct with many fields — you set only the ones you need.
func resizeToSquarePNG(imageData []byte, pixels int) ([]byte, error) {
	resized, err := bimg.NewImage(imageData).Process(bimg.Options{
		Width:          pixels,
		Height:         pixels,
		Type:           bimg.PNG,
		Embed:          true, // pad instead of cropping when the aspect ratio differs
		Enlarge:        true, // small favicons get upscaled
		Background:     bimg.Color{R: 0, G: 0, B: 0},
		Interpretation: bimg.InterpretationSRGB,
	})
	if err != nil {
		return nil, fmt.Errorf("resizing to %dpx: %w", pixels, err)
	}
	return resized, nil
}

// ApplyBackground flattens the alpha channel of a PNG onto a solid colour.
func ApplyBackground(imageData []byte, hexColor string) ([]byte, error) {
	r, g, b, err := parseHexColor(hexColor)
	if err != nil {
		return nil, err
	}

	return bimg.NewImage(imageData).Process(bimg.Options{
		Background:     bimg.Color{R: r, G: g, B: b},
		Type:           bimg.PNG,
		Interpretation: bimg.InterpretationSRGB,
	})
}

// parseHexColor converts "#rrggbb" or "rrggbb" to RGB values.
func parseHexColor(hex string) (uint8, uint8, uint8, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("%w: hex color %q must have 6 digits", ErrInvalidInput, hex)
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: parsing hex color %q: %v", ErrInvalidInput, hex, err)
	}
	return r, g, b, nil
}
