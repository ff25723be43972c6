package source

import (
	"context"
	"image"
	"image/color"
	"image/draw"
)

// Provider supplies one decoded background image per page. Implementations
// are free to fetch, generate or rasterize; the engine only ever sees the
// decoded bitmap.
type Provider interface {
	// Image returns the background for a 1-based page index. The prompt
	// is the page's text, for providers that generate imagery from it.
	Image(ctx context.Context, pageIndex int, prompt string) (image.Image, error)
	Close() error
}

// placeholderGray is the flat fill used when a page has no usable image.
var placeholderGray = color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}

// Placeholder returns a solid-color stand-in image. One bad page should
// not sink the whole video, so callers substitute this instead of failing.
func Placeholder(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(placeholderGray), image.Point{}, draw.Src)
	return img
}
