package engine

import (
	"fmt"
	"image/color"

	"github.com/shortsai/shortsgen/internal/render"
)

// pageStyle bundles the parsed text style with the canvas background.
type pageStyle struct {
	render.Style
	Background color.RGBA
}

func (p *Project) style() (pageStyle, error) {
	text := p.cfg.Text

	fg, err := render.ParseHexColor(text.Color)
	if err != nil {
		return pageStyle{}, fmt.Errorf("text color: %w", err)
	}
	bg, err := render.ParseHexColor(text.BackgroundColor)
	if err != nil {
		return pageStyle{}, fmt.Errorf("background color: %w", err)
	}
	hl, err := render.ParseHexColor(text.HighlightColor)
	if err != nil {
		return pageStyle{}, fmt.Errorf("highlight color: %w", err)
	}

	return pageStyle{
		Style: render.Style{
			Color:            fg,
			HighlightColor:   hl,
			HighlightPadding: text.HighlightPadding,
			LineSpacing:      text.LineSpacing,
		},
		Background: bg,
	}, nil
}
