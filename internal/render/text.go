package render

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/shortsai/shortsgen/internal/layout"
	"github.com/shortsai/shortsgen/internal/script"
)

// Style carries the visual text settings.
type Style struct {
	Color            color.Color
	HighlightColor   color.Color
	HighlightPadding int
	LineSpacing      float64 // multiple of the face height, 0 means 1.25
}

type line struct {
	runes       []rune
	width       int // px of the full line
	highlighted bool
}

// PageText is a page's text wrapped once into static lines. Wrapping does
// not depend on time; time only chooses how many characters are visible.
type PageText struct {
	face   font.Face
	style  Style
	region layout.Region

	lines      []line
	charCount  int
	lineHeight int
	ascent     int
	descent    int
}

// Layout word-wraps the page text inside the region's text rectangle.
func Layout(page script.Page, reg layout.Region, face font.Face, style Style) *PageText {
	metrics := face.Metrics()
	faceHeight := (metrics.Ascent + metrics.Descent).Ceil()

	spacing := style.LineSpacing
	if spacing <= 0 {
		spacing = 1.25
	}

	pt := &PageText{
		face:       face,
		style:      style,
		region:     reg,
		lineHeight: int(float64(faceHeight) * spacing),
		ascent:     metrics.Ascent.Ceil(),
		descent:    metrics.Descent.Ceil(),
	}

	maxWidth := reg.Text.Dx()
	for _, seg := range page.Segments {
		for _, l := range wrap(seg.Text, maxWidth, face) {
			pt.lines = append(pt.lines, line{
				runes:       l,
				width:       measure(face, string(l)),
				highlighted: seg.Highlighted,
			})
			pt.charCount += len(l)
		}
	}
	return pt
}

// CharCount returns the number of characters the typewriter can reveal.
func (pt *PageText) CharCount() int { return pt.charCount }

// Draw renders the first revealed characters onto dst at full opacity.
// Boxes go first, then glyphs; the caller applies the fade when
// compositing the layer.
func (pt *PageText) Draw(dst draw.Image, revealed int) {
	if len(pt.lines) == 0 || revealed <= 0 {
		return
	}

	startY := pt.region.Text.Min.Y
	if pt.region.TextAnchor == layout.AnchorBottom {
		startY = pt.region.Text.Max.Y - len(pt.lines)*pt.lineHeight
		if startY < pt.region.Text.Min.Y {
			startY = pt.region.Text.Min.Y
		}
	}

	if pt.region.Highlights {
		pt.drawBoxes(dst, revealed, startY)
	}
	pt.drawGlyphs(dst, revealed, startY)
}

func (pt *PageText) drawBoxes(dst draw.Image, revealed, startY int) {
	pad := pt.style.HighlightPadding
	src := image.NewUniform(pt.style.HighlightColor)

	budget := revealed
	for i, l := range pt.lines {
		shown := min(budget, len(l.runes))
		budget -= shown
		if !l.highlighted || shown == 0 {
			continue
		}

		left := pt.lineLeft(l)
		top := startY + i*pt.lineHeight
		prefix := measure(pt.face, string(l.runes[:shown]))
		box := image.Rect(
			left-pad,
			top-pad,
			left+prefix+pad,
			top+pt.ascent+pt.descent+pad,
		)
		draw.Draw(dst, box.Intersect(dst.Bounds()), src, image.Point{}, draw.Over)
	}
}

func (pt *PageText) drawGlyphs(dst draw.Image, revealed, startY int) {
	src := image.NewUniform(pt.style.Color)

	budget := revealed
	for i, l := range pt.lines {
		shown := min(budget, len(l.runes))
		budget -= shown
		if shown == 0 {
			continue
		}

		d := font.Drawer{
			Dst:  dst,
			Src:  src,
			Face: pt.face,
			Dot:  fixed.P(pt.lineLeft(l), startY+i*pt.lineHeight+pt.ascent),
		}
		d.DrawString(string(l.runes[:shown]))
	}
}

// lineLeft centers the full line inside the text rectangle. The anchor is
// fixed per page so revealed prefixes never shift.
func (pt *PageText) lineLeft(l line) int {
	return pt.region.Text.Min.X + (pt.region.Text.Dx()-l.width)/2
}

// wrap splits text into lines no wider than maxWidth, breaking at spaces
// first and inside words only when a single word is too wide.
func wrap(text string, maxWidth int, face font.Face) [][]rune {
	var lines [][]rune
	var current []rune

	flush := func() {
		if len(current) > 0 {
			lines = append(lines, current)
			current = nil
		}
	}

	for _, word := range strings.Fields(text) {
		wordRunes := []rune(word)

		candidate := current
		if len(candidate) > 0 {
			candidate = append(append([]rune{}, candidate...), ' ')
		}
		candidate = append(candidate, wordRunes...)

		if measure(face, string(candidate)) <= maxWidth {
			current = candidate
			continue
		}

		flush()
		if measure(face, word) <= maxWidth {
			current = wordRunes
			continue
		}
		// A single word wider than the region: split by runes.
		for _, r := range wordRunes {
			next := append(append([]rune{}, current...), r)
			if len(current) > 0 && measure(face, string(next)) > maxWidth {
				flush()
				current = []rune{r}
				continue
			}
			current = next
		}
		flush()
	}
	flush()

	if len(lines) == 0 && strings.TrimSpace(text) != "" {
		lines = append(lines, []rune(strings.TrimSpace(text)))
	}
	return lines
}

func measure(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
