package layout

import "image"

// Anchor says which edge of the text region lines stack against.
type Anchor int

const (
	AnchorTop Anchor = iota
	AnchorBottom
)

// Region is the fixed arrangement of a page in canvas pixels. It depends
// only on whether the page is the opener, never on page content.
type Region struct {
	Image      image.Rectangle
	Text       image.Rectangle
	TextAnchor Anchor
	Highlights bool // highlight boxes are an opener-only feature
	Pan        bool // image motion is a follow-up-page-only feature
}

// ForPage returns the page template for a canvas of the given size.
//
// The opener puts the image in the lower half with text on top; every
// later page flips that, with a larger image up top so the pan has room.
func ForPage(first bool, width, height int) Region {
	w := float64(width)
	h := float64(height)

	if first {
		// Small square centered at 80% height, text anchored near the top.
		side := int(w * 0.5)
		cx, cy := int(w/2), int(h*0.8)
		return Region{
			Image:      image.Rect(cx-side/2, cy-side/2, cx+side/2, cy+side/2),
			Text:       image.Rect(int(w*0.05), int(h*0.15), int(w*0.95), int(h*0.50)),
			TextAnchor: AnchorTop,
			Highlights: true,
		}
	}

	// Wide square with its top at 20% height, text anchored to the bottom.
	side := int(w * 0.9)
	left := (width - side) / 2
	top := int(h * 0.2)
	return Region{
		Image:      image.Rect(left, top, left+side, top+side),
		Text:       image.Rect(int(w*0.05), int(h*0.72), int(w*0.95), int(h*0.95)),
		TextAnchor: AnchorBottom,
		Pan:        true,
	}
}
