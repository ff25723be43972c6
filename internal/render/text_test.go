package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/shortsai/shortsgen/internal/fonts"
	"github.com/shortsai/shortsgen/internal/layout"
	"github.com/shortsai/shortsgen/internal/script"
)

func testFace(t *testing.T) *fonts.Handle {
	t.Helper()
	h, _ := fonts.NewResolver("", "").Resolve(fonts.WeightBold)
	return h
}

func testStyle() Style {
	return Style{
		Color:            color.RGBA{A: 0xFF},
		HighlightColor:   color.RGBA{R: 0xFF, A: 0xFF},
		HighlightPadding: 8,
		LineSpacing:      1.25,
	}
}

func layerFor(reg layout.Region) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, 1080, 1920))
}

func countOpaque(img *image.RGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			n++
		}
	}
	return n
}

func TestLayoutWrapsWithinRegion(t *testing.T) {
	face, err := testFace(t).Face(64)
	if err != nil {
		t.Fatal(err)
	}

	reg := layout.ForPage(true, 1080, 1920)
	page := script.Page{Index: 1, Segments: []script.Segment{
		{Text: "a fairly long sentence that cannot possibly fit on a single line at this size"},
	}}

	pt := Layout(page, reg, face, testStyle())
	if len(pt.lines) < 2 {
		t.Fatalf("Expected the sentence to wrap, got %d line(s)", len(pt.lines))
	}
	for i, l := range pt.lines {
		if l.width > reg.Text.Dx() {
			t.Errorf("Line %d is %dpx wide, region allows %d", i, l.width, reg.Text.Dx())
		}
	}
	if pt.CharCount() == 0 {
		t.Error("CharCount should be positive for non-empty text")
	}
}

func TestDrawRevealsProgressively(t *testing.T) {
	face, err := testFace(t).Face(64)
	if err != nil {
		t.Fatal(err)
	}

	reg := layout.ForPage(true, 1080, 1920)
	page := script.Page{Index: 1, Segments: []script.Segment{{Text: "Hello world"}}}
	pt := Layout(page, reg, face, testStyle())

	none := layerFor(reg)
	pt.Draw(none, 0)
	if countOpaque(none) != 0 {
		t.Error("Zero revealed characters should draw nothing")
	}

	few := layerFor(reg)
	pt.Draw(few, 3)
	all := layerFor(reg)
	pt.Draw(all, pt.CharCount())

	if countOpaque(few) == 0 {
		t.Error("Partially revealed text should draw something")
	}
	if countOpaque(all) <= countOpaque(few) {
		t.Error("Full reveal should cover more pixels than a partial one")
	}
}

func TestHighlightBoxGating(t *testing.T) {
	face, err := testFace(t).Face(64)
	if err != nil {
		t.Fatal(err)
	}

	segments := []script.Segment{{Text: "marked", Highlighted: true}}
	style := testStyle()

	// Opener: the box is drawn, so highlight-colored pixels exist.
	opener := layout.ForPage(true, 1080, 1920)
	img1 := layerFor(opener)
	Layout(script.Page{Index: 1, Segments: segments}, opener, face, style).Draw(img1, 6)
	if !hasColor(img1, style.HighlightColor) {
		t.Error("Opener should draw the highlight box")
	}

	// Follow-up page: highlighted flag is ignored, no box.
	later := layout.ForPage(false, 1080, 1920)
	img2 := layerFor(later)
	Layout(script.Page{Index: 2, Segments: segments}, later, face, style).Draw(img2, 6)
	if hasColor(img2, style.HighlightColor) {
		t.Error("Follow-up pages must never draw highlight boxes")
	}
}

func TestDrawStaysInsideTextRegionHorizontally(t *testing.T) {
	face, err := testFace(t).Face(64)
	if err != nil {
		t.Fatal(err)
	}

	reg := layout.ForPage(false, 1080, 1920)
	page := script.Page{Index: 2, Segments: []script.Segment{{Text: "bottom anchored line"}}}
	pt := Layout(page, reg, face, testStyle())

	img := layerFor(reg)
	pt.Draw(img, pt.CharCount())

	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < reg.Text.Min.X-1; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				t.Fatalf("Pixel at (%d,%d) is left of the text region", x, y)
			}
		}
	}
}

func hasColor(img *image.RGBA, c color.Color) bool {
	want := color.RGBAModel.Convert(c).(color.RGBA)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == want {
				return true
			}
		}
	}
	return false
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#FF0000", color.RGBA{R: 0xFF, A: 0xFF}, true},
		{"#ffffff", color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}, true},
		{"#abc", color.RGBA{R: 0xAA, G: 0xBB, B: 0xCC, A: 0xFF}, true},
		{"000000", color.RGBA{A: 0xFF}, true},
		{"#12345", color.RGBA{}, false},
		{"#zzzzzz", color.RGBA{}, false},
	}

	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if tt.ok && err != nil {
			t.Errorf("ParseHexColor(%q) failed: %v", tt.in, err)
			continue
		}
		if !tt.ok {
			if err == nil {
				t.Errorf("ParseHexColor(%q) should fail", tt.in)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
