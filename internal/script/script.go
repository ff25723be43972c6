package script

import (
	"fmt"
	"image"
	"strings"
)

// Segment is a run of text within a page. Highlighted segments get a
// background box on the first page of the video.
type Segment struct {
	Text        string
	Highlighted bool
}

// Page is one slide of the script: its text segments, a background image
// and the measured narration duration. Pages are built once and never
// mutated afterwards.
type Page struct {
	Index         int // 1-based position in the script
	Segments      []Segment
	Image         image.Image // decoded background, may be nil if acquisition failed
	AudioDuration float64     // narration length in seconds
}

// IsFirst reports whether the page uses the opening layout.
func (p Page) IsFirst() bool { return p.Index == 1 }

// Text returns the full displayed text: segments joined with line breaks.
func (p Page) Text() string {
	parts := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		parts[i] = s.Text
	}
	return strings.Join(parts, "\n")
}

// CharCount returns the number of visible characters across all segments.
// Line breaks between segments do not count.
func (p Page) CharCount() int {
	n := 0
	for _, s := range p.Segments {
		n += len([]rune(s.Text))
	}
	return n
}

// Script is an ordered sequence of pages. Order is viewing order.
type Script struct {
	Pages []Page
}

// Validate checks the structural invariants of a parsed script.
func (s *Script) Validate() error {
	if len(s.Pages) == 0 {
		return fmt.Errorf("script contains no pages")
	}
	for i, p := range s.Pages {
		if p.Index != i+1 {
			return fmt.Errorf("page %d has index %d, expected %d", i, p.Index, i+1)
		}
	}
	return nil
}
