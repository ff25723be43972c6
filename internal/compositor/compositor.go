package compositor

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/shortsai/shortsgen/internal/layout"
	"github.com/shortsai/shortsgen/internal/motion"
	"github.com/shortsai/shortsgen/internal/render"
	"github.com/shortsai/shortsgen/internal/system"
	"github.com/shortsai/shortsgen/internal/timing"
)

// Frame is one composed canvas with its absolute position in the output.
// The pixel buffer is reused: it stays valid until the next call to
// Next or Close on the sequence that produced it.
type Frame struct {
	Image     *image.RGBA
	Index     int64   // absolute frame index across the whole script
	Timestamp float64 // Index / fps seconds
}

// Options fix the canvas for one page's frame sequence.
type Options struct {
	Width      int
	Height     int
	FPS        int
	Duration   float64 // display duration of the page in seconds
	Background color.Color
	MaxZoom    float64
}

// Sequence lazily produces a page's frames in order. It is finite and
// non-restartable; the caller drives it by pulling and must Close it to
// release the pooled buffers, whether or not it pulled every frame.
type Sequence struct {
	opts   Options
	src    image.Image
	text   *render.PageText
	tl     timing.Timeline
	region layout.Region

	offset int64 // global frame index of this page's first frame
	frame  int
	total  int

	canvas    *image.RGBA
	textLayer *image.RGBA
	closed    bool
}

// New builds the frame sequence for one page starting at the given
// global frame offset. src must be a decoded image; substituting a
// placeholder for failed pages is the caller's policy.
func New(src image.Image, text *render.PageText, tl timing.Timeline, reg layout.Region, opts Options, globalOffset int64) *Sequence {
	return &Sequence{
		opts:   opts,
		src:    src,
		text:   text,
		tl:     tl,
		region: reg,
		offset: globalOffset,
		total:  FrameCount(opts.Duration, opts.FPS),
	}
}

// FrameCount returns how many frames a page of the given duration emits.
func FrameCount(duration float64, fps int) int {
	if duration <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Ceil(duration * float64(fps)))
}

// Len returns the total number of frames this sequence will produce.
func (s *Sequence) Len() int { return s.total }

// Next composes and returns the next frame, or ok=false when the
// sequence is exhausted or closed.
func (s *Sequence) Next() (*Frame, bool) {
	if s.closed || s.frame >= s.total {
		return nil, false
	}

	bounds := image.Rect(0, 0, s.opts.Width, s.opts.Height)
	if s.canvas == nil {
		s.canvas = system.GetFrame(bounds)
		s.textLayer = system.GetFrame(bounds)
	}

	t := float64(s.frame) / float64(s.opts.FPS)

	// Background.
	draw.Draw(s.canvas, bounds, image.NewUniform(s.opts.Background), image.Point{}, draw.Src)

	// Image layer: crop for this moment, scaled into the image region.
	crop := motion.Crop(s.src.Bounds(), s.region.Image, t, s.opts.Duration, motion.Options{
		MaxZoom: s.opts.MaxZoom,
		Enabled: s.region.Pan,
	})
	xdraw.ApproxBiLinear.Scale(s.canvas, s.region.Image, s.src, crop, xdraw.Over, nil)

	// Text layer, composited at the fade opacity so glyphs and highlight
	// boxes fade in lockstep.
	opacity := s.tl.FadeOpacity(t)
	revealed := s.tl.RevealedCount(t)
	if opacity > 0 && revealed > 0 {
		clear(s.textLayer.Pix)
		s.text.Draw(s.textLayer, revealed)

		alpha := uint8(opacity*255 + 0.5)
		mask := image.NewUniform(color.Alpha{A: alpha})
		draw.DrawMask(s.canvas, bounds, s.textLayer, image.Point{}, mask, image.Point{}, draw.Over)
	}

	f := &Frame{
		Image:     s.canvas,
		Index:     s.offset + int64(s.frame),
		Timestamp: float64(s.offset+int64(s.frame)) / float64(s.opts.FPS),
	}
	s.frame++
	return f, true
}

// Close releases the pooled buffers. Safe to call more than once, and
// required even when iteration stops early.
func (s *Sequence) Close() {
	if s.closed {
		return
	}
	s.closed = true
	system.PutFrame(s.canvas)
	system.PutFrame(s.textLayer)
	s.canvas = nil
	s.textLayer = nil
}
