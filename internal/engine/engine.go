package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/shortsai/shortsgen/internal/compositor"
	"github.com/shortsai/shortsgen/internal/config"
	"github.com/shortsai/shortsgen/internal/fonts"
	"github.com/shortsai/shortsgen/internal/layout"
	"github.com/shortsai/shortsgen/internal/render"
	"github.com/shortsai/shortsgen/internal/script"
	"github.com/shortsai/shortsgen/internal/source"
	"github.com/shortsai/shortsgen/internal/timing"
)

// ErrEmptyScript means there was nothing to render at all.
var ErrEmptyScript = errors.New("script contains no pages")

// WarningKind classifies recoverable per-page conditions.
type WarningKind string

const (
	WarnFontUnavailable WarningKind = "font_unavailable"
	WarnImageMissing    WarningKind = "image_missing"
	WarnInvalidDuration WarningKind = "invalid_duration"
)

// Warning is a recoverable condition surfaced to the caller instead of
// aborting the render. Page 0 marks script-wide warnings.
type Warning struct {
	Page    int
	Kind    WarningKind
	Message string
}

// Sink receives composed frames in order. The engine pushes exactly one
// continuous, monotonically timestamped stream into it.
type Sink interface {
	WriteFrame(ctx context.Context, frame *compositor.Frame) error
}

// Report summarizes a finished render.
type Report struct {
	Frames   int64
	Duration float64 // total output duration in seconds
	Pages    int     // pages actually rendered
	Skipped  int
	Warnings []Warning

	Storyboard *Storyboard
}

// Project renders one script with one configuration. Frame production is
// a synchronous pull per page, pushed to the sink in script order; the
// only state carried across pages is the advancing global frame offset.
type Project struct {
	cfg      *config.Config
	resolver *fonts.Resolver
}

// NewProject creates a render project.
func NewProject(cfg *config.Config) *Project {
	return &Project{
		cfg:      cfg,
		resolver: fonts.NewResolver(cfg.Text.FontDir, cfg.Text.FontFamily),
	}
}

// Render runs the whole script through the compositor into the sink.
// Per-page failures are isolated into warnings; only structural problems
// (no pages, inconsistent config) return an error.
func (p *Project) Render(ctx context.Context, s *script.Script, sink Sink) (*Report, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if s == nil || len(s.Pages) == 0 {
		return nil, ErrEmptyScript
	}

	style, err := p.style()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	report := &Report{Storyboard: &Storyboard{Version: "1.0"}}

	handle, fontWarn := p.resolver.Resolve(fonts.WeightExtraBold)
	if fontWarn != nil {
		log.Printf("[!] %v", fontWarn)
		report.Warnings = append(report.Warnings, Warning{
			Kind:    WarnFontUnavailable,
			Message: fontWarn.Error(),
		})
	}
	face, err := handle.Face(p.cfg.Text.FontSize)
	if err != nil {
		return nil, err
	}

	vw, vh := p.cfg.Video.Width, p.cfg.Video.Height
	anim := p.cfg.Animation

	var offset int64
	for _, page := range s.Pages {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		dur := page.AudioDuration
		if math.IsNaN(dur) || math.IsInf(dur, 0) || dur <= 0 {
			log.Printf("[!] Page %d has invalid duration %v, skipping", page.Index, dur)
			report.Warnings = append(report.Warnings, Warning{
				Page:    page.Index,
				Kind:    WarnInvalidDuration,
				Message: fmt.Sprintf("audio duration %v is not renderable", dur),
			})
			report.Skipped++
			continue
		}
		display := dur + 2*anim.PaddingSeconds

		src := page.Image
		if src == nil {
			log.Printf("[!] Page %d has no background image, using placeholder", page.Index)
			report.Warnings = append(report.Warnings, Warning{
				Page:    page.Index,
				Kind:    WarnImageMissing,
				Message: "background image unavailable, substituted a placeholder",
			})
			src = source.Placeholder(vw, vh)
		}

		reg := layout.ForPage(page.IsFirst(), vw, vh)
		pt := render.Layout(page, reg, face, style.Style)
		tl := timing.New(display, pt.CharCount(), timing.Options{
			MaxRevealFraction: anim.MaxRevealFraction,
			MaxCharsPerSecond: anim.MaxCharsPerSecond,
			FadeInDuration:    anim.FadeInDuration,
			FadeOutDuration:   anim.FadeOutDuration,
		})

		seq := compositor.New(src, pt, tl, reg, compositor.Options{
			Width:      vw,
			Height:     vh,
			FPS:        p.cfg.Video.FPS,
			Duration:   display,
			Background: style.Background,
			MaxZoom:    anim.MaxZoom,
		}, offset)

		written, err := p.drain(ctx, seq, sink)
		seq.Close()
		if err != nil {
			return report, fmt.Errorf("page %d: %w", page.Index, err)
		}

		report.Storyboard.Pages = append(report.Storyboard.Pages, StoryboardPage{
			Index:          page.Index,
			Duration:       display,
			Frames:         seq.Len(),
			FirstFrame:     offset,
			Chars:          pt.CharCount(),
			RevealDuration: tl.RevealDuration(),
			Pan:            reg.Pan,
		})

		offset += written
		report.Pages++
		log.Printf("[>] Page %d/%d: %d frames", page.Index, len(s.Pages), written)
	}

	report.Frames = offset
	report.Duration = float64(offset) / float64(p.cfg.Video.FPS)
	return report, nil
}

// drain pulls every frame of a page into the sink. Once a page has
// started it either completes or the whole render stops; the stream
// never resumes mid-page.
func (p *Project) drain(ctx context.Context, seq *compositor.Sequence, sink Sink) (int64, error) {
	var written int64
	for {
		frame, ok := seq.Next()
		if !ok {
			return written, nil
		}
		if err := sink.WriteFrame(ctx, frame); err != nil {
			return written, err
		}
		written++
	}
}
