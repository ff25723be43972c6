package timing

import "math"

// Options control the typewriter and fade curves.
type Options struct {
	MaxRevealFraction float64 // share of the page the reveal may occupy
	MaxCharsPerSecond float64 // legibility cap on the typewriter
	FadeInDuration    float64 // seconds
	FadeOutDuration   float64 // seconds
}

// Timeline maps elapsed page time to animation state. It is a pure value:
// the same inputs always produce the same curves, so frames can be
// re-rendered in isolation.
type Timeline struct {
	duration  float64
	charCount int

	revealDuration float64
	fadeIn         float64
	fadeOut        float64
}

// New derives a timeline for one page from its display duration and
// visible character count.
//
// The reveal speed is derived, not fixed: it finishes within
// MaxRevealFraction of the page but never runs faster than
// MaxCharsPerSecond allows.
func New(duration float64, charCount int, opts Options) Timeline {
	tl := Timeline{
		duration:  duration,
		charCount: charCount,
		fadeIn:    opts.FadeInDuration,
		fadeOut:   opts.FadeOutDuration,
	}

	if charCount > 0 && opts.MaxCharsPerSecond > 0 {
		byCap := float64(charCount) / opts.MaxCharsPerSecond
		byFraction := opts.MaxRevealFraction * duration
		tl.revealDuration = math.Min(byFraction, byCap)
	}

	// Compress fades proportionally when the page is too short for both,
	// so the fade-out never starts before the fade-in ends.
	if total := tl.fadeIn + tl.fadeOut; total > duration && total > 0 {
		scale := duration / total
		tl.fadeIn *= scale
		tl.fadeOut *= scale
	}

	return tl
}

// RevealDuration returns how long the typewriter runs.
func (tl Timeline) RevealDuration() float64 { return tl.revealDuration }

// RevealedCount returns how many characters are visible at time t.
// It is non-decreasing in t and reaches the full count at RevealDuration.
func (tl Timeline) RevealedCount(t float64) int {
	if tl.charCount == 0 {
		return 0
	}
	if tl.revealDuration <= 0 {
		if t >= 0 {
			return tl.charCount
		}
		return 0
	}
	progress := clamp(t/tl.revealDuration, 0, 1)
	return int(math.Floor(float64(tl.charCount) * progress))
}

// FadeOpacity returns the text layer opacity at time t, in [0, 1].
func (tl Timeline) FadeOpacity(t float64) float64 {
	opacity := 1.0
	if tl.fadeIn > 0 && t < tl.fadeIn {
		opacity = t / tl.fadeIn
	}
	if tl.fadeOut > 0 && t > tl.duration-tl.fadeOut {
		out := (tl.duration - t) / tl.fadeOut
		if out < opacity {
			opacity = out
		}
	}
	return clamp(opacity, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
