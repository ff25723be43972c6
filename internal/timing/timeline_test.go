package timing

import (
	"math"
	"testing"
)

var opts = Options{
	MaxRevealFraction: 0.6,
	MaxCharsPerSecond: 20,
	FadeInDuration:    0.5,
	FadeOutDuration:   0.5,
}

func TestRevealDurationDerivation(t *testing.T) {
	// "Hello world": 11 chars, 3.0s page.
	// min(0.6*3.0, 11/20) = min(1.8, 0.55) = 0.55
	tl := New(3.0, 11, opts)

	if math.Abs(tl.RevealDuration()-0.55) > 1e-9 {
		t.Errorf("Expected reveal duration 0.55, got %f", tl.RevealDuration())
	}
	if got := tl.RevealedCount(0.55); got != 11 {
		t.Errorf("Expected all 11 chars at t=0.55, got %d", got)
	}
	if got := tl.RevealedCount(0.275); got != 5 {
		t.Errorf("Expected 5 chars at the reveal midpoint, got %d", got)
	}
}

func TestRevealedCountMonotonic(t *testing.T) {
	tl := New(4.0, 57, opts)

	prev := -1
	for step := 0; step <= 400; step++ {
		tm := float64(step) / 100.0
		n := tl.RevealedCount(tm)
		if n < prev {
			t.Fatalf("RevealedCount decreased at t=%.2f: %d -> %d", tm, prev, n)
		}
		if n < 0 || n > 57 {
			t.Fatalf("RevealedCount out of range at t=%.2f: %d", tm, n)
		}
		prev = n
	}

	if tl.RevealedCount(4.0) != 57 {
		t.Error("All characters should be revealed by the end of the page")
	}
	// The reveal must finish within the configured fraction of the page.
	if tl.RevealDuration() > opts.MaxRevealFraction*4.0 {
		t.Errorf("Reveal duration %f exceeds the page fraction cap", tl.RevealDuration())
	}
}

func TestEmptyTextNeverReveals(t *testing.T) {
	tl := New(3.0, 0, opts)
	for _, tm := range []float64{-1, 0, 0.5, 3.0, 10} {
		if tl.RevealedCount(tm) != 0 {
			t.Errorf("Empty page revealed characters at t=%.1f", tm)
		}
	}
	// Fades still apply.
	if tl.FadeOpacity(0) != 0 {
		t.Error("Fade should still start at zero opacity")
	}
}

func TestFadeOpacityBounds(t *testing.T) {
	tl := New(3.0, 11, opts)

	if tl.FadeOpacity(0) != 0 {
		t.Errorf("Opacity at t=0 should be 0, got %f", tl.FadeOpacity(0))
	}
	if tl.FadeOpacity(3.0) != 0 {
		t.Errorf("Opacity at the end should be 0, got %f", tl.FadeOpacity(3.0))
	}
	if tl.FadeOpacity(1.5) != 1 {
		t.Errorf("Opacity mid-page should be 1, got %f", tl.FadeOpacity(1.5))
	}
	for step := 0; step <= 300; step++ {
		tm := float64(step) / 100.0
		o := tl.FadeOpacity(tm)
		if o < 0 || o > 1 {
			t.Fatalf("Opacity out of [0,1] at t=%.2f: %f", tm, o)
		}
	}
}

func TestShortPageCompressesFades(t *testing.T) {
	// 0.4s page with 0.5s+0.5s fades: both must shrink proportionally.
	tl := New(0.4, 5, opts)

	if math.Abs(tl.fadeIn-0.2) > 1e-9 || math.Abs(tl.fadeOut-0.2) > 1e-9 {
		t.Errorf("Expected compressed fades 0.2/0.2, got %f/%f", tl.fadeIn, tl.fadeOut)
	}
	// Fade-out start must not precede fade-in end.
	if tl.duration-tl.fadeOut < tl.fadeIn-1e-9 {
		t.Error("Fade windows overlap-invert")
	}
	if tl.FadeOpacity(0) != 0 || tl.FadeOpacity(0.4) != 0 {
		t.Error("Compressed fades should still pin the endpoints to 0")
	}
}

func TestNoFades(t *testing.T) {
	tl := New(2.0, 10, Options{MaxRevealFraction: 0.6, MaxCharsPerSecond: 20})
	if tl.FadeOpacity(0) != 1 || tl.FadeOpacity(2.0) != 1 {
		t.Error("With zero fade durations the opacity should be constant 1")
	}
}

func TestDeterminism(t *testing.T) {
	a := New(3.7, 42, opts)
	b := New(3.7, 42, opts)
	for step := 0; step <= 370; step++ {
		tm := float64(step) / 100.0
		if a.RevealedCount(tm) != b.RevealedCount(tm) || a.FadeOpacity(tm) != b.FadeOpacity(tm) {
			t.Fatalf("Timelines diverged at t=%.2f", tm)
		}
	}
}
