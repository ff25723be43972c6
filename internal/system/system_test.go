package system

import (
	"image"
	"testing"
)

func TestFramePoolReuse(t *testing.T) {
	rect := image.Rect(0, 0, 64, 64)

	a := GetFrame(rect)
	if a == nil || a.Rect != rect {
		t.Fatalf("Expected a %v buffer, got %v", rect, a)
	}
	PutFrame(a)

	b := GetFrame(rect)
	if b.Rect != rect {
		t.Errorf("Reused buffer has rect %v", b.Rect)
	}
	PutFrame(b)

	// Different sizes come from different pools.
	c := GetFrame(image.Rect(0, 0, 32, 32))
	if c.Rect.Dx() != 32 {
		t.Errorf("Expected a 32px buffer, got %d", c.Rect.Dx())
	}
	PutFrame(c)

	PutFrame(nil) // must not panic
}

func TestWorkers(t *testing.T) {
	if got := Workers(4); got != 4 {
		t.Errorf("Configured worker count should win, got %d", got)
	}
	if got := Workers(0); got < 1 {
		t.Errorf("Auto worker count must be at least 1, got %d", got)
	}
}
