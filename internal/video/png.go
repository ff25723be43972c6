package video

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/shortsai/shortsgen/internal/compositor"
)

// PNGSink dumps every frame as a numbered PNG. Useful for inspecting
// composition without an encoder installed.
type PNGSink struct {
	dir     string
	written int64
}

func NewPNGSink(dir string) (*PNGSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &PNGSink{dir: dir}, nil
}

func (s *PNGSink) WriteFrame(_ context.Context, frame *compositor.Frame) error {
	path := filepath.Join(s.dir, fmt.Sprintf("frame_%06d.png", frame.Index))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, frame.Image); err != nil {
		return err
	}
	s.written++
	return nil
}

func (s *PNGSink) Close() error { return nil }

// Written reports how many frames have been flushed so far.
func (s *PNGSink) Written() int64 { return s.written }
