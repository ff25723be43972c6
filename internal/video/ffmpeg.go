package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"
	"strings"

	"github.com/shortsai/shortsgen/internal/compositor"
)

// FFmpegOptions describe a single encoding session. Frames are streamed
// as raw RGBA over stdin, so the encoder never touches the filesystem
// until the output file.
type FFmpegOptions struct {
	Width   int
	Height  int
	FPS     int
	Encoder string // libx264, h264_nvenc, h264_videotoolbox
	Quality int
	Output  string
}

// FFmpegSink pipes composited frames into a single ffmpeg process.
// It is not safe for concurrent use; frames must arrive in order.
type FFmpegSink struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	opts   FFmpegOptions
	closed bool
}

func NewFFmpegSink(ctx context.Context, opts FFmpegOptions) (*FFmpegSink, error) {
	if opts.Width <= 0 || opts.Height <= 0 || opts.FPS <= 0 {
		return nil, fmt.Errorf("invalid encoder geometry %dx%d@%d", opts.Width, opts.Height, opts.FPS)
	}
	if opts.Encoder == "" {
		opts.Encoder = "libx264"
	}

	s := &FFmpegSink{opts: opts}
	cmd := exec.CommandContext(ctx, "ffmpeg", s.buildArgs()...)
	cmd.Stderr = &s.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	s.cmd = cmd
	s.stdin = stdin
	return s, nil
}

func (s *FFmpegSink) buildArgs() []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", s.opts.Width, s.opts.Height),
		"-framerate", fmt.Sprintf("%d", s.opts.FPS),
		"-i", "-",
		"-r", fmt.Sprintf("%d", s.opts.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", s.opts.Encoder,
	}
	args = append(args, qualityArgs(s.opts.Encoder, s.opts.Quality)...)
	args = append(args, s.opts.Output)
	return args
}

// qualityArgs picks the rate-control flag the encoder actually understands.
func qualityArgs(encoder string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		// VideoToolbox has spotty -q:v support, bitrate is reliable.
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default:
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

func (s *FFmpegSink) WriteFrame(ctx context.Context, frame *compositor.Frame) error {
	if s.closed {
		return fmt.Errorf("write to closed encoder")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeRawRGBA(s.stdin, frame.Image)
}

// Close flushes stdin and waits for ffmpeg to finish the file.
func (s *FFmpegSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %v, output: %s", err, s.stderr.String())
	}
	return nil
}

func writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}

// AudioTrack is one narration clip placed at Offset seconds on the
// final timeline.
type AudioTrack struct {
	Path   string
	Offset float64
}

// Mux overlays the audio tracks onto an already encoded video. Each
// track is delayed to its page start and the set is mixed into one
// stream; the video is stream-copied.
func Mux(ctx context.Context, videoPath string, tracks []AudioTrack, outPath string) error {
	if len(tracks) == 0 {
		return fmt.Errorf("no audio tracks to mux")
	}

	args := []string{"-y", "-i", videoPath}
	for _, t := range tracks {
		args = append(args, "-i", t.Path)
	}

	var graph strings.Builder
	if len(tracks) == 1 {
		fmt.Fprintf(&graph, "[1:a]adelay=%d:all=1[aout]", int(tracks[0].Offset*1000))
	} else {
		labels := make([]string, 0, len(tracks))
		for i, t := range tracks {
			label := fmt.Sprintf("[a%d]", i)
			fmt.Fprintf(&graph, "[%d:a]adelay=%d:all=1%s;", i+1, int(t.Offset*1000), label)
			labels = append(labels, label)
		}
		for _, l := range labels {
			graph.WriteString(l)
		}
		fmt.Fprintf(&graph, "amix=inputs=%d:duration=longest:dropout_transition=0:normalize=0[aout]", len(tracks))
	}

	args = append(args,
		"-filter_complex", graph.String(),
		"-map", "0:v",
		"-map", "[aout]",
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		outPath,
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg mux error: %v, output: %s", err, string(out))
	}
	return nil
}
