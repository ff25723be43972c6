package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/shortsai/shortsgen/internal/config"
	"github.com/shortsai/shortsgen/internal/engine"
	"github.com/shortsai/shortsgen/internal/script"
	"github.com/shortsai/shortsgen/internal/source"
	"github.com/shortsai/shortsgen/internal/system"
	"github.com/shortsai/shortsgen/internal/uploader"
	"github.com/shortsai/shortsgen/internal/video"
	"github.com/shortsai/shortsgen/internal/voice"
)

func main() {
	system.InitResourceLimits()

	// API keys and upload credentials live in .env when present.
	godotenv.Load()

	scriptPtr := flag.String("script", "", "Path to the script text file (pages separated by blank lines)")
	configPtr := flag.String("config", "", "Path to a YAML config (defaults used when empty)")
	outputPtr := flag.String("output", "", "Path to the final video (auto-generated when empty)")
	imagesPtr := flag.String("images", "", "Background source: a directory, a .pdf, or empty for generated images")
	framesPtr := flag.String("frames-dir", "", "Dump raw frames as PNGs here instead of encoding")
	storyboardPtr := flag.Bool("storyboard", false, "Write a timing storyboard YAML next to the output")
	uploadPtr := flag.Bool("upload", false, "Upload the result to YouTube and write a QR code")
	titlePtr := flag.String("title", "", "Video title for upload (default: script file name)")
	widthPtr := flag.Int("width", 0, "Canvas width override")
	heightPtr := flag.Int("height", 0, "Canvas height override")
	fpsPtr := flag.Int("fps", 0, "Frame rate override")
	workersPtr := flag.Int("workers", 0, "Asset prep parallelism (0 = auto)")
	qualityPtr := flag.Int("quality", 0, "Encoder quality (0 = auto per encoder)")

	flag.Parse()

	if *scriptPtr == "" {
		log.Fatal("[-] A script file is required: -script path/to/script.txt")
	}

	cfg := config.Default()
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			log.Fatalf("[-] Config error: %v", err)
		}
		cfg = loaded
	}
	applyOverrides(cfg, *widthPtr, *heightPtr, *fpsPtr, *workersPtr, *imagesPtr)

	s, err := script.ParseFile(*scriptPtr)
	if err != nil {
		log.Fatalf("[-] Script error: %v", err)
	}
	fmt.Printf("[*] Script: %d pages\n", len(s.Pages))

	ctx := context.Background()

	runID := uuid.New().String()[:8]
	tmpDir := filepath.Join(cfg.Output.TempDirectory, "run_"+runID)
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		log.Fatalf("[-] Temp dir error: %v", err)
	}
	if !cfg.Output.KeepTempFiles {
		defer os.RemoveAll(tmpDir)
	}

	provider, err := newProvider(cfg)
	if err != nil {
		log.Fatalf("[-] Image source error: %v", err)
	}
	defer provider.Close()

	tracks, err := prepareAssets(ctx, cfg, s, provider, tmpDir)
	if err != nil {
		log.Fatalf("[-] Asset preparation error: %v", err)
	}

	finalOutput := *outputPtr
	if finalOutput == "" {
		base := strings.TrimSuffix(filepath.Base(*scriptPtr), filepath.Ext(*scriptPtr))
		base = strings.ReplaceAll(base, " ", "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		if err := os.MkdirAll(cfg.Output.Directory, 0o755); err != nil {
			log.Fatalf("[-] Output dir error: %v", err)
		}
		finalOutput = filepath.Join(cfg.Output.Directory, fmt.Sprintf("%s_%s.mp4", base, timestamp))
	}

	report, err := render(ctx, cfg, s, tracks, tmpDir, finalOutput, *framesPtr, *qualityPtr)
	if err != nil {
		log.Fatalf("[-] Render error: %v", err)
	}

	for _, w := range report.Warnings {
		if w.Page > 0 {
			fmt.Printf("[!] Page %d: %s\n", w.Page, w.Message)
		} else {
			fmt.Printf("[!] %s\n", w.Message)
		}
	}
	fmt.Printf("[*] Rendered %d frames (%.2fs), %d pages, %d skipped\n",
		report.Frames, report.Duration, report.Pages, report.Skipped)

	if *storyboardPtr {
		sbPath := strings.TrimSuffix(finalOutput, filepath.Ext(finalOutput)) + "_storyboard.yaml"
		if err := engine.WriteStoryboard(report.Storyboard, sbPath); err != nil {
			log.Printf("[!] Storyboard write failed: %v", err)
		} else {
			fmt.Printf("[*] Storyboard: %s\n", sbPath)
		}
	}

	if *framesPtr != "" {
		fmt.Printf("[+++] Done! Frames in %s\n", *framesPtr)
		return
	}
	fmt.Printf("[+++] Done! Result: %s\n", finalOutput)

	if *uploadPtr {
		title := *titlePtr
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(*scriptPtr), filepath.Ext(*scriptPtr))
		}
		upload(ctx, cfg, finalOutput, title)
	}
}

func applyOverrides(cfg *config.Config, width, height, fps, workers int, images string) {
	if width > 0 {
		cfg.Video.Width = width
	}
	if height > 0 {
		cfg.Video.Height = height
	}
	if fps > 0 {
		cfg.Video.FPS = fps
	}
	if workers > 0 {
		cfg.Video.Workers = workers
	}
	if images != "" {
		if strings.HasSuffix(strings.ToLower(images), ".pdf") {
			cfg.Images.Provider = "pdf"
		} else {
			cfg.Images.Provider = "dir"
		}
		cfg.Images.Path = images
	}
}

func newProvider(cfg *config.Config) (source.Provider, error) {
	switch cfg.Images.Provider {
	case "dir":
		return source.NewDirProvider(cfg.Images.Path)
	case "pdf":
		return source.NewPDFProvider(cfg.Images.Path, cfg.Images.DPI)
	case "generate":
		return source.NewGenerateProvider(cfg.Images.BaseURL, cfg.Video.Width, cfg.Video.Height), nil
	default:
		return nil, fmt.Errorf("unknown image provider %q", cfg.Images.Provider)
	}
}

// prepareAssets fetches a background image and synthesizes narration for
// every page in parallel, then lays the finished clips out on the final
// timeline. Pages keep their script order regardless of completion order.
func prepareAssets(ctx context.Context, cfg *config.Config, s *script.Script, provider source.Provider, tmpDir string) ([]video.AudioTrack, error) {
	synth := voice.New(cfg.Voice)
	audioPaths := make([]string, len(s.Pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(system.Workers(cfg.Video.Workers))

	for i := range s.Pages {
		page := &s.Pages[i]
		audioPath := filepath.Join(tmpDir, fmt.Sprintf("page_%03d.wav", page.Index))
		audioPaths[i] = audioPath

		g.Go(func() error {
			img, err := provider.Image(gctx, page.Index, page.Text())
			if err != nil {
				// The engine substitutes a placeholder and warns.
				log.Printf("[!] Page %d image: %v", page.Index, err)
			} else {
				page.Image = img
			}

			dur, err := synth.SynthesizeFile(gctx, page.Text(), audioPath)
			if err != nil {
				log.Printf("[!] Page %d voice: %v, using silent track", page.Index, err)
				dur = voice.EstimateDuration(page.CharCount())
				if werr := os.WriteFile(audioPath, voice.SilentWAV(dur), 0o644); werr != nil {
					return fmt.Errorf("page %d silent track: %w", page.Index, werr)
				}
			}
			page.AudioDuration = dur
			fmt.Printf("[>] Page %d assets ready (%.2fs narration)\n", page.Index, dur)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Narration starts after the page's lead-in padding; page starts
	// accumulate the padded display durations.
	tracks := make([]video.AudioTrack, 0, len(s.Pages))
	offset := 0.0
	for i, page := range s.Pages {
		if page.AudioDuration <= 0 {
			continue
		}
		display := page.AudioDuration + 2*cfg.Animation.PaddingSeconds
		tracks = append(tracks, video.AudioTrack{
			Path:   audioPaths[i],
			Offset: offset + cfg.Animation.PaddingSeconds,
		})
		offset += display
	}
	return tracks, nil
}

func render(ctx context.Context, cfg *config.Config, s *script.Script, tracks []video.AudioTrack, tmpDir, finalOutput, framesDir string, quality int) (*engine.Report, error) {
	project := engine.NewProject(cfg)

	if framesDir != "" {
		sink, err := video.NewPNGSink(framesDir)
		if err != nil {
			return nil, err
		}
		report, err := project.Render(ctx, s, sink)
		if err != nil {
			return nil, err
		}
		return report, sink.Close()
	}

	encoder := cfg.Video.Encoder
	if encoder == "" || encoder == "auto" {
		encoder = system.BestH264Encoder()
		if encoder != "libx264" {
			fmt.Printf("[*] Hardware encoder detected: %s\n", encoder)
		}
	}
	if quality == 0 {
		quality = cfg.Video.Quality
	}
	if quality == 0 {
		quality = system.DefaultQuality(encoder)
	}

	silentPath := filepath.Join(tmpDir, "video_silent.mp4")
	sink, err := video.NewFFmpegSink(ctx, video.FFmpegOptions{
		Width:   cfg.Video.Width,
		Height:  cfg.Video.Height,
		FPS:     cfg.Video.FPS,
		Encoder: encoder,
		Quality: quality,
		Output:  silentPath,
	})
	if err != nil {
		return nil, err
	}

	report, err := project.Render(ctx, s, sink)
	closeErr := sink.Close()
	if err != nil {
		return nil, err
	}
	if closeErr != nil {
		return nil, closeErr
	}

	if len(tracks) == 0 {
		return report, os.Rename(silentPath, finalOutput)
	}

	fmt.Printf("[*] Muxing %d narration tracks\n", len(tracks))
	if err := video.Mux(ctx, silentPath, tracks, finalOutput); err != nil {
		return nil, err
	}
	return report, nil
}

func upload(ctx context.Context, cfg *config.Config, videoPath, title string) {
	up := uploader.New(cfg.Upload)
	_, url, err := up.Upload(ctx, videoPath, uploader.Metadata{
		Title:      title,
		Tags:       cfg.Upload.Tags,
		CategoryID: cfg.Upload.CategoryID,
		Privacy:    cfg.Upload.Privacy,
	})
	if err != nil {
		log.Printf("[!] Upload failed: %v", err)
		return
	}

	qrPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + "_qr.png"
	if err := uploader.WriteQR(url, qrPath); err != nil {
		log.Printf("[!] QR write failed: %v", err)
	} else {
		fmt.Printf("[*] QR code: %s\n", qrPath)
	}
}
