package source

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"time"
)

const generateAttempts = 3

// GenerateProvider turns each page's text into a background via an
// image-generation HTTP endpoint (Pollinations-style: the prompt is part
// of the URL, the response body is the image).
type GenerateProvider struct {
	baseURL string
	width   int
	height  int
	client  *http.Client
}

// NewGenerateProvider creates a provider against the given endpoint.
func NewGenerateProvider(baseURL string, width, height int) *GenerateProvider {
	return &GenerateProvider{
		baseURL: baseURL,
		width:   width,
		height:  height,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *GenerateProvider) Image(ctx context.Context, pageIndex int, prompt string) (image.Image, error) {
	// Deterministic seed per page so a re-run produces the same imagery.
	reqURL := fmt.Sprintf("%s/prompt/%s?width=%d&height=%d&nologo=true&seed=%d",
		p.baseURL, url.PathEscape(prompt), p.width, p.height, pageIndex*42+7)

	var lastErr error
	for attempt := 1; attempt <= generateAttempts; attempt++ {
		img, err := p.fetch(ctx, reqURL)
		if err == nil {
			return img, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("generate image for page %d: %w", pageIndex, lastErr)
}

func (p *GenerateProvider) fetch(ctx context.Context, reqURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode generated image: %w", err)
	}
	return img, nil
}

func (p *GenerateProvider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
