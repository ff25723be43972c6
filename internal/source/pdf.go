package source

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// PDFProvider rasterizes the pages of a PDF as backgrounds, cycling when
// the script has more pages than the document.
type PDFProvider struct {
	path  string
	pages int
	dpi   int
}

// NewPDFProvider opens the document once to count pages and validate it.
func NewPDFProvider(path string, dpi int) (*PDFProvider, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages == 0 {
		return nil, fmt.Errorf("pdf %s has no pages", path)
	}
	if dpi <= 0 {
		dpi = 150
	}
	return &PDFProvider{path: path, pages: pages, dpi: dpi}, nil
}

func (p *PDFProvider) Image(ctx context.Context, pageIndex int, prompt string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// go-fitz documents are not safe to share, so open per call.
	doc, err := fitz.New(p.path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	return doc.ImageDPI((pageIndex-1)%p.pages, float64(p.dpi))
}

func (p *PDFProvider) Close() error { return nil }
