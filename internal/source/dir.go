package source

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
)

// DirProvider serves pre-made images from a directory in filename order,
// one per page, cycling when the script is longer than the file list.
type DirProvider struct {
	paths []string
}

// NewDirProvider lists the usable images under path. A single file is
// treated as a one-image directory.
func NewDirProvider(path string) (*DirProvider, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch filepath.Ext(entry.Name()) {
			case ".jpg", ".jpeg", ".png":
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
	} else {
		paths = []string{path}
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no images found in %s", path)
	}
	return &DirProvider{paths: paths}, nil
}

func (p *DirProvider) Image(ctx context.Context, pageIndex int, prompt string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := p.paths[(pageIndex-1)%len(p.paths)]
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func (p *DirProvider) Close() error { return nil }
