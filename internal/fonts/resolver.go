package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Weight is a requested font weight. The resolver walks down from the
// requested weight through lighter ones before reaching the built-in
// fallback, so resolution never fails outward.
type Weight int

const (
	WeightRegular Weight = iota
	WeightBold
	WeightExtraBold
)

func (w Weight) String() string {
	switch w {
	case WeightExtraBold:
		return "ExtraBold"
	case WeightBold:
		return "Bold"
	default:
		return "Regular"
	}
}

// Handle is a parsed font ready to produce faces. Faces are cached per
// size; font availability is static for the process lifetime.
type Handle struct {
	Name     string
	Builtin  bool // true when this is the embedded fallback face
	fnt      *sfnt.Font
	mu       sync.Mutex
	faces    map[float64]font.Face
}

// Face returns a rasterizing face at the given pixel size.
func (h *Handle) Face(sizePx float64) (font.Face, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if f, ok := h.faces[sizePx]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(h.fnt, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face for %s at %.1fpx: %w", h.Name, sizePx, err)
	}
	if h.faces == nil {
		h.faces = map[float64]font.Face{}
	}
	h.faces[sizePx] = f
	return f, nil
}

// UnavailableError reports that the preferred fonts of a chain were
// missing and the resolver fell through. It is a warning, never fatal:
// the accompanying Handle is still usable.
type UnavailableError struct {
	Family string
	Weight Weight
	Tried  []string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("font %s %s unavailable (tried %s), using fallback",
		e.Family, e.Weight, strings.Join(e.Tried, ", "))
}

// Resolver resolves weights to handles via an ordered fallback chain and
// caches the result process-wide per weight.
type Resolver struct {
	dir    string
	family string

	mu    sync.Mutex
	cache map[Weight]*resolved
}

type resolved struct {
	handle *Handle
	warn   *UnavailableError
}

// NewResolver creates a resolver rooted at dir for the given family.
// An empty dir means only the embedded fallback is available.
func NewResolver(dir, family string) *Resolver {
	return &Resolver{dir: dir, family: family, cache: map[Weight]*resolved{}}
}

// Resolve returns the best available handle for the weight. The returned
// handle is never nil; a non-nil *UnavailableError means every preferred
// font in the chain was missing and the embedded face is in use.
func (r *Resolver) Resolve(w Weight) (*Handle, *UnavailableError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if got, ok := r.cache[w]; ok {
		return got.handle, got.warn
	}

	var tried []string
	for _, cand := range r.chain(w) {
		h, err := r.loadFile(cand)
		if err != nil {
			tried = append(tried, filepath.Base(cand))
			continue
		}
		r.cache[w] = &resolved{handle: h}
		return h, nil
	}

	h := builtinHandle(w)
	warn := &UnavailableError{Family: r.family, Weight: w, Tried: tried}
	r.cache[w] = &resolved{handle: h, warn: warn}
	return h, warn
}

// chain lists candidate font files from the requested weight down.
func (r *Resolver) chain(w Weight) []string {
	if r.dir == "" || r.family == "" {
		return nil
	}
	weights := []string{"Regular"}
	switch w {
	case WeightExtraBold:
		weights = []string{"ExtraBold", "Bold", "Regular"}
	case WeightBold:
		weights = []string{"Bold", "Regular"}
	}

	var out []string
	for _, name := range weights {
		for _, ext := range []string{".ttf", ".otf"} {
			out = append(out, filepath.Join(r.dir, r.family+"-"+name+ext))
		}
	}
	return out
}

func (r *Resolver) loadFile(path string) (*Handle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return &Handle{Name: filepath.Base(path), fnt: fnt}, nil
}

func builtinHandle(w Weight) *Handle {
	data := goregular.TTF
	name := "Go Regular"
	if w == WeightBold || w == WeightExtraBold {
		data = gobold.TTF
		name = "Go Bold"
	}
	// The embedded Go fonts always parse.
	fnt, _ := opentype.Parse(data)
	return &Handle{Name: name, Builtin: true, fnt: fnt}
}
