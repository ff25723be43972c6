package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gobold"
)

func TestResolveFallsBackToBuiltin(t *testing.T) {
	r := NewResolver(t.TempDir(), "Missing")

	h, warn := r.Resolve(WeightExtraBold)
	if h == nil {
		t.Fatal("Resolve must never return a nil handle")
	}
	if !h.Builtin {
		t.Error("Expected the embedded fallback for a missing family")
	}
	if warn == nil {
		t.Fatal("Expected an UnavailableError warning")
	}
	if len(warn.Tried) == 0 {
		t.Error("Warning should list the tried candidates")
	}

	face, err := h.Face(64)
	if err != nil {
		t.Fatalf("Fallback face failed: %v", err)
	}
	if face == nil {
		t.Fatal("Expected a usable face")
	}
}

func TestResolveWalksChain(t *testing.T) {
	dir := t.TempDir()
	// Only the Bold file exists; an ExtraBold request should land on it.
	boldPath := filepath.Join(dir, "Test-Bold.ttf")
	if err := os.WriteFile(boldPath, gobold.TTF, 0644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(dir, "Test")
	h, warn := r.Resolve(WeightExtraBold)
	if warn != nil {
		t.Errorf("A chain hit should not warn: %v", warn)
	}
	if h.Builtin {
		t.Error("Expected the on-disk Bold file, not the builtin")
	}
	if h.Name != "Test-Bold.ttf" {
		t.Errorf("Expected Test-Bold.ttf, got %s", h.Name)
	}
}

func TestResolveIsCached(t *testing.T) {
	r := NewResolver("", "")

	a, _ := r.Resolve(WeightRegular)
	b, _ := r.Resolve(WeightRegular)
	if a != b {
		t.Error("Repeated resolution should return the cached handle")
	}

	// Faces are cached per size too.
	f1, err := a.Face(48)
	if err != nil {
		t.Fatal(err)
	}
	f2, _ := a.Face(48)
	if f1 != f2 {
		t.Error("Faces of the same size should be cached")
	}
}

func TestBuiltinWeights(t *testing.T) {
	r := NewResolver("", "")

	reg, _ := r.Resolve(WeightRegular)
	bold, _ := r.Resolve(WeightBold)
	if reg.Name != "Go Regular" {
		t.Errorf("Expected Go Regular, got %s", reg.Name)
	}
	if bold.Name != "Go Bold" {
		t.Errorf("Expected Go Bold, got %s", bold.Name)
	}
}
