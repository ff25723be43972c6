package script

import (
	"testing"
)

func TestParse(t *testing.T) {
	content := "**Big opener**\nsecond line\n\npage two text\n\n\nlast page"

	s, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(s.Pages) != 3 {
		t.Fatalf("Expected 3 pages, got %d", len(s.Pages))
	}

	first := s.Pages[0]
	if !first.IsFirst() {
		t.Error("Page 1 should report IsFirst")
	}
	if len(first.Segments) != 2 {
		t.Fatalf("Expected 2 segments on page 1, got %d", len(first.Segments))
	}
	if !first.Segments[0].Highlighted || first.Segments[0].Text != "Big opener" {
		t.Errorf("Expected highlighted segment 'Big opener', got %+v", first.Segments[0])
	}
	if first.Segments[1].Highlighted {
		t.Error("Plain line should not be highlighted")
	}

	if first.Text() != "Big opener\nsecond line" {
		t.Errorf("Unexpected page text: %q", first.Text())
	}
	if first.CharCount() != len([]rune("Big opener"))+len([]rune("second line")) {
		t.Errorf("CharCount should skip line breaks, got %d", first.CharCount())
	}

	if s.Pages[2].Index != 3 {
		t.Errorf("Expected index 3 on last page, got %d", s.Pages[2].Index)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, content := range []string{"", "\n\n\n", "   \n\n  "} {
		if _, err := Parse(content); err == nil {
			t.Errorf("Expected error for empty script %q", content)
		}
	}
}

func TestParseHighlightEdgeCases(t *testing.T) {
	tests := []struct {
		line        string
		text        string
		highlighted bool
	}{
		{"**x**", "x", true},
		{"****", "****", false}, // too short to be a marker
		{"**spaced  out**", "spaced  out", true},
		{"*single*", "*single*", false},
		{"plain", "plain", false},
	}

	for _, tt := range tests {
		seg := parseLine(tt.line)
		if seg.Text != tt.text || seg.Highlighted != tt.highlighted {
			t.Errorf("parseLine(%q) = %+v, expected {%q %v}", tt.line, seg, tt.text, tt.highlighted)
		}
	}
}
