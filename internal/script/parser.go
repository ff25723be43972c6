package script

import (
	"fmt"
	"os"
	"strings"
)

// Parse splits simple script text into pages. Pages are separated by blank
// lines, every non-empty line becomes one segment, and a line wrapped in
// **double asterisks** is marked highlighted.
func Parse(content string) (*Script, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var s Script
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		var segments []Segment
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			segments = append(segments, parseLine(line))
		}
		if len(segments) == 0 {
			continue
		}

		s.Pages = append(s.Pages, Page{
			Index:    len(s.Pages) + 1,
			Segments: segments,
		})
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseFile reads and parses a script file.
func ParseFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	return Parse(string(data))
}

func parseLine(line string) Segment {
	if strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") && len(line) > 4 {
		return Segment{
			Text:        strings.TrimSpace(line[2 : len(line)-2]),
			Highlighted: true,
		}
	}
	return Segment{Text: line}
}
