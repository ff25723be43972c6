package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Storyboard is a YAML record of how the render was timed, one entry per
// rendered page. It is written for inspection and debugging, not read
// back by the engine.
type Storyboard struct {
	Version string           `yaml:"version"`
	Pages   []StoryboardPage `yaml:"pages"`
}

type StoryboardPage struct {
	Index          int     `yaml:"index"`
	Duration       float64 `yaml:"duration"`
	Frames         int     `yaml:"frames"`
	FirstFrame     int64   `yaml:"first_frame"`
	Chars          int     `yaml:"chars"`
	RevealDuration float64 `yaml:"reveal_duration"`
	Pan            bool    `yaml:"pan"`
}

// WriteStoryboard saves the storyboard to a YAML file.
func WriteStoryboard(sb *Storyboard, path string) error {
	data, err := yaml.Marshal(sb)
	if err != nil {
		return fmt.Errorf("marshal storyboard: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
