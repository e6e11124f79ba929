// Package scene defines the scene script data model for video composition.
package scene

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Validation errors.
var (
	ErrNoScenes    = errors.New("scene: scene list is empty")
	ErrBadDuration = errors.New("scene: duration must be a positive number of seconds")
)

// Scene is one narrated beat of a video script. The renderer composes a
// single frame from it and the timeline holds that frame on screen for
// DurationSeconds.
type Scene struct {
	ID              string  `yaml:"id" json:"id"`
	Title           string  `yaml:"title" json:"title"`
	Narration       string  `yaml:"narration" json:"narration"`
	VisualDirection string  `yaml:"visual_direction" json:"visual_direction"`
	DurationSeconds float64 `yaml:"duration_seconds" json:"duration_seconds"`
}

// Duration returns the on-screen hold time of the scene.
func (s Scene) Duration() time.Duration {
	return time.Duration(s.DurationSeconds * float64(time.Second))
}

// Label returns a short identifier for logs: the ID when set, otherwise
// a trimmed title.
func (s Scene) Label() string {
	if s.ID != "" {
		return s.ID
	}
	title := strings.TrimSpace(s.Title)
	if len(title) > 24 {
		return title[:24]
	}
	return title
}

// Validate checks that the scene can be scheduled on a timeline.
func (s Scene) Validate() error {
	if s.DurationSeconds <= 0 || math.IsNaN(s.DurationSeconds) || math.IsInf(s.DurationSeconds, 0) {
		return fmt.Errorf("%w: got %v", ErrBadDuration, s.DurationSeconds)
	}
	return nil
}

// ValidateList checks that the list is non-empty and every scene is valid.
func ValidateList(scenes []Scene) error {
	if len(scenes) == 0 {
		return ErrNoScenes
	}
	for i, s := range scenes {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("scene %d (%s): %w", i, s.Label(), err)
		}
	}
	return nil
}

// TotalDuration sums the hold durations of all scenes.
func TotalDuration(scenes []Scene) time.Duration {
	var total time.Duration
	for _, s := range scenes {
		total += s.Duration()
	}
	return total
}

// document is the top-level YAML layout of a scene script file.
type document struct {
	Scenes []Scene `yaml:"scenes"`
}

// ParseList parses a YAML scene script. The document must carry its
// scenes under a top-level "scenes" key.
func ParseList(data []byte) ([]Scene, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("scene: failed to parse scene script: %w", err)
	}
	if err := ValidateList(doc.Scenes); err != nil {
		return nil, err
	}
	return doc.Scenes, nil
}
