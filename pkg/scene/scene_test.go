package scene

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseList(t *testing.T) {
	yaml := `
scenes:
  - id: hook
    title: "The 3-Second Rule"
    narration: "Viewers decide in three seconds whether to keep watching."
    visual_direction: "bold countdown over a dark gradient"
    duration_seconds: 2.5
  - id: payoff
    title: "Front-load the Value"
    narration: "Open with the outcome, then explain how."
    duration_seconds: 4
`
	scenes, err := ParseList([]byte(yaml))
	if err != nil {
		t.Fatalf("ParseList failed: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(scenes))
	}
	if scenes[0].ID != "hook" {
		t.Errorf("expected first scene id 'hook', got %q", scenes[0].ID)
	}
	if scenes[0].VisualDirection != "bold countdown over a dark gradient" {
		t.Errorf("unexpected visual direction: %q", scenes[0].VisualDirection)
	}
	if scenes[1].Duration() != 4*time.Second {
		t.Errorf("expected 4s duration, got %v", scenes[1].Duration())
	}
}

func TestParseListErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "empty document",
			input:   "",
			wantErr: ErrNoScenes,
		},
		{
			name:    "empty scenes key",
			input:   "scenes: []",
			wantErr: ErrNoScenes,
		},
		{
			name: "zero duration",
			input: `
scenes:
  - title: "Broken"
    duration_seconds: 0
`,
			wantErr: ErrBadDuration,
		},
		{
			name: "negative duration",
			input: `
scenes:
  - title: "Broken"
    duration_seconds: -1.5
`,
			wantErr: ErrBadDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseList([]byte(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseListMalformedYAML(t *testing.T) {
	_, err := ParseList([]byte("scenes: [unclosed"))
	if err == nil {
		t.Fatal("expected parse error for malformed YAML")
	}
}

func TestSceneValidate(t *testing.T) {
	ok := Scene{Title: "Fine", DurationSeconds: 0.5}
	if err := ok.Validate(); err != nil {
		t.Errorf("expected valid scene, got %v", err)
	}

	bad := Scene{Title: "NaN hold"}
	bad.DurationSeconds = 0
	if err := bad.Validate(); !errors.Is(err, ErrBadDuration) {
		t.Errorf("expected ErrBadDuration, got %v", err)
	}
}

func TestValidateListReportsPosition(t *testing.T) {
	scenes := []Scene{
		{ID: "a", DurationSeconds: 1},
		{ID: "b", DurationSeconds: -2},
	}
	err := ValidateList(scenes)
	if !errors.Is(err, ErrBadDuration) {
		t.Fatalf("expected ErrBadDuration, got %v", err)
	}
	if got := err.Error(); !strings.Contains(got, "scene 1") || !strings.Contains(got, "b") {
		t.Errorf("error should name the offending scene, got %q", got)
	}
}

func TestTotalDuration(t *testing.T) {
	scenes := []Scene{
		{DurationSeconds: 1},
		{DurationSeconds: 2.5},
	}
	if got := TotalDuration(scenes); got != 3500*time.Millisecond {
		t.Errorf("expected 3.5s, got %v", got)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		sc   Scene
		want string
	}{
		{"id wins", Scene{ID: "hook", Title: "Something"}, "hook"},
		{"title fallback", Scene{Title: "Short"}, "Short"},
		{"long title trimmed", Scene{Title: "This title keeps going well past the cut"}, "This title keeps going w"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sc.Label(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
