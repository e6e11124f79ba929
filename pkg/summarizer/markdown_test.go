package summarizer

import (
	"strings"
	"testing"
	"time"
)

func TestMarkdownFormatter_Format_Basic(t *testing.T) {
	formatter := NewMarkdownFormatter()

	summary := &Summary{
		GeneratedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Script: ScriptInfo{
			Path:            "clips/launch.yaml",
			SceneCount:      6,
			TotalDurationMs: 14500,
		},
		Settings: Settings{
			FPS:           5.0,
			SettleDelayMs: 200,
			Quality:       28,
			Bitrate:       2500,
			Preference:    []string{"hevc", "h264"},
		},
		Output: OutputInfo{
			Path:       "launch.mp4",
			Codec:      "h264",
			Container:  "mp4",
			MediaType:  `video/mp4; codecs="avc1.42C01F"`,
			FrameCount: 72,
			DurationMs: 14400,
			FileSize:   1024 * 1024, // 1 MB
			Width:      720,
			Height:     1280,
		},
		Capability: []CodecSupportInfo{
			{Codec: "hevc", Container: "mp4", Supported: false, Detail: "ffmpeg not found"},
			{Codec: "h264", Container: "mp4", Supported: true, Detail: "libx264"},
		},
	}

	result := formatter.Format(summary)

	// Check required sections
	checks := []string{
		"# Composition Summary",
		"2024-01-15 10:30:00 UTC",
		"clips/launch.yaml",
		"- Scenes: 6",
		"14.5 s",     // Content duration
		"launch.mp4", // Output file
		"h264 (mp4)", // Codec
		"- Frames: 72",
		"14400 ms", // Video duration
		"1.00 MB",  // Size
		"720x1280", // Surface
		"5.0 fps",
		"200 ms",    // Settle delay
		"2500 kbps", // Bitrate
		"hevc, h264",
		"not available (ffmpeg not found)",
		"available (libx264)",
	}

	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
}

func TestMarkdownFormatter_Format_Defaults(t *testing.T) {
	formatter := NewMarkdownFormatter()

	summary := &Summary{
		GeneratedAt: time.Now(),
		Script:      ScriptInfo{SceneCount: 2, TotalDurationMs: 4000},
		Settings:    Settings{FPS: 5.0},
	}

	result := formatter.Format(summary)

	// Zero quality and bitrate fall back to codec defaults.
	if !strings.Contains(result, "Quality (CRF): codec default") {
		t.Error("expected codec default quality")
	}
	if !strings.Contains(result, "Bitrate: codec default") {
		t.Error("expected codec default bitrate")
	}
	// Empty preference list means automatic selection.
	if !strings.Contains(result, "Codec preference: auto") {
		t.Error("expected automatic codec preference")
	}
	// No codec recorded yet.
	if !strings.Contains(result, "Codec: N/A") {
		t.Error("expected 'N/A' for missing codec")
	}
}

func TestMarkdownFormatter_Format_Fallback(t *testing.T) {
	formatter := NewMarkdownFormatter()

	summary := &Summary{
		GeneratedAt: time.Now(),
		Script:      ScriptInfo{SceneCount: 4, TotalDurationMs: 10000},
		Output: OutputInfo{
			Path:     "launch.png",
			FileSize: 2048,
			Fallback: true,
		},
	}

	result := formatter.Format(summary)

	if !strings.Contains(result, "storyboard fallback") {
		t.Error("expected output to mention the storyboard fallback")
	}
	// A fallback has no codec; the N/A row would only add noise.
	if strings.Contains(result, "N/A") {
		t.Error("fallback output should not contain 'N/A'")
	}
	if !strings.Contains(result, "2.00 KB") {
		t.Error("expected formatted sheet size")
	}
}

func TestMarkdownFormatter_WithTranslator(t *testing.T) {
	translator := func(key string) string {
		translations := map[string]string{
			"Composition Summary": "構成サマリー",
			"Scenes":              "シーン数",
			"storyboard fallback": "ストーリーボード代替",
		}
		if v, ok := translations[key]; ok {
			return v
		}
		return key
	}

	formatter := NewMarkdownFormatter(WithTranslator(translator))

	summary := &Summary{
		GeneratedAt: time.Now(),
		Script:      ScriptInfo{SceneCount: 1, TotalDurationMs: 2000},
		Output:      OutputInfo{Fallback: true},
	}

	result := formatter.Format(summary)

	if !strings.Contains(result, "構成サマリー") {
		t.Error("expected translated 'Composition Summary'")
	}
	if !strings.Contains(result, "シーン数") {
		t.Error("expected translated 'Scenes'")
	}
	if !strings.Contains(result, "ストーリーボード代替") {
		t.Error("expected translated 'storyboard fallback'")
	}
}

func TestMarkdownFormatter_WithVersion(t *testing.T) {
	formatter := NewMarkdownFormatter(WithVersion("v1.2.0"))

	summary := &Summary{
		GeneratedAt: time.Now(),
		Script:      ScriptInfo{SceneCount: 1, TotalDurationMs: 2000},
	}

	result := formatter.Format(summary)

	if !strings.Contains(result, "v1.2.0") {
		t.Error("expected output to contain version 'v1.2.0'")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{5 * 1024 * 1024, "5.00 MB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
