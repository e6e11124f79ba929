// Package summarizer provides summary generation for composition results.
package summarizer

import "time"

// Summary contains all data collected during a composition run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Script information
	Script ScriptInfo

	// Composition settings
	Settings Settings

	// Output details
	Output OutputInfo

	// Codec support reported by the runtime probe
	Capability []CodecSupportInfo
}

// ScriptInfo describes the scene script that was composed.
type ScriptInfo struct {
	Path            string
	SceneCount      int
	TotalDurationMs int
}

// Settings contains the composition configuration.
type Settings struct {
	FPS           float64
	SettleDelayMs int

	// Encoding quality (CRF 0-63, 0 = codec default)
	Quality int
	// Target bitrate in kbps (0 = codec default)
	Bitrate int

	// Codec preference order, empty = selector default
	Preference []string
}

// OutputInfo contains information about the produced artifact.
type OutputInfo struct {
	Path       string
	Codec      string
	Container  string
	MediaType  string
	FrameCount int
	DurationMs int
	FileSize   int64
	Width      int
	Height     int

	// Fallback is true when a static storyboard replaced the video.
	Fallback bool
}

// CodecSupportInfo is one row of the runtime capability report.
type CodecSupportInfo struct {
	Codec     string
	Container string
	Supported bool
	Detail    string
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithScript sets script information.
func (b *Builder) WithScript(path string, sceneCount, totalDurationMs int) *Builder {
	b.summary.Script = ScriptInfo{
		Path:            path,
		SceneCount:      sceneCount,
		TotalDurationMs: totalDurationMs,
	}
	return b
}

// WithSettings sets composition settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithOutput sets output information.
func (b *Builder) WithOutput(output OutputInfo) *Builder {
	b.summary.Output = output
	return b
}

// WithFallback marks the output as a storyboard fallback.
func (b *Builder) WithFallback(fallback bool) *Builder {
	b.summary.Output.Fallback = fallback
	return b
}

// WithCapability sets the runtime capability report.
func (b *Builder) WithCapability(rows []CodecSupportInfo) *Builder {
	b.summary.Capability = rows
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
