package summarizer

import (
	"fmt"
	"strings"
)

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets a translation function for labels and phrases.
func WithTranslator(translate func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = translate
	}
}

// WithVersion includes the program version in the header line.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// NewMarkdownFormatter creates a Markdown formatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format converts a Summary to a Markdown string.
func (f *MarkdownFormatter) Format(summary *Summary) string {
	var b strings.Builder
	t := f.translate

	fmt.Fprintf(&b, "# %s\n\n", t("Composition Summary"))
	stamp := summary.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")
	if f.version != "" {
		fmt.Fprintf(&b, "%s: %s (scenecast %s)\n\n", t("Generated"), stamp, f.version)
	} else {
		fmt.Fprintf(&b, "%s: %s\n\n", t("Generated"), stamp)
	}

	fmt.Fprintf(&b, "## %s\n\n", t("Script"))
	if summary.Script.Path != "" {
		fmt.Fprintf(&b, "- %s: %s\n", t("Source"), summary.Script.Path)
	}
	fmt.Fprintf(&b, "- %s: %d\n", t("Scenes"), summary.Script.SceneCount)
	fmt.Fprintf(&b, "- %s: %s\n", t("Content duration"), formatSeconds(summary.Script.TotalDurationMs))
	b.WriteString("\n")

	out := summary.Output
	fmt.Fprintf(&b, "## %s\n\n", t("Output"))
	if out.Fallback {
		fmt.Fprintf(&b, "- %s: %s\n", t("Mode"), t("storyboard fallback"))
	}
	if out.Path != "" {
		fmt.Fprintf(&b, "- %s: %s\n", t("File"), out.Path)
	}
	if out.Codec != "" {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", t("Codec"), out.Codec, out.Container)
	} else if !out.Fallback {
		fmt.Fprintf(&b, "- %s: %s\n", t("Codec"), t("N/A"))
	}
	if out.MediaType != "" {
		fmt.Fprintf(&b, "- %s: %s\n", t("Media type"), out.MediaType)
	}
	if out.FrameCount > 0 {
		fmt.Fprintf(&b, "- %s: %d\n", t("Frames"), out.FrameCount)
		fmt.Fprintf(&b, "- %s: %d ms\n", t("Video duration"), out.DurationMs)
	}
	fmt.Fprintf(&b, "- %s: %s\n", t("Size"), formatBytes(out.FileSize))
	if out.Width > 0 && out.Height > 0 {
		fmt.Fprintf(&b, "- %s: %dx%d\n", t("Surface"), out.Width, out.Height)
	}
	b.WriteString("\n")

	set := summary.Settings
	fmt.Fprintf(&b, "## %s\n\n", t("Settings"))
	fmt.Fprintf(&b, "- %s: %.1f fps\n", t("Frame rate"), set.FPS)
	fmt.Fprintf(&b, "- %s: %d ms\n", t("Settle delay"), set.SettleDelayMs)
	if set.Quality > 0 {
		fmt.Fprintf(&b, "- %s: %d\n", t("Quality (CRF)"), set.Quality)
	} else {
		fmt.Fprintf(&b, "- %s: %s\n", t("Quality (CRF)"), t("codec default"))
	}
	if set.Bitrate > 0 {
		fmt.Fprintf(&b, "- %s: %d kbps\n", t("Bitrate"), set.Bitrate)
	} else {
		fmt.Fprintf(&b, "- %s: %s\n", t("Bitrate"), t("codec default"))
	}
	if len(set.Preference) > 0 {
		fmt.Fprintf(&b, "- %s: %s\n", t("Codec preference"), strings.Join(set.Preference, ", "))
	} else {
		fmt.Fprintf(&b, "- %s: %s\n", t("Codec preference"), t("auto"))
	}

	if len(summary.Capability) > 0 {
		fmt.Fprintf(&b, "\n## %s\n\n", t("Codec support"))
		for _, row := range summary.Capability {
			state := t("available")
			if !row.Supported {
				state = t("not available")
			}
			if row.Detail != "" {
				fmt.Fprintf(&b, "- %s (%s): %s (%s)\n", row.Codec, row.Container, state, row.Detail)
			} else {
				fmt.Fprintf(&b, "- %s (%s): %s\n", row.Codec, row.Container, state)
			}
		}
	}

	return b.String()
}

// formatSeconds renders milliseconds as seconds with one decimal.
func formatSeconds(ms int) string {
	return fmt.Sprintf("%.1f s", float64(ms)/1000.0)
}

// formatBytes renders a byte count with a binary unit.
func formatBytes(n int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case n >= mb:
		return fmt.Sprintf("%.2f MB", float64(n)/float64(mb))
	case n >= kb:
		return fmt.Sprintf("%.2f KB", float64(n)/float64(kb))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
