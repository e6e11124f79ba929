package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving intermediate composition artifacts for inspection.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveSceneFrame saves the surface snapshot taken when a scene was committed.
	SaveSceneFrame(index int, img image.Image) error

	// SaveRunManifest saves the composition run metadata as JSON.
	SaveRunManifest(data []byte) error

	// SaveVideo saves an encoded video buffer under the given file name.
	SaveVideo(name string, data []byte) error
}
