// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/scenecast/pkg/ports"
)

// Sink saves composition artifacts to files under a base directory.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveSceneFrame saves the snapshot taken when a scene was committed.
func (s *Sink) SaveSceneFrame(index int, img image.Image) error {
	dir := filepath.Join(s.baseDir, "frames")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode scene frame: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("scene-%02d.png", index))
	return s.fs.WriteFile(path, data)
}

// SaveRunManifest saves the composition run metadata as JSON.
func (s *Sink) SaveRunManifest(data []byte) error {
	path := filepath.Join(s.baseDir, "run.json")
	return s.fs.WriteFile(path, data)
}

// SaveVideo saves an encoded video buffer under its download name.
func (s *Sink) SaveVideo(name string, data []byte) error {
	path := filepath.Join(s.baseDir, name)
	return s.fs.WriteFile(path, data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
