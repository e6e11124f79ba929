package mocks

import (
	"image"
	"sync"

	"github.com/user/scenecast/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	SceneFrames map[int]image.Image
	RunManifest []byte
	Videos      map[string][]byte
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:     enabled,
		SceneFrames: make(map[int]image.Image),
		Videos:      make(map[string][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveSceneFrame(index int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SceneFrames[index] = img
	return nil
}

func (m *DebugSink) SaveRunManifest(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunManifest = data
	return nil
}

func (m *DebugSink) SaveVideo(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Videos[name] = data
	return nil
}

// SceneFrameCount returns how many scene frames were saved.
func (m *DebugSink) SceneFrameCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.SceneFrames)
}

var _ ports.DebugSink = (*DebugSink)(nil)
