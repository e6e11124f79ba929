// Package resource manages revocable references to composed video
// buffers, mirroring object-URL lifecycles: a handle stays usable until
// its owner revokes it, and revocation releases the backing bytes.
package resource

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// HandleScheme prefixes every minted handle.
const HandleScheme = "mem://scenecast/"

// DefaultBaseName is the file name stem suggested for downloads.
const DefaultBaseName = "scene-video"

// ErrClosed is returned by Publish after the registry has been closed.
var ErrClosed = errors.New("resource: registry is closed")

// Resource is one published output buffer with its revocable handle.
// After Revoke the registry drops its reference and the handle no longer
// resolves; holders must not keep using the data.
type Resource struct {
	Handle    string
	MediaType string
	Data      []byte
	CreatedAt time.Time
}

// FileName returns the suggested download name for the resource,
// deriving the extension from its media type.
func (r *Resource) FileName() string {
	return DefaultBaseName + extensionFor(r.MediaType)
}

func extensionFor(mediaType string) string {
	switch {
	case mediaType == "video/avi" || mediaType == "video/x-msvideo":
		return ".avi"
	case strings.HasPrefix(mediaType, "video/mp4"):
		return ".mp4"
	default:
		return ".bin"
	}
}

// Registry mints and revokes resource handles. All methods are safe for
// concurrent use.
type Registry struct {
	mu     sync.Mutex
	live   map[string]*Resource
	closed bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{live: make(map[string]*Resource)}
}

// Publish stores the buffer and mints a fresh handle for it.
func (g *Registry) Publish(data []byte, mediaType string) (*Resource, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil, ErrClosed
	}
	res := &Resource{
		Handle:    fmt.Sprintf("%s%s", HandleScheme, uuid.NewString()),
		MediaType: mediaType,
		Data:      data,
		CreatedAt: time.Now(),
	}
	g.live[res.Handle] = res
	return res, nil
}

// Revoke releases the handle. The registry drops its reference to the
// buffer; the handle no longer resolves. Revoking an unknown or already
// revoked handle is a no-op.
func (g *Registry) Revoke(handle string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.live, handle)
}

// Resolve returns the resource for a live handle.
func (g *Registry) Resolve(handle string) (*Resource, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	res, ok := g.live[handle]
	return res, ok
}

// LiveCount returns the number of unrevoked handles.
func (g *Registry) LiveCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.live)
}

// Close revokes every live handle and rejects further publishes.
func (g *Registry) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.live = make(map[string]*Resource)
	g.closed = true
}
