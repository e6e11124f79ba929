package resource

import (
	"errors"
	"strings"
	"testing"
)

func TestPublishMintsUniqueHandles(t *testing.T) {
	reg := NewRegistry()

	a, err := reg.Publish([]byte("video-a"), "video/avi")
	if err != nil {
		t.Fatal(err)
	}
	b, err := reg.Publish([]byte("video-b"), "video/avi")
	if err != nil {
		t.Fatal(err)
	}

	if a.Handle == b.Handle {
		t.Error("handles must be unique")
	}
	if !strings.HasPrefix(a.Handle, HandleScheme) {
		t.Errorf("handle should carry the %q scheme, got %q", HandleScheme, a.Handle)
	}
	if a.CreatedAt.IsZero() {
		t.Error("resource should record its creation time")
	}
}

func TestResolveAndRevoke(t *testing.T) {
	reg := NewRegistry()

	res, err := reg.Publish([]byte("payload"), "video/avi")
	if err != nil {
		t.Fatal(err)
	}

	got, ok := reg.Resolve(res.Handle)
	if !ok {
		t.Fatal("live handle should resolve")
	}
	if string(got.Data) != "payload" {
		t.Errorf("resolved wrong data: %q", got.Data)
	}

	reg.Revoke(res.Handle)
	if _, ok := reg.Resolve(res.Handle); ok {
		t.Error("revoked handle must not resolve")
	}
	if reg.LiveCount() != 0 {
		t.Errorf("expected no live handles, got %d", reg.LiveCount())
	}

	// Revoking again or revoking garbage is harmless.
	reg.Revoke(res.Handle)
	reg.Revoke("mem://scenecast/not-a-handle")
}

func TestOnlyNewestHandleStaysLiveAcrossRuns(t *testing.T) {
	reg := NewRegistry()

	var last string
	for i := 0; i < 5; i++ {
		if last != "" {
			reg.Revoke(last)
		}
		res, err := reg.Publish([]byte{byte(i)}, "video/avi")
		if err != nil {
			t.Fatal(err)
		}
		last = res.Handle
	}

	if reg.LiveCount() != 1 {
		t.Fatalf("expected exactly one live handle after 5 runs, got %d", reg.LiveCount())
	}
	if _, ok := reg.Resolve(last); !ok {
		t.Error("most recent handle must stay live")
	}
}

func TestCloseRevokesEverything(t *testing.T) {
	reg := NewRegistry()
	res, err := reg.Publish([]byte("x"), "video/avi")
	if err != nil {
		t.Fatal(err)
	}

	reg.Close()
	if reg.LiveCount() != 0 {
		t.Error("close must revoke all handles")
	}
	if _, ok := reg.Resolve(res.Handle); ok {
		t.Error("handles must not resolve after close")
	}
	if _, err := reg.Publish([]byte("y"), "video/avi"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		mediaType string
		want      string
	}{
		{"video/avi", "scene-video.avi"},
		{"video/x-msvideo", "scene-video.avi"},
		{"video/mp4", "scene-video.mp4"},
		{`video/mp4; codecs="hvc1"`, "scene-video.mp4"},
		{"application/octet-stream", "scene-video.bin"},
	}
	for _, tt := range tests {
		t.Run(tt.mediaType, func(t *testing.T) {
			r := &Resource{MediaType: tt.mediaType}
			if got := r.FileName(); got != tt.want {
				t.Errorf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}
