package filesink

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"testing"

	"github.com/user/scenecast/pkg/mocks"
	"github.com/user/scenecast/pkg/ports"
)

// testBaseDir is a platform-independent base directory for tests
var testBaseDir = filepath.Join("debug")

func TestSink_Enabled(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{}
	sink := New(testBaseDir, fs, renderer)

	if !sink.Enabled() {
		t.Error("expected Enabled to return true")
	}
}

func TestSink_SaveSceneFrame(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			if format != ports.FormatPNG {
				t.Errorf("expected PNG encoding, got %v", format)
			}
			return []byte{0x89, 0x50, 0x4E, 0x47}, nil // PNG header
		},
	}
	sink := New(testBaseDir, fs, renderer)

	img := image.NewRGBA(image.Rect(0, 0, 720, 1280))
	if err := sink.SaveSceneFrame(3, img); err != nil {
		t.Fatalf("SaveSceneFrame failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "frames", "scene-03.png")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if len(saved) != 4 {
		t.Errorf("unexpected file contents: %v", saved)
	}
	if !fs.HasDir(filepath.Join(testBaseDir, "frames")) {
		t.Error("expected frames directory to be created")
	}
}

func TestSink_SaveSceneFrame_EncodeError(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			return nil, errors.New("encode failed")
		},
	}
	sink := New(testBaseDir, fs, renderer)

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if err := sink.SaveSceneFrame(0, img); err == nil {
		t.Error("expected encode error to propagate")
	}
}

func TestSink_SaveRunManifest(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{}
	sink := New(testBaseDir, fs, renderer)

	data := []byte(`{"scenes": 3}`)
	if err := sink.SaveRunManifest(data); err != nil {
		t.Fatalf("SaveRunManifest failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "run.json")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if string(saved) != string(data) {
		t.Errorf("expected %q, got %q", data, saved)
	}
}

func TestSink_SaveVideo(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{}
	sink := New(testBaseDir, fs, renderer)

	data := []byte("RIFF....AVI ")
	if err := sink.SaveVideo("scene-video.avi", data); err != nil {
		t.Fatalf("SaveVideo failed: %v", err)
	}

	expectedPath := filepath.Join(testBaseDir, "scene-video.avi")
	saved, ok := fs.GetFile(expectedPath)
	if !ok {
		t.Fatalf("expected file to be saved at %s", expectedPath)
	}
	if string(saved) != string(data) {
		t.Errorf("expected %q, got %q", data, saved)
	}
}

func TestSink_MultipleSceneFrames(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{}
	sink := New(testBaseDir, fs, renderer)

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for i := 0; i < 10; i++ {
		if err := sink.SaveSceneFrame(i, img); err != nil {
			t.Fatalf("SaveSceneFrame %d failed: %v", i, err)
		}
	}

	for i := 0; i < 10; i++ {
		path := filepath.Join(testBaseDir, "frames", fmt.Sprintf("scene-%02d.png", i))
		if _, ok := fs.GetFile(path); !ok {
			t.Errorf("missing frame file %s", path)
		}
	}
}
