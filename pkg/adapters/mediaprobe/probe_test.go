package mediaprobe

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/scenecast/pkg/adapters/mjpegencoder"
	"github.com/user/scenecast/pkg/ports"
)

func buildInit(t *testing.T, mediaType, sampleEntry string) []byte {
	t.Helper()

	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(15000, mediaType, "und")
	if sampleEntry != "" {
		entry := mp4.CreateVisualSampleEntryBox(sampleEntry, 720, 1280, nil)
		init.Moov.Trak.Mdia.Minf.Stbl.Stsd.AddChild(entry)
	}

	var buf bytes.Buffer
	if err := init.Encode(&buf); err != nil {
		t.Fatalf("encode init segment: %v", err)
	}
	return buf.Bytes()
}

func TestDetectH264(t *testing.T) {
	info, err := Detect(buildInit(t, "video", "avc1"))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if info.Container != "mp4" || info.Codec != ports.CodecH264 {
		t.Errorf("Detect = %+v", info)
	}
}

func TestDetectHEVC(t *testing.T) {
	info, err := Detect(buildInit(t, "video", "hvc1"))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if info.Container != "mp4" || info.Codec != ports.CodecHEVC {
		t.Errorf("Detect = %+v", info)
	}
}

func TestDetectMJPEGAVI(t *testing.T) {
	enc := mjpegencoder.New()
	if err := enc.Begin(16, 16, 5, ports.EncoderOptions{}); err != nil {
		t.Fatal(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, color.RGBA{120, 80, 40, 255})
		}
	}
	if err := enc.EncodeFrame(img, 0); err != nil {
		t.Fatal(err)
	}
	data, err := enc.End()
	if err != nil {
		t.Fatal(err)
	}

	info, err := Detect(data)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if info.Container != "avi" || info.Codec != ports.CodecMJPEG {
		t.Errorf("Detect = %+v", info)
	}
}

func TestDetectNoVideoTrack(t *testing.T) {
	if _, err := Detect(buildInit(t, "audio", "")); !errors.Is(err, ErrNoVideoTrack) {
		t.Errorf("Detect = %v, want ErrNoVideoTrack", err)
	}
}

func TestDetectUnknownFormat(t *testing.T) {
	tests := [][]byte{
		nil,
		[]byte("short"),
		[]byte("not a video at all, just a run of plain text bytes"),
	}
	for _, data := range tests {
		if _, err := Detect(data); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("Detect(%q) = %v, want ErrUnknownFormat", data, err)
		}
	}
}
