// Package mediaprobe inspects finished video buffers and reports the
// container and codec actually present in the bytes. Output resources
// are tagged with whatever the encoder claimed; this package lets
// callers verify the claim against the data.
package mediaprobe

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/scenecast/pkg/ports"
)

// Info describes what a probe found.
type Info struct {
	Container string
	Codec     ports.Codec
}

var (
	// ErrUnknownFormat is returned when the buffer matches no known container.
	ErrUnknownFormat = errors.New("mediaprobe: unrecognized container")

	// ErrNoVideoTrack is returned when a container holds no video stream.
	ErrNoVideoTrack = errors.New("mediaprobe: no video track found")
)

// Detect sniffs the container signature and inspects the video track.
func Detect(data []byte) (Info, error) {
	switch {
	case isAVI(data):
		return detectAVI(data)
	case isMP4(data):
		return detectMP4(data)
	}
	return Info{}, ErrUnknownFormat
}

func isAVI(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "AVI "
}

func isMP4(data []byte) bool {
	return len(data) >= 12 && string(data[4:8]) == "ftyp"
}

// detectAVI reads the stream header of the first stream. The header
// block precedes all frame data, so a forward scan finds it.
func detectAVI(data []byte) (Info, error) {
	idx := bytes.Index(data, []byte("strh"))
	if idx < 0 || idx+16 > len(data) {
		return Info{}, fmt.Errorf("mediaprobe: avi stream header missing")
	}
	if string(data[idx+8:idx+12]) != "vids" {
		return Info{}, ErrNoVideoTrack
	}
	handler := string(data[idx+12 : idx+16])
	if handler == "MJPG" || handler == "mjpg" {
		return Info{Container: "avi", Codec: ports.CodecMJPEG}, nil
	}
	return Info{}, fmt.Errorf("mediaprobe: unsupported avi codec %q", handler)
}

func detectMP4(data []byte) (Info, error) {
	mp4File, err := mp4.DecodeFile(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("mediaprobe: decode mp4: %w", err)
	}

	// Fragmented files carry the sample description in the init segment.
	if mp4File.Init != nil && mp4File.Init.Moov != nil {
		if codec, ok := codecFromTraks(mp4File.Init.Moov.Traks); ok {
			return Info{Container: "mp4", Codec: codec}, nil
		}
	}
	if mp4File.Moov != nil {
		if codec, ok := codecFromTraks(mp4File.Moov.Traks); ok {
			return Info{Container: "mp4", Codec: codec}, nil
		}
	}
	return Info{}, ErrNoVideoTrack
}

func codecFromTraks(traks []*mp4.TrakBox) (ports.Codec, bool) {
	for _, trak := range traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
			continue
		}
		if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
			continue
		}
		for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
			switch child.Type() {
			case "avc1", "avc3":
				return ports.CodecH264, true
			case "hvc1", "hev1":
				return ports.CodecHEVC, true
			}
		}
	}
	return "", false
}
