// Package codecselect picks a video encoder for a composition run.
// Candidates are tried in preference order; MJPEG is implemented in
// pure Go and always available, so selection only fails when a caller
// restricts the preference list to codecs the host cannot encode.
package codecselect

import (
	"errors"

	"github.com/user/scenecast/pkg/adapters/ffmpegenc"
	"github.com/user/scenecast/pkg/adapters/mjpegencoder"
	"github.com/user/scenecast/pkg/ports"
)

// ErrNoCandidate is returned when no preferred codec can be encoded.
var ErrNoCandidate = errors.New("codecselect: no usable encoder for the preferred codecs")

// DefaultPreference is the codec order used when a caller passes none.
var DefaultPreference = []ports.Codec{ports.CodecHEVC, ports.CodecH264, ports.CodecMJPEG}

// candidate describes one codec the selector knows how to construct.
type candidate struct {
	codec     ports.Codec
	container string
	mediaType string
	available func() (bool, string)
	build     func() ports.VideoEncoder
}

// Selector implements ports.EncoderSelector over the built-in encoders.
type Selector struct {
	logger     ports.Logger
	candidates []candidate
}

// New creates a selector over the HEVC, H.264 and MJPEG encoders.
func New(logger ports.Logger) *Selector {
	return &Selector{
		logger:     logger.WithComponent("codecselect"),
		candidates: defaultCandidates(),
	}
}

func defaultCandidates() []candidate {
	return []candidate{
		{
			codec:     ports.CodecHEVC,
			container: ffmpegenc.ContainerMP4,
			mediaType: ffmpegenc.HEVCMediaType,
			available: func() (bool, string) { return ffmpegAvailability("libx265") },
			build:     func() ports.VideoEncoder { return ffmpegenc.NewHEVC() },
		},
		{
			codec:     ports.CodecH264,
			container: ffmpegenc.ContainerMP4,
			mediaType: ffmpegenc.H264MediaType,
			available: func() (bool, string) { return ffmpegAvailability("libx264") },
			build:     func() ports.VideoEncoder { return ffmpegenc.NewH264() },
		},
		{
			codec:     ports.CodecMJPEG,
			container: mjpegencoder.Container,
			mediaType: mjpegencoder.MediaType,
			available: func() (bool, string) { return true, "pure Go" },
			build:     func() ports.VideoEncoder { return mjpegencoder.New() },
		},
	}
}

func ffmpegAvailability(encoder string) (bool, string) {
	path, err := ffmpegenc.FindBinary()
	if err != nil {
		return false, "ffmpeg not found"
	}
	if !ffmpegenc.HasEncoder(encoder) {
		return false, "ffmpeg lacks " + encoder
	}
	return true, encoder + " via " + path
}

// Probe reports the support state of every known codec.
func (s *Selector) Probe() []ports.CodecSupport {
	out := make([]ports.CodecSupport, 0, len(s.candidates))
	for _, c := range s.candidates {
		ok, detail := c.available()
		out = append(out, ports.CodecSupport{
			Codec:     c.codec,
			Container: c.container,
			MediaType: c.mediaType,
			Supported: ok,
			Detail:    detail,
		})
	}
	return out
}

// Select returns a fresh encoder for the first usable codec in prefer.
// An empty preference list means DefaultPreference.
func (s *Selector) Select(prefer []ports.Codec) (ports.VideoEncoder, ports.CodecSupport, error) {
	if len(prefer) == 0 {
		prefer = DefaultPreference
	}

	for _, codec := range prefer {
		c, ok := s.lookup(codec)
		if !ok {
			s.logger.Warn("Unknown codec %q skipped", string(codec))
			continue
		}
		avail, detail := c.available()
		if !avail {
			s.logger.Warn("Codec %s unavailable (%s), trying next", string(codec), detail)
			continue
		}
		s.logger.Debug("Selected codec %s (%s)", string(codec), detail)
		return c.build(), ports.CodecSupport{
			Codec:     c.codec,
			Container: c.container,
			MediaType: c.mediaType,
			Supported: true,
			Detail:    detail,
		}, nil
	}

	return nil, ports.CodecSupport{}, ErrNoCandidate
}

func (s *Selector) lookup(codec ports.Codec) (candidate, bool) {
	for _, c := range s.candidates {
		if c.codec == codec {
			return c, true
		}
	}
	return candidate{}, false
}

var _ ports.EncoderSelector = (*Selector)(nil)
