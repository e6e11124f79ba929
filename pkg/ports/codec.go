package ports

// Codec identifies a video codec candidate.
type Codec string

const (
	CodecHEVC  Codec = "hevc"
	CodecH264  Codec = "h264"
	CodecMJPEG Codec = "mjpeg"
)

// CodecSupport reports whether a codec candidate is usable in the current runtime.
type CodecSupport struct {
	Codec     Codec
	Container string // "mp4" or "avi"
	MediaType string // value the output buffer is tagged with
	Supported bool
	Detail    string // human-readable support note, e.g. "ffmpeg not found"
}

// EncoderSelector probes the runtime for encoding capability and picks an encoder.
type EncoderSelector interface {
	// Probe reports support for every known codec candidate.
	Probe() []CodecSupport

	// Select returns a fresh encoder for the first supported codec in prefer.
	// With an empty prefer list it considers all candidates in default order.
	Select(prefer []Codec) (VideoEncoder, CodecSupport, error)
}
