// Package ffmpegenc provides H.264 and HEVC video encoding through an
// external ffmpeg process. Frames are streamed to ffmpeg as raw RGBA on
// stdin. The H.264 path reads an Annex-B elementary stream back on
// stdout and muxes it into a fragmented MP4 at End; the HEVC path has
// ffmpeg write a temp file that End reads after the process exits.
package ffmpegenc

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/user/scenecast/pkg/ports"
)

// Containers and media types of the produced buffers.
const (
	ContainerMP4  = "mp4"
	H264MediaType = `video/mp4; codecs="avc1.42C01F"`
	HEVCMediaType = `video/mp4; codecs="hvc1"`
)

var customBinaryPath string

// SetBinaryPath overrides ffmpeg discovery with an explicit path.
// An empty string restores the default search order.
func SetBinaryPath(path string) {
	customBinaryPath = path
}

// IsAvailable reports whether an ffmpeg binary can be located.
func IsAvailable() bool {
	_, err := FindBinary()
	return err == nil
}

// FindBinary locates ffmpeg.
// Priority: 1) SetBinaryPath, 2) FFMPEG_PATH env, 3) PATH, 4) common locations.
func FindBinary() (string, error) {
	if customBinaryPath != "" {
		if _, err := os.Stat(customBinaryPath); err == nil {
			return customBinaryPath, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ErrBinaryNotFound, customBinaryPath)
	}

	if envPath := os.Getenv("FFMPEG_PATH"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
		return "", fmt.Errorf("%w: FFMPEG_PATH %s not found", ErrBinaryNotFound, envPath)
	}

	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}
	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	var commonPaths []string
	switch runtime.GOOS {
	case "windows":
		commonPaths = []string{
			`C:\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files (x86)\ffmpeg\bin\ffmpeg.exe`,
		}
	case "darwin":
		commonPaths = []string{
			"/opt/homebrew/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/usr/bin/ffmpeg",
		}
	default:
		commonPaths = []string{
			"/usr/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/opt/homebrew/bin/ffmpeg",
			"/snap/bin/ffmpeg",
		}
	}
	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", ErrBinaryNotFound
}

var (
	probeMu    sync.Mutex
	probeCache = map[string]map[string]bool{}
)

// HasEncoder reports whether the located ffmpeg build ships the named
// video encoder, e.g. "libx264" or "libx265". Results are cached per
// binary path.
func HasEncoder(name string) bool {
	path, err := FindBinary()
	if err != nil {
		return false
	}

	probeMu.Lock()
	defer probeMu.Unlock()

	encoders, ok := probeCache[path]
	if !ok {
		out, err := exec.Command(path, "-hide_banner", "-encoders").Output()
		if err != nil {
			return false
		}
		encoders = parseEncoderList(out)
		probeCache[path] = encoders
	}
	return encoders[name]
}

// parseEncoderList extracts video encoder names from `ffmpeg -encoders`
// output. Entries follow a "------" separator and look like
// " V....D libx264  libx264 H.264 / AVC / MPEG-4 AVC".
func parseEncoderList(out []byte) map[string]bool {
	encoders := make(map[string]bool)
	started := false
	for _, line := range strings.Split(string(out), "\n") {
		trimmed := strings.TrimSpace(line)
		if !started {
			started = strings.HasPrefix(trimmed, "---")
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) >= 2 && strings.HasPrefix(fields[0], "V") {
			encoders[fields[1]] = true
		}
	}
	return encoders
}

// rawInputArgs describes the RGBA frame stream the encoders pipe to stdin.
func rawInputArgs(width, height int, fps float64) []string {
	return []string{
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", fmt.Sprintf("%.2f", fps),
		"-i", "pipe:0",
	}
}

// crfFor converts the pipeline quality knob (0-63) to the x264/x265
// CRF range (0-51), falling back to the codec default when unset.
func crfFor(quality, fallback int) int {
	if quality > 0 && quality <= 63 {
		crf := quality * 51 / 63
		if crf > 51 {
			crf = 51
		}
		return crf
	}
	return fallback
}

func buildH264Args(width, height int, fps float64, opts ports.EncoderOptions) []string {
	args := rawInputArgs(width, height, fps)
	args = append(args,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-pix_fmt", "yuv420p",
		"-profile:v", "baseline",
		"-level", "3.1",
		"-crf", strconv.Itoa(crfFor(opts.Quality, 23)),
	)
	if opts.Bitrate > 0 {
		args = append(args, "-b:v", fmt.Sprintf("%dk", opts.Bitrate))
	}

	// One keyframe per second keeps sync samples regular in the muxed
	// track. The AUD filter marks access unit boundaries so the muxer
	// can split the stream into samples.
	gop := int(math.Round(fps))
	if gop < 1 {
		gop = 1
	}
	args = append(args,
		"-g", strconv.Itoa(gop),
		"-bsf:v", "h264_metadata=aud=insert",
		"-f", "h264",
		"pipe:1",
	)
	return args
}

func buildHEVCArgs(width, height int, fps float64, opts ports.EncoderOptions, outPath string) []string {
	args := rawInputArgs(width, height, fps)
	args = append(args,
		"-c:v", "libx265",
		"-preset", "fast",
		"-pix_fmt", "yuv420p",
		"-crf", strconv.Itoa(crfFor(opts.Quality, 28)),
	)
	if opts.Bitrate > 0 {
		args = append(args, "-b:v", fmt.Sprintf("%dk", opts.Bitrate))
	}
	args = append(args,
		"-tag:v", "hvc1",
		"-movflags", "+faststart",
		outPath,
	)
	return args
}

// rgbaFrame returns the raw RGBA pixels for img at the session size.
// Frames already backed by a tightly packed RGBA buffer are passed
// through; anything else is drawn into the reusable scratch image.
func rgbaFrame(img image.Image, width, height int, scratch *image.RGBA) (*image.RGBA, []byte) {
	if rgba, ok := img.(*image.RGBA); ok {
		b := rgba.Bounds()
		if b.Min == (image.Point{}) && b.Dx() == width && b.Dy() == height && rgba.Stride == 4*width {
			return scratch, rgba.Pix
		}
	}
	if scratch == nil {
		scratch = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	draw.Draw(scratch, scratch.Bounds(), img, img.Bounds().Min, draw.Src)
	return scratch, scratch.Pix
}

// concatChunks joins output fragments in arrival order.
func concatChunks(chunks [][]byte) []byte {
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	out := make([]byte, 0, total)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}
