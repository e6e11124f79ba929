package ffmpegenc

import "errors"

var (
	// ErrNotInitialized is returned when encoder methods are called before Begin.
	ErrNotInitialized = errors.New("ffmpegenc: encoder not initialized")

	// ErrBinaryNotFound is returned when no ffmpeg binary could be located.
	ErrBinaryNotFound = errors.New("ffmpegenc: ffmpeg not found")

	// ErrNoOutput is returned when ffmpeg exited cleanly but produced no bytes.
	ErrNoOutput = errors.New("ffmpegenc: ffmpeg produced no output")
)
