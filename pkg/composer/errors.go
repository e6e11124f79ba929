package composer

import "errors"

// Failure taxonomy. Every failed run lands in StateError with one of
// these in its error chain; the stored reason is the full message.
var (
	// ErrEmptySceneList rejects a generate request with zero scenes.
	ErrEmptySceneList = errors.New("composer: scene list is empty")

	// ErrUnsupportedRuntime means the host cannot encode video at all.
	ErrUnsupportedRuntime = errors.New("composer: runtime has no video encoding capability")

	// ErrUnsupportedCodec means none of the preferred codecs are usable.
	ErrUnsupportedCodec = errors.New("composer: no supported codec among the preferred candidates")

	// ErrSurfaceUnavailable means the rendering surface could not be
	// acquired or drawn on.
	ErrSurfaceUnavailable = errors.New("composer: rendering surface unavailable")

	// ErrEncoderFailure means the encoder failed mid-capture. Partial
	// output is discarded, never published.
	ErrEncoderFailure = errors.New("composer: encoder failed")

	// ErrSuperseded is returned to a run whose result arrived after a
	// newer generate request had already taken over.
	ErrSuperseded = errors.New("composer: run superseded by a newer generate request")

	// ErrClosed rejects operations after Close.
	ErrClosed = errors.New("composer: composer is closed")
)
