package mjpegencoder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// buildAVI muxes pre-encoded JPEG frames into a single-stream AVI.
// Frames may have different sizes; the index carries per-frame offsets.
func buildAVI(frames [][]byte, width, height int, fps float64) ([]byte, error) {
	if fps <= 0 {
		return nil, errors.New("mjpegencoder: fps must be positive")
	}

	imgW := uint32(width)
	imgH := uint32(height)
	count := uint32(len(frames))
	usPerFrame := uint32(math.Round(1_000_000 / fps))

	// Fractional rates are expressed as rate/scale.
	scale := uint32(1000)
	rate := uint32(math.Round(fps * 1000))

	var maxFrame uint32
	moviSize := uint32(4) // "movi"
	for _, f := range frames {
		sz := uint32(len(f))
		if sz > maxFrame {
			maxFrame = sz
		}
		moviSize += 8 + padded(sz)
	}
	idx1Size := 8 + count*16
	hdrlSize := uint32(4 + 64 + 124) // "hdrl" + avih + strl
	fileSize := 4 + (8 + hdrlSize) + (8 + moviSize) + idx1Size

	buf := new(bytes.Buffer)
	buf.Grow(int(8 + fileSize))
	bw := &binaryWriter{w: buf}

	bw.fourCC("RIFF")
	bw.u32(fileSize)
	bw.fourCC("AVI ")

	bw.fourCC("LIST")
	bw.u32(hdrlSize)
	bw.fourCC("hdrl")

	// avih (56 bytes)
	bw.fourCC("avih")
	bw.u32(56)
	bw.u32(usPerFrame)
	bw.u32(uint32(math.Ceil(float64(maxFrame) * fps))) // max bytes/sec
	bw.u32(0)    // padding granularity
	bw.u32(0x10) // AVIF_HASINDEX
	bw.u32(count)
	bw.u32(0)        // initial frames
	bw.u32(1)        // streams
	bw.u32(maxFrame) // suggested buffer
	bw.u32(imgW)
	bw.u32(imgH)
	bw.u32(0) // reserved ×4
	bw.u32(0)
	bw.u32(0)
	bw.u32(0)

	// strl LIST (116 bytes)
	bw.fourCC("LIST")
	bw.u32(116)
	bw.fourCC("strl")

	// strh (56 bytes)
	bw.fourCC("strh")
	bw.u32(56)
	bw.fourCC("vids")
	bw.fourCC("MJPG")
	bw.u32(0) // flags
	bw.u16(0) // priority
	bw.u16(0) // language
	bw.u32(0) // initial frames
	bw.u32(scale)
	bw.u32(rate)
	bw.u32(0) // start
	bw.u32(count)
	bw.u32(maxFrame) // suggested buffer
	bw.u32(0)        // quality
	bw.u32(0)        // sample size
	bw.u16(0)        // rect left
	bw.u16(0)        // rect top
	bw.u16(uint16(imgW))
	bw.u16(uint16(imgH))

	// strf, a BITMAPINFOHEADER (40 bytes)
	bw.fourCC("strf")
	bw.u32(40)
	bw.u32(40)
	bw.u32(imgW)
	bw.u32(imgH)
	bw.u16(1)  // planes
	bw.u16(24) // bpp
	bw.fourCC("MJPG")
	bw.u32(imgW * imgH * 3)
	bw.u32(0) // x pels/m
	bw.u32(0) // y pels/m
	bw.u32(0) // clr used
	bw.u32(0) // clr important

	// movi LIST
	bw.fourCC("LIST")
	bw.u32(moviSize)
	bw.fourCC("movi")
	for _, f := range frames {
		bw.fourCC("00dc")
		bw.u32(uint32(len(f)))
		bw.bytes(f)
		if len(f)%2 != 0 {
			bw.bytes([]byte{0})
		}
	}

	// idx1, offsets relative to the start of "movi" content
	bw.fourCC("idx1")
	bw.u32(count * 16)
	offset := uint32(4)
	for _, f := range frames {
		sz := uint32(len(f))
		bw.fourCC("00dc")
		bw.u32(0x10) // AVIIF_KEYFRAME
		bw.u32(offset)
		bw.u32(sz)
		offset += 8 + padded(sz)
	}

	if bw.err != nil {
		return nil, fmt.Errorf("mjpegencoder: write container: %w", bw.err)
	}
	return buf.Bytes(), nil
}

// padded rounds a chunk size up to the even alignment AVI requires.
func padded(size uint32) uint32 {
	if size%2 != 0 {
		return size + 1
	}
	return size
}

// binaryWriter accumulates the first write error so chunk layout code
// stays free of error plumbing.
type binaryWriter struct {
	w   io.Writer
	err error
}

func (b *binaryWriter) fourCC(s string) {
	if b.err != nil {
		return
	}
	_, b.err = io.WriteString(b.w, s)
}

func (b *binaryWriter) u32(v uint32) {
	if b.err != nil {
		return
	}
	b.err = binary.Write(b.w, binary.LittleEndian, v)
}

func (b *binaryWriter) u16(v uint16) {
	if b.err != nil {
		return
	}
	b.err = binary.Write(b.w, binary.LittleEndian, v)
}

func (b *binaryWriter) bytes(p []byte) {
	if b.err != nil {
		return
	}
	_, b.err = b.w.Write(p)
}
