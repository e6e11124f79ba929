package ffmpegenc

import (
	"bytes"
	"fmt"
	"math"

	"github.com/Eyevinn/mp4ff/mp4"
)

// NAL unit types relevant to sample assembly.
const (
	naluIDR = 5
	naluSPS = 7
	naluPPS = 8
	naluAUD = 9
)

// avcSample is one access unit in length-prefixed (AVCC) form.
type avcSample struct {
	data     []byte
	keyframe bool
}

// muxAVC wraps a raw Annex-B H.264 elementary stream into a fragmented
// MP4: ftyp, an init moov built from the stream's parameter sets, and a
// single moof/mdat fragment holding every access unit. The encoder
// inserts access unit delimiters, so sample boundaries fall at AUDs.
func muxAVC(stream []byte, width, height int, fps float64) ([]byte, error) {
	samples, sps, pps := collectSamples(splitAnnexB(stream))
	if len(samples) == 0 {
		return nil, fmt.Errorf("ffmpegenc: no access units in h264 stream")
	}
	if sps == nil || pps == nil {
		return nil, fmt.Errorf("ffmpegenc: parameter sets missing from h264 stream")
	}

	avcC, err := mp4.CreateAvcC([][]byte{sps}, [][]byte{pps}, true)
	if err != nil {
		return nil, fmt.Errorf("ffmpegenc: create avcC: %w", err)
	}

	timescale := uint32(math.Round(fps * 1000))
	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(timescale, "video", "en")

	trak := init.Moov.Trak
	trak.Mdia.Minf.Stbl.Stsd.AddChild(mp4.CreateVisualSampleEntryBox("avc1", uint16(width), uint16(height), avcC))
	trak.Tkhd.Width = mp4.Fixed32(width << 16)
	trak.Tkhd.Height = mp4.Fixed32(height << 16)

	frag, err := mp4.CreateFragment(1, 1)
	if err != nil {
		return nil, fmt.Errorf("ffmpegenc: create fragment: %w", err)
	}

	// The input is constant frame rate, so with the timescale above
	// every sample lasts exactly 1000 units.
	const dur = 1000
	for i, s := range samples {
		flags := mp4.NonSyncSampleFlags
		if s.keyframe {
			flags = mp4.SyncSampleFlags
		}
		frag.AddFullSample(mp4.FullSample{
			Sample: mp4.Sample{
				Flags: flags,
				Size:  uint32(len(s.data)),
				Dur:   dur,
			},
			DecodeTime: uint64(i) * dur,
			Data:       s.data,
		})
	}

	var buf bytes.Buffer
	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "avc1", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		return nil, fmt.Errorf("ffmpegenc: encode ftyp: %w", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		return nil, fmt.Errorf("ffmpegenc: encode moov: %w", err)
	}
	if err := frag.Encode(&buf); err != nil {
		return nil, fmt.Errorf("ffmpegenc: encode fragment: %w", err)
	}
	return buf.Bytes(), nil
}

// collectSamples groups NAL units into access units. AUDs delimit units
// and are dropped; SPS/PPS move to the decoder configuration instead of
// the sample data; everything else is length-prefixed into the current
// sample. A unit containing an IDR slice becomes a sync sample.
func collectSamples(nalus [][]byte) (samples []avcSample, sps, pps []byte) {
	var cur avcSample
	flush := func() {
		if len(cur.data) > 0 {
			samples = append(samples, cur)
		}
		cur = avcSample{}
	}

	for _, nalu := range nalus {
		if len(nalu) == 0 {
			continue
		}
		switch nalu[0] & 0x1F {
		case naluAUD:
			flush()
		case naluSPS:
			if sps == nil {
				sps = append([]byte(nil), nalu...)
			}
		case naluPPS:
			if pps == nil {
				pps = append([]byte(nil), nalu...)
			}
		default:
			if nalu[0]&0x1F == naluIDR {
				cur.keyframe = true
			}
			n := len(nalu)
			cur.data = append(cur.data, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
			cur.data = append(cur.data, nalu...)
		}
	}
	flush()
	return samples, sps, pps
}

// splitAnnexB cuts an Annex-B byte stream into NAL units, dropping the
// start codes. x264 output mixes 3 and 4 byte codes.
func splitAnnexB(data []byte) [][]byte {
	var nalus [][]byte
	start := 0
	i := 0
	for i < len(data) {
		if i+2 < len(data) && data[i] == 0 && data[i+1] == 0 {
			codeLen := 0
			if data[i+2] == 1 {
				codeLen = 3
			} else if i+3 < len(data) && data[i+2] == 0 && data[i+3] == 1 {
				codeLen = 4
			}
			if codeLen > 0 {
				if i > start {
					nalus = append(nalus, data[start:i])
				}
				i += codeLen
				start = i
				continue
			}
		}
		i++
	}
	if start < len(data) {
		nalus = append(nalus, data[start:])
	}
	return nalus
}
