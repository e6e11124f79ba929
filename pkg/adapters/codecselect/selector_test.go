package codecselect

import (
	"errors"
	"testing"

	"github.com/user/scenecast/pkg/adapters/logger"
	"github.com/user/scenecast/pkg/adapters/mjpegencoder"
	"github.com/user/scenecast/pkg/mocks"
	"github.com/user/scenecast/pkg/ports"
)

func fakeCandidate(codec ports.Codec, ok bool) candidate {
	return candidate{
		codec:     codec,
		container: "tst",
		mediaType: "video/test",
		available: func() (bool, string) { return ok, "fake" },
		build:     func() ports.VideoEncoder { return &mocks.VideoEncoder{} },
	}
}

func testSelector(cands ...candidate) *Selector {
	return &Selector{logger: logger.NewNoop(), candidates: cands}
}

func TestSelectFollowsPreferenceOrder(t *testing.T) {
	s := testSelector(
		fakeCandidate(ports.CodecHEVC, true),
		fakeCandidate(ports.CodecH264, true),
	)

	_, support, err := s.Select([]ports.Codec{ports.CodecH264, ports.CodecHEVC})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if support.Codec != ports.CodecH264 {
		t.Errorf("selected %s, want h264 first per preference", support.Codec)
	}
}

func TestSelectFallsThroughUnavailable(t *testing.T) {
	s := testSelector(
		fakeCandidate(ports.CodecHEVC, false),
		fakeCandidate(ports.CodecH264, true),
	)

	_, support, err := s.Select([]ports.Codec{ports.CodecHEVC, ports.CodecH264})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if support.Codec != ports.CodecH264 {
		t.Errorf("selected %s, want h264 after hevc fallthrough", support.Codec)
	}
}

func TestSelectSkipsUnknownCodec(t *testing.T) {
	s := testSelector(fakeCandidate(ports.CodecMJPEG, true))

	_, support, err := s.Select([]ports.Codec{ports.Codec("vp9"), ports.CodecMJPEG})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if support.Codec != ports.CodecMJPEG {
		t.Errorf("selected %s, want mjpeg", support.Codec)
	}
}

func TestSelectNoCandidate(t *testing.T) {
	s := testSelector(
		fakeCandidate(ports.CodecHEVC, false),
		fakeCandidate(ports.CodecH264, false),
	)

	_, _, err := s.Select([]ports.Codec{ports.CodecHEVC, ports.CodecH264})
	if !errors.Is(err, ErrNoCandidate) {
		t.Errorf("Select = %v, want ErrNoCandidate", err)
	}
}

func TestSelectEmptyPreferenceUsesDefault(t *testing.T) {
	s := testSelector(
		fakeCandidate(ports.CodecHEVC, false),
		fakeCandidate(ports.CodecH264, false),
		fakeCandidate(ports.CodecMJPEG, true),
	)

	_, support, err := s.Select(nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if support.Codec != ports.CodecMJPEG {
		t.Errorf("selected %s, want mjpeg as the last default", support.Codec)
	}
}

func TestSelectBuildsFreshEncoders(t *testing.T) {
	s := testSelector(fakeCandidate(ports.CodecMJPEG, true))

	enc1, _, err := s.Select([]ports.Codec{ports.CodecMJPEG})
	if err != nil {
		t.Fatal(err)
	}
	enc2, _, err := s.Select([]ports.Codec{ports.CodecMJPEG})
	if err != nil {
		t.Fatal(err)
	}
	if enc1 == enc2 {
		t.Error("Select returned the same encoder twice")
	}
}

func TestProbeReportsEveryCandidate(t *testing.T) {
	s := testSelector(
		fakeCandidate(ports.CodecHEVC, false),
		fakeCandidate(ports.CodecMJPEG, true),
	)

	supports := s.Probe()
	if len(supports) != 2 {
		t.Fatalf("Probe returned %d entries, want 2", len(supports))
	}
	if supports[0].Codec != ports.CodecHEVC || supports[0].Supported {
		t.Errorf("entry 0 = %+v", supports[0])
	}
	if supports[1].Codec != ports.CodecMJPEG || !supports[1].Supported {
		t.Errorf("entry 1 = %+v", supports[1])
	}
	if supports[1].MediaType != "video/test" {
		t.Errorf("media type = %q", supports[1].MediaType)
	}
}

func TestDefaultSelectorAlwaysOffersMJPEG(t *testing.T) {
	s := New(logger.NewNoop())

	var found bool
	for _, sup := range s.Probe() {
		if sup.Codec == ports.CodecMJPEG {
			found = true
			if !sup.Supported {
				t.Error("mjpeg reported unsupported")
			}
			if sup.MediaType != mjpegencoder.MediaType {
				t.Errorf("mjpeg media type = %q", sup.MediaType)
			}
		}
	}
	if !found {
		t.Fatal("mjpeg missing from probe")
	}

	enc, support, err := s.Select([]ports.Codec{ports.CodecMJPEG})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if _, ok := enc.(*mjpegencoder.Encoder); !ok {
		t.Errorf("encoder type = %T", enc)
	}
	if support.Container != mjpegencoder.Container {
		t.Errorf("container = %q", support.Container)
	}
}
