package mocks

import (
	"errors"

	"github.com/user/scenecast/pkg/ports"
)

// EncoderSelector is a mock implementation of ports.EncoderSelector. By
// default it reports one supported MJPEG/AVI candidate and hands out the
// configured Encoder.
type EncoderSelector struct {
	ProbeFunc  func() []ports.CodecSupport
	SelectFunc func(prefer []ports.Codec) (ports.VideoEncoder, ports.CodecSupport, error)

	// Encoder is returned by the default Select. Left nil, a fresh
	// VideoEncoder mock is created on first use.
	Encoder *VideoEncoder

	SelectCalled bool
}

func (m *EncoderSelector) Probe() []ports.CodecSupport {
	if m.ProbeFunc != nil {
		return m.ProbeFunc()
	}
	return []ports.CodecSupport{
		{Codec: ports.CodecMJPEG, Container: "avi", MediaType: "video/avi", Supported: true, Detail: "mock"},
	}
}

func (m *EncoderSelector) Select(prefer []ports.Codec) (ports.VideoEncoder, ports.CodecSupport, error) {
	m.SelectCalled = true
	if m.SelectFunc != nil {
		return m.SelectFunc(prefer)
	}
	supported := m.Probe()
	var pick *ports.CodecSupport
	for i := range supported {
		if supported[i].Supported {
			pick = &supported[i]
			break
		}
	}
	if pick == nil {
		return nil, ports.CodecSupport{}, errors.New("mocks: no supported codec")
	}
	if m.Encoder == nil {
		m.Encoder = &VideoEncoder{}
	}
	return m.Encoder, *pick, nil
}

var _ ports.EncoderSelector = (*EncoderSelector)(nil)
