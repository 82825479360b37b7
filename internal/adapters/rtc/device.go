package rtc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dkeye/RandomChat/internal/core"
	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
)

var ErrDeviceUnavailable = errors.New("capture device unavailable")

type DeviceConfig struct {
	Enabled    bool
	VideoCodec string
	AudioCodec string
}

// Device is the host capture capability: every Acquire yields a new stream
// with one video and one audio track.
type Device struct {
	cfg DeviceConfig
}

func NewDevice(cfg DeviceConfig) *Device {
	return &Device{cfg: cfg}
}

func (d *Device) Acquire(ctx context.Context) (core.MediaStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !d.cfg.Enabled {
		return nil, ErrDeviceUnavailable
	}

	videoCap, err := CodecCapability(core.KindVideo, d.cfg.VideoCodec)
	if err != nil {
		return nil, err
	}
	audioCap, err := CodecCapability(core.KindAudio, d.cfg.AudioCodec)
	if err != nil {
		return nil, err
	}

	streamID := uuid.NewString()
	video, err := webrtc.NewTrackLocalStaticRTP(videoCap, "video-"+streamID, streamID)
	if err != nil {
		return nil, fmt.Errorf("video track: %w", err)
	}
	audio, err := webrtc.NewTrackLocalStaticRTP(audioCap, "audio-"+streamID, streamID)
	if err != nil {
		return nil, fmt.Errorf("audio track: %w", err)
	}

	return NewStream(
		streamID,
		NewLocalTrack(core.KindVideo, video),
		NewLocalTrack(core.KindAudio, audio),
	), nil
}

func CodecCapability(kind core.TrackKind, name string) (webrtc.RTPCodecCapability, error) {
	switch kind {
	case core.KindVideo:
		switch strings.ToLower(name) {
		case "vp8", "":
			return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8, ClockRate: 90000}, nil
		case "vp9":
			return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP9, ClockRate: 90000}, nil
		case "h264":
			return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeH264, ClockRate: 90000}, nil
		case "av1":
			return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeAV1, ClockRate: 90000}, nil
		}
	case core.KindAudio:
		switch strings.ToLower(name) {
		case "opus", "":
			return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus, ClockRate: 48000, Channels: 2}, nil
		case "g722":
			return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeG722, ClockRate: 8000}, nil
		case "pcmu":
			return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypePCMU, ClockRate: 8000}, nil
		case "pcma":
			return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypePCMA, ClockRate: 8000}, nil
		}
	}
	return webrtc.RTPCodecCapability{}, fmt.Errorf("unsupported %s codec %q", kind, name)
}
