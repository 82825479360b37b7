package rtc

import (
	"context"
	"sync"

	"github.com/dkeye/RandomChat/internal/core"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

// Stream is a local capture stream made of pion static RTP tracks.
type Stream struct {
	id     string
	tracks []*LocalTrack

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func NewStream(id string, tracks ...*LocalTrack) *Stream {
	ctx, cancel := context.WithCancel(context.Background())
	return &Stream{id: id, tracks: tracks, ctx: ctx, cancel: cancel}
}

func (s *Stream) ID() string { return s.id }

func (s *Stream) Tracks(kind core.TrackKind) []core.MediaTrack {
	var out []core.MediaTrack
	for _, t := range s.tracks {
		if t.Kind() == kind {
			out = append(out, t)
		}
	}
	return out
}

func (s *Stream) LocalTracks() []webrtc.TrackLocal {
	out := make([]webrtc.TrackLocal, 0, len(s.tracks))
	for _, t := range s.tracks {
		out = append(out, t.Track)
	}
	return out
}

// Stop stops every track and every relay feeding the stream, once.
func (s *Stream) Stop() {
	s.once.Do(func() {
		s.cancel()
		for _, t := range s.tracks {
			t.Stop()
		}
		log.Info().Str("module", "rtc.stream").Str("stream_id", s.id).Msg("stream stopped")
	})
}

// Relay feeds src into the local track of the same kind.
func (s *Stream) Relay(ctx context.Context, src *webrtc.TrackRemote) {
	s.relay(ctx, kindOf(src.Kind()), RemoteSource(src))
}

func (s *Stream) relay(ctx context.Context, kind core.TrackKind, src PacketSource) *Relay {
	logger := log.With().
		Str("module", "relay").
		Str("stream_id", s.id).
		Str("kind", string(kind)).
		Logger()

	dst := s.track(kind)
	if dst == nil {
		logger.Warn().Msg("no local track for kind")
		return nil
	}

	relayCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	relay := NewRelay(src, dst, func() {
		stop()
		cancel()
	})

	logger.Info().Msg("starting relay loop")
	go relay.loop(relayCtx, &logger)
	return relay
}

func (s *Stream) track(kind core.TrackKind) *LocalTrack {
	for _, t := range s.tracks {
		if t.Kind() == kind {
			return t
		}
	}
	return nil
}

func kindOf(t webrtc.RTPCodecType) core.TrackKind {
	if t == webrtc.RTPCodecTypeVideo {
		return core.KindVideo
	}
	return core.KindAudio
}
