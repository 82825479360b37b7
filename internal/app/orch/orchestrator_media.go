package orch

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/RandomChat/internal/core"
	"github.com/pion/webrtc/v4"
)

var ErrNoLocalMedia = errors.New("no local media stream")

// BindMediaHandlers publishes the local stream on mc so the client can render
// it, and loops every track the client sends back into the local stream.
func (o *Orchestrator) BindMediaHandlers(mc core.MediaConnection) error {
	stream := o.Media.Stream()
	if stream == nil {
		return ErrNoLocalMedia
	}
	rs, ok := stream.(core.RelayStream)
	if !ok {
		return fmt.Errorf("stream %s cannot be published", stream.ID())
	}

	for _, track := range rs.LocalTracks() {
		if _, err := mc.AddLocalTrack(track); err != nil {
			return fmt.Errorf("add local track %s: %w", track.ID(), err)
		}
	}

	mc.OnTrack(func(ctx context.Context, track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		o.OnTrack(ctx, rs, track)
	})
	mc.OnClosed(func() {
		o.logger.Info().Str("stream_id", stream.ID()).Msg("media connection closed")
	})
	return nil
}

// OnTrack is called when the client publishes a remote track.
func (o *Orchestrator) OnTrack(ctx context.Context, rs core.RelayStream, track *webrtc.TrackRemote) {
	o.logger.Info().
		Str("kind", track.Kind().String()).
		Str("track_id", track.ID()).
		Msg("relaying client track into local stream")
	rs.Relay(ctx, track)
}
