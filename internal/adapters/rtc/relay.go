package rtc

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
)

// PacketSource yields the next RTP packet of an upstream track.
type PacketSource func() (*rtp.Packet, error)

func RemoteSource(track *webrtc.TrackRemote) PacketSource {
	return func() (*rtp.Packet, error) {
		pkt, _, err := track.ReadRTP()
		return pkt, err
	}
}

// Relay copies packets from a client track into one local track.
type Relay struct {
	src       PacketSource
	dst       *LocalTrack
	forwarded atomic.Uint64

	cancel context.CancelFunc
}

func NewRelay(src PacketSource, dst *LocalTrack, cancel context.CancelFunc) *Relay {
	return &Relay{src: src, dst: dst, cancel: cancel}
}

func (r *Relay) Forwarded() uint64 { return r.forwarded.Load() }

// loop reads RTP packets from the source and forwards them until ctx is done,
// the source fails or the local track is stopped.
func (r *Relay) loop(ctx context.Context, logger *zerolog.Logger) {
	defer func() {
		if r.cancel != nil {
			r.cancel()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("relay ctx done")
			return
		default:
		}
		pkt, err := r.src()
		if err != nil {
			logger.Info().Err(err).Msg("relay read RTP stopped")
			return
		}
		if err := r.forward(pkt); err != nil {
			if errors.Is(err, ErrTrackStopped) {
				logger.Info().Msg("local track stopped, relay done")
			} else {
				logger.Error().Err(err).Msg("relay write RTP error, stopping")
			}
			return
		}
	}
}

func (r *Relay) forward(pkt *rtp.Packet) error {
	if err := r.dst.WriteRTP(pkt); err != nil {
		return err
	}
	r.forwarded.Add(1)
	return nil
}
