package rtc

import (
	"errors"
	"sync/atomic"

	"github.com/dkeye/RandomChat/internal/core"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
)

type TrackState int32

const (
	TrackStateOk TrackState = iota
	TrackStateMuted
	TrackStateStopped
)

var ErrTrackStopped = errors.New("track stopped")

// LocalTrack is one capture track of a local stream. Muted tracks swallow
// packets; stopped tracks reject them.
type LocalTrack struct {
	Track *webrtc.TrackLocalStaticRTP
	kind  core.TrackKind
	state atomic.Int32 // Zero by default (TrackStateOk)
}

func NewLocalTrack(kind core.TrackKind, track *webrtc.TrackLocalStaticRTP) *LocalTrack {
	return &LocalTrack{Track: track, kind: kind}
}

func (lt *LocalTrack) Kind() core.TrackKind { return lt.kind }

func (lt *LocalTrack) GetState() TrackState {
	return TrackState(lt.state.Load())
}

func (lt *LocalTrack) Enabled() bool {
	return lt.GetState() == TrackStateOk
}

// SetEnabled switches between Ok and Muted. A stopped track stays stopped.
func (lt *LocalTrack) SetEnabled(enabled bool) {
	next := TrackStateMuted
	if enabled {
		next = TrackStateOk
	}
	for {
		cur := lt.state.Load()
		if TrackState(cur) == TrackStateStopped {
			return
		}
		if lt.state.CompareAndSwap(cur, int32(next)) {
			return
		}
	}
}

func (lt *LocalTrack) Stop() {
	lt.state.Store(int32(TrackStateStopped))
}

func (lt *LocalTrack) WriteRTP(pkt *rtp.Packet) error {
	switch lt.GetState() {
	case TrackStateStopped:
		return ErrTrackStopped
	case TrackStateMuted:
		return nil
	default:
		return lt.Track.WriteRTP(pkt)
	}
}
