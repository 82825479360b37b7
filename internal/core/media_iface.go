package core

import (
	"context"

	"github.com/pion/webrtc/v4"
)

type TrackKind string

const (
	KindAudio TrackKind = "audio"
	KindVideo TrackKind = "video"
)

// MediaSource is the host capture capability. Acquire yields one combined
// audio+video stream or an error when the device is denied or missing.
type MediaSource interface {
	Acquire(ctx context.Context) (MediaStream, error)
}

// MediaStream is owned by whoever acquired it and must be stopped exactly once.
type MediaStream interface {
	ID() string
	Tracks(kind TrackKind) []MediaTrack
	Stop()
}

type MediaTrack interface {
	Kind() TrackKind
	Enabled() bool
	SetEnabled(bool)
	Stop()
}

// RelayStream is a MediaStream that can be published over WebRTC and fed
// from a client's remote track.
type RelayStream interface {
	MediaStream
	LocalTracks() []webrtc.TrackLocal
	Relay(ctx context.Context, src *webrtc.TrackRemote)
}

type MediaConnection interface {
	// Start configures internal callbacks and binds the connection lifetime to ctx.
	Start(ctx context.Context) error
	// Close should stop all underlying media resources.
	Close()
	// AddICECandidate applies a remote ICE candidate.
	AddICECandidate(webrtc.ICECandidateInit) error
	ApplyOfferAndCreateAnswer(webrtc.SessionDescription) (*webrtc.SessionDescription, error)
	// OnICECandidate sets a callback for newly gathered local ICE candidates.
	OnICECandidate(func(webrtc.ICECandidateInit))
	// OnTrack sets a callback that will be invoked when a new remote track arrives.
	OnTrack(func(ctx context.Context, track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver))
	// AddLocalTrack attaches a local track to the underlying PeerConnection.
	AddLocalTrack(track webrtc.TrackLocal) (*webrtc.RTPSender, error)
	// OnClosed sets a callback for cleanup media session.
	OnClosed(func())
}
