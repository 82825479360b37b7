// Package media owns the local capture stream and its mute toggles.
package media

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkeye/RandomChat/internal/core"
	"github.com/dkeye/RandomChat/internal/domain"
	"github.com/rs/zerolog"
)

type Controller struct {
	source core.MediaSource
	logger zerolog.Logger

	mu     sync.Mutex
	stream core.MediaStream
	video  bool
	audio  bool
}

func NewController(source core.MediaSource, logger zerolog.Logger) *Controller {
	return &Controller{
		source: source,
		logger: logger.With().Str("module", "app.media").Logger(),
	}
}

// Acquire requests a fresh audio+video stream, dropping any stream held before.
// A failure leaves the controller without a stream; callers treat it as a warning.
func (c *Controller) Acquire(ctx context.Context) error {
	c.Release()

	stream, err := c.source.Acquire(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("local media unavailable")
		return fmt.Errorf("%w: %w", domain.ErrMediaAcquisitionFailed, err)
	}

	for _, kind := range []core.TrackKind{core.KindVideo, core.KindAudio} {
		for _, t := range stream.Tracks(kind) {
			t.SetEnabled(true)
		}
	}

	c.mu.Lock()
	// a concurrent Acquire may have won the race
	if c.stream != nil {
		c.stream.Stop()
	}
	c.stream = stream
	c.video, c.audio = true, true
	c.mu.Unlock()

	c.logger.Info().Str("stream_id", stream.ID()).Msg("local media acquired")
	return nil
}

// ToggleVideo flips the video tracks and reports whether video is now enabled.
func (c *Controller) ToggleVideo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.video = c.toggleLocked(core.KindVideo, c.video)
	return c.video
}

// ToggleAudio flips the audio tracks and reports whether audio is now enabled.
func (c *Controller) ToggleAudio() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.audio = c.toggleLocked(core.KindAudio, c.audio)
	return c.audio
}

func (c *Controller) toggleLocked(kind core.TrackKind, cur bool) bool {
	if c.stream == nil {
		return cur
	}
	tracks := c.stream.Tracks(kind)
	if len(tracks) == 0 {
		return cur
	}
	next := !cur
	for _, t := range tracks {
		t.SetEnabled(next)
	}
	c.logger.Debug().Str("kind", string(kind)).Bool("enabled", next).Msg("track toggled")
	return next
}

// Release stops every track of the held stream. Safe to call repeatedly.
func (c *Controller) Release() {
	c.mu.Lock()
	stream := c.stream
	c.stream = nil
	c.video, c.audio = false, false
	c.mu.Unlock()

	if stream == nil {
		return
	}
	stream.Stop()
	c.logger.Info().Str("stream_id", stream.ID()).Msg("local media released")
}

// Stream returns the held stream for rendering, or nil.
func (c *Controller) Stream() core.MediaStream {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stream
}

func (c *Controller) State() domain.MediaState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return domain.MediaState{}
	}
	return domain.MediaState{
		HasStream:    true,
		StreamID:     c.stream.ID(),
		VideoEnabled: c.video,
		AudioEnabled: c.audio,
	}
}
