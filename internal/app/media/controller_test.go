package media

import (
	"context"
	"errors"
	"testing"

	"github.com/dkeye/RandomChat/internal/core"
	"github.com/dkeye/RandomChat/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTrack struct {
	kind    core.TrackKind
	enabled bool
	stopped bool
}

func (t *fakeTrack) Kind() core.TrackKind { return t.kind }
func (t *fakeTrack) Enabled() bool        { return t.enabled }
func (t *fakeTrack) SetEnabled(v bool)    { t.enabled = v }
func (t *fakeTrack) Stop()                { t.stopped = true }

type fakeStream struct {
	id     string
	tracks []*fakeTrack
	stops  int
}

func newFakeStream(id string, kinds ...core.TrackKind) *fakeStream {
	s := &fakeStream{id: id}
	for _, k := range kinds {
		s.tracks = append(s.tracks, &fakeTrack{kind: k})
	}
	return s
}

func (s *fakeStream) ID() string { return s.id }

func (s *fakeStream) Tracks(kind core.TrackKind) []core.MediaTrack {
	var out []core.MediaTrack
	for _, t := range s.tracks {
		if t.kind == kind {
			out = append(out, t)
		}
	}
	return out
}

func (s *fakeStream) Stop() {
	s.stops++
	for _, t := range s.tracks {
		t.Stop()
	}
}

type fakeSource struct {
	streams []*fakeStream
	err     error
	calls   int
}

func (f *fakeSource) Acquire(context.Context) (core.MediaStream, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	s := f.streams[0]
	f.streams = f.streams[1:]
	return s, nil
}

func TestAcquireEnablesTracks(t *testing.T) {
	stream := newFakeStream("s1", core.KindVideo, core.KindAudio)
	c := NewController(&fakeSource{streams: []*fakeStream{stream}}, zerolog.Nop())

	require.NoError(t, c.Acquire(context.Background()))
	assert.Equal(t, domain.MediaState{HasStream: true, StreamID: "s1", VideoEnabled: true, AudioEnabled: true}, c.State())
	for _, tr := range stream.tracks {
		assert.True(t, tr.enabled)
	}
	assert.Same(t, stream, c.Stream())
}

func TestAcquireFailureIsNonFatal(t *testing.T) {
	src := &fakeSource{err: errors.New("permission denied")}
	c := NewController(src, zerolog.Nop())

	err := c.Acquire(context.Background())
	require.ErrorIs(t, err, domain.ErrMediaAcquisitionFailed)
	assert.Contains(t, err.Error(), "permission denied")
	assert.Equal(t, domain.MediaState{}, c.State())
	assert.Nil(t, c.Stream())

	assert.False(t, c.ToggleVideo())
	assert.False(t, c.ToggleAudio())
	assert.Equal(t, 1, src.calls, "no automatic retry")
}

func TestToggleIndependent(t *testing.T) {
	stream := newFakeStream("s1", core.KindVideo, core.KindAudio)
	c := NewController(&fakeSource{streams: []*fakeStream{stream}}, zerolog.Nop())
	require.NoError(t, c.Acquire(context.Background()))

	assert.False(t, c.ToggleVideo())
	st := c.State()
	assert.False(t, st.VideoEnabled)
	assert.True(t, st.AudioEnabled)
	assert.False(t, stream.tracks[0].enabled)
	assert.True(t, stream.tracks[1].enabled)

	assert.True(t, c.ToggleVideo())
	st = c.State()
	assert.True(t, st.VideoEnabled)
	assert.True(t, st.AudioEnabled)

	assert.False(t, c.ToggleAudio())
	st = c.State()
	assert.True(t, st.VideoEnabled)
	assert.False(t, st.AudioEnabled)
}

func TestToggleWithoutTrackOfKind(t *testing.T) {
	stream := newFakeStream("audio-only", core.KindAudio)
	c := NewController(&fakeSource{streams: []*fakeStream{stream}}, zerolog.Nop())
	require.NoError(t, c.Acquire(context.Background()))

	assert.True(t, c.ToggleVideo())
	assert.True(t, c.State().VideoEnabled)
}

func TestReleaseIdempotent(t *testing.T) {
	stream := newFakeStream("s1", core.KindVideo, core.KindAudio)
	c := NewController(&fakeSource{streams: []*fakeStream{stream}}, zerolog.Nop())
	require.NoError(t, c.Acquire(context.Background()))

	c.Release()
	c.Release()
	assert.Equal(t, 1, stream.stops)
	for _, tr := range stream.tracks {
		assert.True(t, tr.stopped)
	}
	assert.Equal(t, domain.MediaState{}, c.State())
}

func TestReacquireReleasesPrevious(t *testing.T) {
	first := newFakeStream("s1", core.KindVideo, core.KindAudio)
	second := newFakeStream("s2", core.KindVideo, core.KindAudio)
	c := NewController(&fakeSource{streams: []*fakeStream{first, second}}, zerolog.Nop())

	require.NoError(t, c.Acquire(context.Background()))
	c.ToggleVideo()
	require.NoError(t, c.Acquire(context.Background()))

	assert.Equal(t, 1, first.stops)
	assert.Zero(t, second.stops)
	st := c.State()
	assert.Equal(t, "s2", st.StreamID)
	assert.True(t, st.VideoEnabled)
}
