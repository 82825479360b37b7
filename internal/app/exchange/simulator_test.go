package exchange

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/dkeye/RandomChat/internal/app/session"
	"github.com/dkeye/RandomChat/internal/app/timer"
	"github.com/dkeye/RandomChat/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRand replays Float64 values in order and always picks index pick.
type scriptedRand struct {
	floats []float64
	pick   int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *scriptedRand) IntN(n int) int { return r.pick % n }

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func connected(t *testing.T) (*session.Session, *timer.Manual) {
	t.Helper()
	clock := timer.NewManual(time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC))
	sess := session.New(session.DefaultConfig(), clock, fixedRand(0), zerolog.Nop())
	require.NoError(t, sess.Start())
	clock.Advance(5 * time.Second)
	require.Equal(t, domain.PhaseConnected, sess.Phase())
	return sess, clock
}

func TestCorpusSize(t *testing.T) {
	assert.Len(t, Replies, 10)
}

func TestSendLocalSchedulesReply(t *testing.T) {
	sess, clock := connected(t)
	r := &scriptedRand{floats: []float64{0.1, 0.9999999}, pick: 2}
	sim := NewSimulator(sess, DefaultConfig(), r, zerolog.Nop())

	msg, err := sim.SendLocal("hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Text)
	assert.Len(t, sess.Snapshot().Messages, 2)

	clock.Advance(2999 * time.Millisecond)
	assert.Len(t, sess.Snapshot().Messages, 2)

	clock.Advance(time.Millisecond)
	msgs := sess.Snapshot().Messages
	require.Len(t, msgs, 3)
	assert.Equal(t, domain.OriginRemote, msgs[2].Origin)
	assert.Equal(t, Replies[2], msgs[2].Text)
}

func TestSendLocalNoReply(t *testing.T) {
	sess, clock := connected(t)
	sim := NewSimulator(sess, DefaultConfig(), &scriptedRand{floats: []float64{0.7}}, zerolog.Nop())

	_, err := sim.SendLocal("hello")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	assert.Len(t, sess.Snapshot().Messages, 2)
}

func TestSendLocalRejected(t *testing.T) {
	sess, _ := connected(t)
	sim := NewSimulator(sess, DefaultConfig(), &scriptedRand{}, zerolog.Nop())

	_, err := sim.SendLocal("   ")
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)

	sess.End()
	_, err = sim.SendLocal("hello")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, sess.Snapshot().Messages)
}

func TestReplyDroppedAfterEnd(t *testing.T) {
	sess, clock := connected(t)
	sim := NewSimulator(sess, DefaultConfig(), &scriptedRand{floats: []float64{0, 0.5}}, zerolog.Nop())

	_, err := sim.SendLocal("hello")
	require.NoError(t, err)
	sess.End()
	clock.Advance(time.Minute)

	snap := sess.Snapshot()
	assert.Equal(t, domain.PhaseIdle, snap.Phase)
	assert.Empty(t, snap.Messages)
}

func TestReplyCountBounded(t *testing.T) {
	for seed := range uint64(50) {
		sess, clock := connected(t)
		sim := NewSimulator(sess, DefaultConfig(), rand.New(rand.NewPCG(seed, seed+1)), zerolog.Nop())

		_, err := sim.SendLocal("hi")
		require.NoError(t, err)
		msgs := sess.Snapshot().Messages
		require.Len(t, msgs, 2)
		assert.Equal(t, "hi", msgs[1].Text)
		assert.Equal(t, domain.OriginLocal, msgs[1].Origin)

		clock.Advance(3 * time.Second)
		n := len(sess.Snapshot().Messages)
		assert.GreaterOrEqual(t, n, 2)
		assert.LessOrEqual(t, n, 3)
	}
}

func TestReplyProbabilityRoughly(t *testing.T) {
	sess, clock := connected(t)
	sim := NewSimulator(sess, DefaultConfig(), rand.New(rand.NewPCG(7, 11)), zerolog.Nop())

	const sends = 2000
	for range sends {
		_, err := sim.SendLocal("ping")
		require.NoError(t, err)
	}
	clock.Advance(3 * time.Second)

	replies := 0
	for _, m := range sess.Snapshot().Messages[1:] {
		if m.Origin == domain.OriginRemote {
			replies++
			assert.Contains(t, Replies, m.Text)
		}
	}
	ratio := float64(replies) / sends
	assert.InDelta(t, 0.7, ratio, 0.05)
}

// interleavingRand runs before once, on the first draw, then replays floats.
type interleavingRand struct {
	scriptedRand
	before func()
}

func (r *interleavingRand) Float64() float64 {
	if r.before != nil {
		fn := r.before
		r.before = nil
		fn()
	}
	return r.scriptedRand.Float64()
}

func TestReplyNotCarriedIntoNextPairing(t *testing.T) {
	clock := timer.NewManual(time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC))
	cfg := session.DefaultConfig()
	cfg.ConnectMin, cfg.ConnectMax = 0, 0
	sess := session.New(cfg, clock, fixedRand(0), zerolog.Nop())
	require.NoError(t, sess.Start())
	clock.Advance(0)
	require.Equal(t, domain.PhaseConnected, sess.Phase())

	r := &interleavingRand{
		scriptedRand: scriptedRand{floats: []float64{0, 0}},
		before: func() {
			// the pairing ends and a new one connects while the reply is drawn
			sess.End()
			require.NoError(t, sess.Start())
			clock.Advance(0)
		},
	}
	sim := NewSimulator(sess, DefaultConfig(), r, zerolog.Nop())

	_, err := sim.SendLocal("hi")
	require.NoError(t, err)
	clock.Advance(time.Minute)

	snap := sess.Snapshot()
	assert.Equal(t, domain.PhaseConnected, snap.Phase)
	assert.Equal(t, 2, snap.ConnectionCount)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, cfg.Greeting, snap.Messages[0].Text)
}
