package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalMessageTrims(t *testing.T) {
	now := time.Date(2024, 5, 1, 21, 7, 0, 0, time.UTC)
	msg, err := NewLocalMessage("  hello \n", now)
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, OriginLocal, msg.Origin)
	assert.Equal(t, "21:07", msg.Clock())
	assert.NotEmpty(t, msg.ID)
}

func TestNewLocalMessageValidation(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		text string
		err  error
	}{
		{"empty", "", ErrEmptyMessage},
		{"whitespace", " \t\n ", ErrEmptyMessage},
		{"too long", strings.Repeat("a", MaxMessageLen+1), ErrMessageTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLocalMessage(tt.text, now)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNewLocalMessageCountsRunes(t *testing.T) {
	_, err := NewLocalMessage(strings.Repeat("é", MaxMessageLen), time.Now())
	assert.NoError(t, err)
}

func TestMessageIDsOrderedWithinMillisecond(t *testing.T) {
	now := time.Now()
	local, err := NewLocalMessage("hi", now)
	require.NoError(t, err)
	remote := NewRemoteMessage("hello", now)
	assert.NotEqual(t, local.ID, remote.ID)
	assert.Less(t, string(local.ID), string(remote.ID))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "connecting", PhaseConnecting.String())
	assert.Equal(t, "connected", PhaseConnected.String())
	assert.Equal(t, "unknown", Phase(42).String())
}

func TestPhaseTextRoundTrip(t *testing.T) {
	var p Phase
	require.NoError(t, p.UnmarshalText([]byte("connecting")))
	assert.Equal(t, PhaseConnecting, p)
	assert.Error(t, p.UnmarshalText([]byte("dialing")))
}
