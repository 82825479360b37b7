package console

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/RandomChat/internal/app/orch"
	"github.com/dkeye/RandomChat/internal/app/timer"
	"github.com/dkeye/RandomChat/internal/core"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deniedSource struct{}

func (deniedSource) Acquire(context.Context) (core.MediaStream, error) {
	return nil, errors.New("denied")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newConsole(t *testing.T) (*Console, *timer.Manual, *syncBuffer) {
	t.Helper()
	color.NoColor = true
	clock := timer.NewManual(time.Date(2024, 2, 2, 14, 30, 0, 0, time.UTC))
	o := orch.New(orch.DefaultConfig(), clock, rand.New(rand.NewPCG(5, 5)), deniedSource{}, zerolog.Nop())
	out := &syncBuffer{}
	return New(o, out), clock, out
}

func TestConsoleConversation(t *testing.T) {
	c, clock, out := newConsole(t)
	ctx := context.Background()

	assert.False(t, c.Handle(ctx, "hello"))
	assert.Contains(t, out.String(), "not connected")

	c.Handle(ctx, "/start")
	assert.Contains(t, out.String(), "looking for someone")

	clock.Advance(5 * time.Second)
	assert.Contains(t, out.String(), "connected! (connections: 1)")
	assert.Contains(t, out.String(), "[14:30] stranger: Hi there! 👋")

	c.Handle(ctx, "how are you?")
	assert.Contains(t, out.String(), "you: how are you?")

	c.Handle(ctx, "/end")
	assert.Contains(t, out.String(), "chat ended")

	c.Handle(ctx, "/state")
	assert.Contains(t, out.String(), "phase: idle | connections: 1 | messages: 0")
	assert.True(t, c.Handle(ctx, "/quit"))
}

func TestConsoleMessagesPrintedOnce(t *testing.T) {
	c, clock, out := newConsole(t)
	ctx := context.Background()
	c.Handle(ctx, "/start")
	clock.Advance(5 * time.Second)
	c.Handle(ctx, "/video")
	c.Handle(ctx, "/audio")

	assert.Equal(t, 1, strings.Count(out.String(), "stranger: Hi there!"))
}

func TestConsoleWarnsOnLongMessage(t *testing.T) {
	c, clock, out := newConsole(t)
	ctx := context.Background()
	c.Handle(ctx, "/start")
	clock.Advance(5 * time.Second)

	c.Handle(ctx, strings.Repeat("é", 1001))
	assert.Contains(t, out.String(), "message too long (1001 characters, at most 1000)")
	assert.Len(t, c.orch.Snapshot().Messages, 1)

	c.Handle(ctx, strings.Repeat("é", 1000))
	assert.Len(t, c.orch.Snapshot().Messages, 2)
}

func TestConsoleUnknownCommand(t *testing.T) {
	c, _, out := newConsole(t)
	assert.False(t, c.Handle(context.Background(), "/dance"))
	assert.Contains(t, out.String(), "unknown command /dance")
}

func TestConsoleRunUntilQuit(t *testing.T) {
	c, _, out := newConsole(t)
	err := c.Run(context.Background(), strings.NewReader("/start\n/quit\nnever\n"))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "camera/microphone unavailable")
	assert.Contains(t, out.String(), "looking for someone")
}

func TestConsoleRunUntilEOF(t *testing.T) {
	c, _, _ := newConsole(t)
	assert.NoError(t, c.Run(context.Background(), strings.NewReader("/state\n")))
}
