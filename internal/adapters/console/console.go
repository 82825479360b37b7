// Package console is a terminal front end for a single chat session.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dkeye/RandomChat/internal/app/orch"
	"github.com/dkeye/RandomChat/internal/domain"
	"github.com/fatih/color"
)

const help = `commands:
  /start  find someone to chat with
  /next   skip to a new stranger
  /end    end the chat
  /video  toggle camera
  /audio  toggle microphone
  /media  retry camera and microphone
  /state  show the current state
  /quit   leave
anything else is sent as a message`

type Console struct {
	orch *orch.Orchestrator
	out  io.Writer

	mu          sync.Mutex
	lastVersion uint64
	lastPhase   domain.Phase
	printed     map[domain.MessageID]bool

	info   *color.Color
	local  *color.Color
	remote *color.Color
	warn   *color.Color
}

func New(o *orch.Orchestrator, out io.Writer) *Console {
	c := &Console{
		orch:    o,
		out:     out,
		printed: make(map[domain.MessageID]bool),
		info:    color.New(color.FgYellow),
		local:   color.New(color.FgCyan, color.Bold),
		remote:  color.New(color.FgMagenta, color.Bold),
		warn:    color.New(color.FgRed),
	}
	o.OnState(c.render)
	return c
}

// Run reads commands from in until EOF, /quit or ctx cancellation.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	if err := c.orch.AcquireMedia(ctx); err != nil {
		c.warnf("camera/microphone unavailable: %v", err)
	}
	c.infof("%s", help)

	lines := make(chan string)
	errc := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
		errc <- sc.Err()
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-errc
			}
			if c.Handle(ctx, line) {
				return nil
			}
		}
	}
}

// Handle executes one input line and reports whether the user asked to quit.
func (c *Console) Handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
	case "/start":
		c.orch.StartChat()
	case "/next":
		c.orch.Next()
	case "/end":
		c.orch.EndCall()
	case "/video":
		c.orch.ToggleVideo()
	case "/audio":
		c.orch.ToggleAudio()
	case "/media":
		if err := c.orch.AcquireMedia(ctx); err != nil {
			c.warnf("camera/microphone unavailable: %v", err)
		}
	case "/state":
		c.printState(c.orch.Snapshot())
	case "/help":
		c.infof("%s", help)
	case "/quit":
		return true
	default:
		if strings.HasPrefix(line, "/") {
			c.warnf("unknown command %s", line)
			return false
		}
		if c.orch.Snapshot().Phase != domain.PhaseConnected {
			c.warnf("not connected, type /start first")
			return false
		}
		if n := utf8.RuneCountInString(line); n > domain.MaxMessageLen {
			c.warnf("message too long (%d characters, at most %d)", n, domain.MaxMessageLen)
			return false
		}
		c.orch.SendMessage(line)
	}
	return false
}

func (c *Console) render(st orch.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st.Version != 0 && st.Version < c.lastVersion {
		return
	}
	c.lastVersion = st.Version

	if st.Phase != c.lastPhase {
		c.lastPhase = st.Phase
		switch st.Phase {
		case domain.PhaseConnecting:
			c.infof("looking for someone to chat with...")
		case domain.PhaseConnected:
			c.infof("connected! (connections: %d)", st.ConnectionCount)
		case domain.PhaseIdle:
			c.infof("chat ended")
		}
	}

	if len(st.Messages) == 0 {
		clear(c.printed)
	}
	for _, m := range st.Messages {
		if c.printed[m.ID] {
			continue
		}
		c.printed[m.ID] = true
		who, col := "stranger", c.remote
		if m.Origin == domain.OriginLocal {
			who, col = "you", c.local
		}
		fmt.Fprintf(c.out, "[%s] %s %s\n", m.Clock(), col.Sprint(who+":"), m.Text)
	}
}

func (c *Console) printState(st orch.State) {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	c.infof("phase: %s | connections: %d | messages: %d | video: %s | audio: %s",
		st.Phase, st.ConnectionCount, len(st.Messages),
		onOff(st.Media.VideoEnabled), onOff(st.Media.AudioEnabled))
}

func (c *Console) infof(format string, args ...any) {
	c.info.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) warnf(format string, args ...any) {
	c.warn.Fprintf(c.out, format+"\n", args...)
}
