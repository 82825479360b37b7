// Package orch composes the session state machine, the message exchange
// simulator and the local media controller behind user-facing actions.
package orch

import (
	"context"
	"errors"
	"sync"

	"github.com/dkeye/RandomChat/internal/app/exchange"
	"github.com/dkeye/RandomChat/internal/app/media"
	"github.com/dkeye/RandomChat/internal/app/session"
	"github.com/dkeye/RandomChat/internal/domain"
	"github.com/rs/zerolog"
)

type Config struct {
	Session  session.Config
	Exchange exchange.Config
}

func DefaultConfig() Config {
	return Config{
		Session:  session.DefaultConfig(),
		Exchange: exchange.DefaultConfig(),
	}
}

// State is everything a presentation layer renders.
type State struct {
	session.Snapshot
	Media domain.MediaState `json:"media"`
}

type Orchestrator struct {
	Session  *session.Session
	Exchange *exchange.Simulator
	Media    *media.Controller

	logger  zerolog.Logger
	onState func(State)

	// pubMu orders pushes; version counts session and media changes alike.
	pubMu   sync.Mutex
	version uint64
}

func (o *Orchestrator) StartChat() {
	o.ignoreInvalid("start", o.Session.Start())
}

func (o *Orchestrator) Next() {
	o.ignoreInvalid("next", o.Session.Next())
}

func (o *Orchestrator) EndCall() {
	o.Session.End()
}

func (o *Orchestrator) SendMessage(text string) {
	_, err := o.Exchange.SendLocal(text)
	o.ignoreInvalid("message", err)
}

func (o *Orchestrator) ToggleVideo() {
	o.Media.ToggleVideo()
	o.publish()
}

func (o *Orchestrator) ToggleAudio() {
	o.Media.ToggleAudio()
	o.publish()
}

// AcquireMedia (re)acquires the local stream. The error is a warning only:
// the chat keeps working without local media.
func (o *Orchestrator) AcquireMedia(ctx context.Context) error {
	err := o.Media.Acquire(ctx)
	o.publish()
	return err
}

func (o *Orchestrator) Snapshot() State {
	o.pubMu.Lock()
	defer o.pubMu.Unlock()
	return o.stateLocked()
}

// OnState sets the callback receiving every new State. Must be set before
// any action is invoked. fn must not call back into the orchestrator.
func (o *Orchestrator) OnState(fn func(State)) {
	o.onState = fn
}

// Close ends the session and releases local media.
func (o *Orchestrator) Close() {
	o.Session.End()
	o.Media.Release()
	o.logger.Info().Msg("orchestrator closed")
}

func (o *Orchestrator) onSession(session.Snapshot) {
	o.publish()
}

// publish reads session and media together and delivers the result before
// any later push can be built, so Version order matches content order.
func (o *Orchestrator) publish() {
	o.pubMu.Lock()
	defer o.pubMu.Unlock()
	o.version++
	if o.onState == nil {
		return
	}
	o.onState(o.stateLocked())
}

func (o *Orchestrator) stateLocked() State {
	st := State{
		Snapshot: o.Session.Snapshot(),
		Media:    o.Media.State(),
	}
	st.Version = o.version
	return st
}

// UI buttons are disabled in states that reject an action; a call that still
// arrives is dropped here.
func (o *Orchestrator) ignoreInvalid(action string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrMessageTooLong):
		o.logger.Debug().Err(err).Str("action", action).Msg("action ignored")
	default:
		o.logger.Error().Err(err).Str("action", action).Msg("action failed")
	}
}
