package app

import (
	"context"
	"sync"

	"github.com/dkeye/RandomChat/internal/app/orch"
	"github.com/dkeye/RandomChat/internal/core"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	Orch   *orch.Orchestrator
	Signal core.SignalConnection
	Media  core.MediaConnection
	Cancel context.CancelFunc
}

// Registry maps a client token to its live chat session.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
	}
}

// Bind attaches a session to sid. A previous binding for the same sid
// (a second tab with the same cookie) is torn down first.
func (r *Registry) Bind(
	sid core.SessionID,
	o *orch.Orchestrator,
	sig core.SignalConnection,
	cancel context.CancelFunc,
) {
	r.mu.Lock()
	old := r.sessions[sid]
	r.sessions[sid] = &sessionEntry{Orch: o, Signal: sig, Cancel: cancel}
	r.mu.Unlock()

	if old != nil {
		log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("replacing bound session")
		old.teardown()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("bound session")
}

func (r *Registry) Get(sid core.SessionID) (*orch.Orchestrator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Orch, true
	}
	return nil, false
}

// UpdateMedia stores the peer connection of sid, closing the one it replaces.
func (r *Registry) UpdateMedia(sid core.SessionID, mc core.MediaConnection) bool {
	r.mu.Lock()
	e, ok := r.sessions[sid]
	var old core.MediaConnection
	if ok {
		old, e.Media = e.Media, mc
	}
	r.mu.Unlock()
	if !ok {
		return false
	}
	if old != nil {
		old.Close()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("updated media")
	return true
}

func (r *Registry) Media(sid core.SessionID) (core.MediaConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok || e.Media == nil {
		return nil, false
	}
	return e.Media, true
}

// Unbind removes sid only while it is still bound to sig, so a stale
// connection closing late cannot tear down its replacement.
func (r *Registry) Unbind(sid core.SessionID, sig core.SignalConnection) bool {
	r.mu.Lock()
	e, ok := r.sessions[sid]
	if !ok || e.Signal != sig {
		r.mu.Unlock()
		return false
	}
	delete(r.sessions, sid)
	r.mu.Unlock()

	e.teardown()
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
	return true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll tears every session down, used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	entries := r.sessions
	r.sessions = make(map[core.SessionID]*sessionEntry)
	r.mu.Unlock()
	for _, e := range entries {
		e.teardown()
	}
}

func (e *sessionEntry) teardown() {
	if e.Cancel != nil {
		e.Cancel()
	}
	if e.Media != nil {
		e.Media.Close()
	}
	if e.Orch != nil {
		e.Orch.Close()
	}
	if e.Signal != nil {
		e.Signal.Close()
	}
}
