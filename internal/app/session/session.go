// Package session implements the pairing lifecycle: Idle -> Connecting ->
// Connected, skip back to Connecting, end to Idle from anywhere.
package session

import (
	"sync"
	"time"

	"github.com/dkeye/RandomChat/internal/app/timer"
	"github.com/dkeye/RandomChat/internal/domain"
	"github.com/rs/zerolog"
)

type Config struct {
	ConnectMin time.Duration
	ConnectMax time.Duration
	Greeting   string
}

func DefaultConfig() Config {
	return Config{
		ConnectMin: 2 * time.Second,
		ConnectMax: 5 * time.Second,
		Greeting:   "Hi there! 👋",
	}
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	Phase           domain.Phase     `json:"phase"`
	ConnectionCount int              `json:"connection_count"`
	Messages        []domain.Message `json:"messages"`
	Generation      uint64           `json:"generation"`
	Version         uint64           `json:"version"`
}

// Session serializes every mutation, including deferred ones, behind mu.
type Session struct {
	mu       sync.Mutex
	cfg      Config
	rnd      timer.Rand
	tasks    *timer.Group
	logger   zerolog.Logger
	onChange func(Snapshot)

	phase    domain.Phase
	count    int
	messages []domain.Message
	version  uint64
}

func New(cfg Config, sched timer.Scheduler, rnd timer.Rand, logger zerolog.Logger) *Session {
	return &Session{
		cfg:    cfg,
		rnd:    rnd,
		tasks:  timer.NewGroup(sched),
		logger: logger.With().Str("module", "app.session").Logger(),
	}
}

// OnChange sets a callback invoked after every observable mutation, outside the lock.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *Session) Start() error {
	s.mu.Lock()
	if s.phase != domain.PhaseIdle {
		phase := s.phase
		s.mu.Unlock()
		s.logger.Debug().Str("phase", phase.String()).Msg("start ignored")
		return domain.ErrInvalidTransition
	}
	s.connectLocked()
	s.commitAndUnlock()
	return nil
}

// Next skips the current counterpart and looks for a new one.
func (s *Session) Next() error {
	s.mu.Lock()
	if s.phase != domain.PhaseConnected {
		phase := s.phase
		s.mu.Unlock()
		s.logger.Debug().Str("phase", phase.String()).Msg("next ignored")
		return domain.ErrInvalidTransition
	}
	s.messages = nil
	s.connectLocked()
	s.commitAndUnlock()
	return nil
}

func (s *Session) End() {
	s.mu.Lock()
	s.tasks.Advance()
	s.phase = domain.PhaseIdle
	s.messages = nil
	s.logger.Info().Uint64("generation", s.tasks.Epoch()).Msg("session ended")
	s.commitAndUnlock()
}

// AppendLocal stores a user-authored message. Only valid while connected.
// The returned generation identifies the pairing the message belongs to.
func (s *Session) AppendLocal(text string) (domain.Message, uint64, error) {
	s.mu.Lock()
	if s.phase != domain.PhaseConnected {
		s.mu.Unlock()
		return domain.Message{}, 0, domain.ErrInvalidTransition
	}
	msg, err := domain.NewLocalMessage(text, s.tasks.Now())
	if err != nil {
		s.mu.Unlock()
		return domain.Message{}, 0, err
	}
	s.messages = append(s.messages, msg)
	gen := s.tasks.Epoch()
	s.commitAndUnlock()
	return msg, gen, nil
}

// ScheduleRemote appends a counterpart message after d. gen is the pairing
// the reply answers; once that pairing is gone the reply is rejected now or
// discarded when it fires.
func (s *Session) ScheduleRemote(gen uint64, d time.Duration, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.PhaseConnected || gen != s.tasks.Epoch() {
		return domain.ErrInvalidTransition
	}
	s.afterLocked(d, func() {
		s.messages = append(s.messages, domain.NewRemoteMessage(text, s.tasks.Now()))
	})
	return nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) connectLocked() {
	s.tasks.Advance()
	s.phase = domain.PhaseConnecting
	s.messages = nil

	delay := timer.Uniform(s.rnd, s.cfg.ConnectMin, s.cfg.ConnectMax)
	s.logger.Info().
		Uint64("generation", s.tasks.Epoch()).
		Dur("delay", delay).
		Msg("looking for a partner")
	s.afterLocked(delay, func() {
		s.phase = domain.PhaseConnected
		s.count++
		s.messages = []domain.Message{domain.NewRemoteMessage(s.cfg.Greeting, s.tasks.Now())}
		s.logger.Info().Int("connection_count", s.count).Msg("partner connected")
	})
}

func (s *Session) afterLocked(d time.Duration, effect func()) {
	s.tasks.Schedule(d, func(tk timer.Ticket) {
		s.mu.Lock()
		if !s.tasks.Claim(tk) {
			s.mu.Unlock()
			s.logger.Debug().Uint64("generation", tk.Epoch()).Msg("stale timer discarded")
			return
		}
		effect()
		s.commitAndUnlock()
	})
}

// commitAndUnlock bumps the version, releases mu and publishes the new state.
func (s *Session) commitAndUnlock() {
	s.version++
	snap := s.snapshotLocked()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

func (s *Session) snapshotLocked() Snapshot {
	msgs := make([]domain.Message, len(s.messages))
	copy(msgs, s.messages)
	return Snapshot{
		Phase:           s.phase,
		ConnectionCount: s.count,
		Messages:        msgs,
		Generation:      s.tasks.Epoch(),
		Version:         s.version,
	}
}
