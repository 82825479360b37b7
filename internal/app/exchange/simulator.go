// Package exchange simulates the counterpart side of a conversation.
package exchange

import (
	"sync"
	"time"

	"github.com/dkeye/RandomChat/internal/app/session"
	"github.com/dkeye/RandomChat/internal/app/timer"
	"github.com/dkeye/RandomChat/internal/domain"
	"github.com/rs/zerolog"
)

// Replies is the canned corpus a simulated counterpart answers from.
var Replies = []string{
	"That's interesting!",
	"Tell me more about that",
	"I agree!",
	"Hmm, what do you think about...",
	"Nice! Where are you from?",
	"Cool! I'm from [location]",
	"What are your hobbies?",
	"Haha, that's funny!",
	"Really? That's amazing!",
	"I see, interesting perspective",
}

// Rand is satisfied by *math/rand/v2.Rand.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type Config struct {
	ReplyProbability float64
	ReplyMin         time.Duration
	ReplyMax         time.Duration
	Corpus           []string
}

func DefaultConfig() Config {
	return Config{
		ReplyProbability: 0.7,
		ReplyMin:         time.Second,
		ReplyMax:         3 * time.Second,
		Corpus:           Replies,
	}
}

type Simulator struct {
	sess   *session.Session
	cfg    Config
	logger zerolog.Logger

	mu  sync.Mutex
	rnd Rand
}

func NewSimulator(sess *session.Session, cfg Config, rnd Rand, logger zerolog.Logger) *Simulator {
	if len(cfg.Corpus) == 0 {
		cfg.Corpus = Replies
	}
	return &Simulator{
		sess:   sess,
		cfg:    cfg,
		rnd:    rnd,
		logger: logger.With().Str("module", "app.exchange").Logger(),
	}
}

// SendLocal appends the user's message and maybe schedules a reply.
// Errors come from the session: not connected, empty or too long text.
func (s *Simulator) SendLocal(text string) (domain.Message, error) {
	msg, gen, err := s.sess.AppendLocal(text)
	if err != nil {
		return domain.Message{}, err
	}

	reply, delay, ok := s.draw()
	if !ok {
		s.logger.Debug().Str("message_id", string(msg.ID)).Msg("no reply this time")
		return msg, nil
	}
	if err := s.sess.ScheduleRemote(gen, delay, reply); err != nil {
		// the pairing ended between the append and the schedule
		s.logger.Debug().Err(err).Msg("reply not scheduled")
		return msg, nil
	}
	s.logger.Debug().
		Str("message_id", string(msg.ID)).
		Dur("delay", delay).
		Msg("reply scheduled")
	return msg, nil
}

func (s *Simulator) draw() (string, time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rnd.Float64() >= s.cfg.ReplyProbability {
		return "", 0, false
	}
	delay := timer.Uniform(s.rnd, s.cfg.ReplyMin, s.cfg.ReplyMax)
	return s.cfg.Corpus[s.rnd.IntN(len(s.cfg.Corpus))], delay, true
}
