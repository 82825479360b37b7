package orch

import (
	"math/rand/v2"
	"sync"

	"github.com/dkeye/RandomChat/internal/app/exchange"
	"github.com/dkeye/RandomChat/internal/app/media"
	"github.com/dkeye/RandomChat/internal/app/session"
	"github.com/dkeye/RandomChat/internal/app/timer"
	"github.com/dkeye/RandomChat/internal/core"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Factory builds one Orchestrator per client session.
type Factory struct {
	Config    Config
	Scheduler timer.Scheduler
	Source    core.MediaSource
	// NewRand defaults to a randomly seeded PCG.
	NewRand func() exchange.Rand
}

func (f *Factory) New(sid core.SessionID) *Orchestrator {
	logger := log.With().Str("sid", string(sid)).Logger()
	return New(f.Config, f.Scheduler, f.rand(), f.Source, logger)
}

func (f *Factory) rand() exchange.Rand {
	if f.NewRand != nil {
		return f.NewRand()
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func New(
	cfg Config,
	sched timer.Scheduler,
	rnd exchange.Rand,
	source core.MediaSource,
	logger zerolog.Logger,
) *Orchestrator {
	// session and simulator draw from different goroutines
	shared := &lockedRand{r: rnd}
	sess := session.New(cfg.Session, sched, shared, logger)
	o := &Orchestrator{
		Session:  sess,
		Exchange: exchange.NewSimulator(sess, cfg.Exchange, shared, logger),
		Media:    media.NewController(source, logger),
		logger:   logger.With().Str("module", "app.orch").Logger(),
	}
	sess.OnChange(o.onSession)
	return o
}

type lockedRand struct {
	mu sync.Mutex
	r  exchange.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}
