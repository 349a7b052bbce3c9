package resilience

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

const (
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 15 * time.Second
	defaultHalfOpenTrials   = 2
)

// CircuitBreakerConfig zero values fall back to the defaults above. A
// disabled breaker admits every call.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
	// OnStateChange runs outside the breaker lock.
	OnStateChange    func(from, to CircuitState)
}

// CircuitBreaker trips after FailureThreshold consecutive failures, rejects
// calls for OpenTimeout, then admits up to HalfOpenMaxReq trial calls. Every
// trial call must succeed for it to close again.
type CircuitBreaker struct {
	mu    sync.Mutex
	cfg   CircuitBreakerConfig
	clock clockwork.Clock

	state     CircuitState
	failures  int
	openedAt  time.Time
	trials    int
	successes int
}

func NewCircuitBreaker(cfg CircuitBreakerConfig, clock clockwork.Clock) *CircuitBreaker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaultFailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaultOpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaultHalfOpenTrials
	}
	return &CircuitBreaker{cfg: cfg, clock: clock, state: CircuitStateClosed}
}

// Allow reports whether a call may proceed. Each admitted call must be
// followed by exactly one Done.
func (b *CircuitBreaker) Allow() error {
	if !b.cfg.Enabled {
		return nil
	}

	b.mu.Lock()
	from := b.state
	if b.state == CircuitStateOpen && b.clock.Since(b.openedAt) >= b.cfg.OpenTimeout {
		b.setLocked(CircuitStateHalfOpen)
	}

	var err error
	switch b.state {
	case CircuitStateOpen:
		err = ErrCircuitOpen
	case CircuitStateHalfOpen:
		if b.trials >= b.cfg.HalfOpenMaxReq {
			err = ErrCircuitOpen
		} else {
			b.trials++
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
	return err
}

// Done records the outcome of an admitted call.
func (b *CircuitBreaker) Done(failed bool) {
	if !b.cfg.Enabled {
		return
	}

	b.mu.Lock()
	from := b.state
	switch b.state {
	case CircuitStateClosed:
		if !failed {
			b.failures = 0
			break
		}
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.setLocked(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		if b.trials > 0 {
			b.trials--
		}
		if failed {
			b.setLocked(CircuitStateOpen)
			break
		}
		b.successes++
		if b.successes >= b.cfg.HalfOpenMaxReq && b.trials == 0 {
			b.setLocked(CircuitStateClosed)
		}
	case CircuitStateOpen:
		if failed {
			b.openedAt = b.clock.Now()
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

// State is the state the next Allow would observe.
func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.clock.Since(b.openedAt) >= b.cfg.OpenTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) setLocked(state CircuitState) {
	b.state = state
	b.trials = 0
	b.successes = 0
	switch state {
	case CircuitStateOpen:
		b.openedAt = b.clock.Now()
	case CircuitStateClosed:
		b.failures = 0
		b.openedAt = time.Time{}
	}
}

func (b *CircuitBreaker) notify(from, to CircuitState) {
	if from != to && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(from, to)
	}
}
