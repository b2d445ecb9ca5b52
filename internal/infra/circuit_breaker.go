package infra

import (
	"errors"
	"sync"
	"time"
)

// Circuit breaker guarding calls to the external CRM. A run of delivery
// failures trips it open so checkout and the retry cron stop hammering a dead
// endpoint; after a cooldown a single probe decides whether to close again.

// CBState represents the current circuit breaker state.
type CBState int

const (
	CBClosed   CBState = iota // requests flow normally
	CBOpen                    // fast-fail everything until the cooldown elapses
	CBHalfOpen                // probing recovery
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned when Execute is called while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig holds tunable parameters.
type CircuitBreakerConfig struct {
	FailureThreshold int           // consecutive failures before tripping open
	SuccessThreshold int           // consecutive half-open successes before closing
	OpenTimeout      time.Duration // cooldown before the first probe
}

// DefaultCBConfig returns the defaults used for the CRM breaker.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      60 * time.Second,
	}
}

// CircuitBreaker tracks consecutive outcomes and transitions state under a
// single mutex.
type CircuitBreaker struct {
	mu        sync.Mutex
	state     CBState
	failures  int
	successes int
	trippedAt time.Time
	cfg       CircuitBreakerConfig
}

// NewCircuitBreaker creates a breaker in the closed state. Zero or negative
// config values fall back to the defaults.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{state: CBClosed, cfg: cfg}
}

// State returns the current state, promoting open to half-open once the
// cooldown has elapsed. Safe for concurrent use.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CBOpen && time.Since(cb.trippedAt) >= cb.cfg.OpenTimeout {
		cb.state = CBHalfOpen
		cb.successes = 0
	}
	return cb.state
}

// Execute runs fn unless the breaker is open, in which case it returns
// ErrCircuitOpen without calling fn.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if cb.State() == CBOpen {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.recordFailure()
		return err
	}
	cb.recordSuccess()
	return nil
}

// recordFailure must be called under cb.mu.
func (cb *CircuitBreaker) recordFailure() {
	cb.failures++
	cb.trippedAt = time.Now()

	switch cb.state {
	case CBClosed:
		if cb.failures >= cb.cfg.FailureThreshold {
			cb.state = CBOpen
			cb.successes = 0
		}
	case CBHalfOpen:
		// Probe failed, back to cooldown.
		cb.state = CBOpen
		cb.failures = 0
	}
}

// recordSuccess must be called under cb.mu.
func (cb *CircuitBreaker) recordSuccess() {
	switch cb.state {
	case CBClosed:
		cb.failures = 0
	case CBHalfOpen:
		cb.successes++
		if cb.successes >= cb.cfg.SuccessThreshold {
			cb.state = CBClosed
			cb.failures = 0
			cb.successes = 0
		}
	}
}
