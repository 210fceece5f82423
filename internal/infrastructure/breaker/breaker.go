// Package breaker guards store calls with a circuit breaker.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/iho/paywal/internal/domain"
)

// StateObserver receives breaker state changes.
type StateObserver interface {
	SetBreakerState(name string, state int)
}

// Config configures a StoreGuard.
type Config struct {
	Name        string
	MaxFailures uint32        // consecutive failures before the breaker opens
	OpenTimeout time.Duration // how long the breaker stays open before probing
	MaxRequests uint32        // probes allowed while half-open
	Observer    StateObserver
	Logger      zerolog.Logger
}

// StoreGuard implements usecase.StoreGuard on top of gobreaker.
type StoreGuard struct {
	cb *gobreaker.CircuitBreaker
}

// New creates a StoreGuard; zero fields take defaults.
func New(cfg Config) *StoreGuard {
	if cfg.Name == "" {
		cfg.Name = "store"
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}

	logger := cfg.Logger.With().Str("breaker", cfg.Name).Logger()
	if cfg.Observer != nil {
		cfg.Observer.SetBreakerState(cfg.Name, int(gobreaker.StateClosed))
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("store breaker state changed")
			if cfg.Observer != nil {
				cfg.Observer.SetBreakerState(name, int(to))
			}
		},
		IsSuccessful: isSuccessful,
	}

	return &StoreGuard{cb: gobreaker.NewCircuitBreaker(settings)}
}

// Execute runs operation unless the breaker is open.
func (g *StoreGuard) Execute(operation func() error) error {
	_, err := g.cb.Execute(func() (any, error) {
		return nil, operation()
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	return err
}

// State returns the current breaker state.
func (g *StoreGuard) State() gobreaker.State {
	return g.cb.State()
}

// isSuccessful reports whether err leaves the store's health untouched.
// Business rejections, conflicts and lookups that found nothing mean the store answered.
// Anything unclassified is treated as a store failure.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if errors.Is(err, context.Canceled) ||
		errors.Is(err, domain.ErrAccountNotFound) ||
		errors.Is(err, domain.ErrRecordNotFound) ||
		errors.Is(err, domain.ErrDuplicateRecord) {
		return true
	}

	reason, ok := domain.ReasonOf(err)
	if !ok {
		return false
	}

	return reason != domain.ReasonStoreUnavailable && reason != domain.ReasonTimeout
}
