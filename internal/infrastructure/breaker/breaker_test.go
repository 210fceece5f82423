package breaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/paywal/internal/domain"
	"github.com/iho/paywal/internal/usecase"
)

var _ usecase.StoreGuard = (*StoreGuard)(nil)

type recordingObserver struct {
	states []int
}

func (r *recordingObserver) SetBreakerState(name string, state int) {
	r.states = append(r.states, state)
}

func newTestGuard(obs StateObserver) *StoreGuard {
	return New(Config{
		Name:        "test",
		MaxFailures: 2,
		OpenTimeout: time.Hour,
		Observer:    obs,
		Logger:      zerolog.Nop(),
	})
}

func TestExecutePassesThroughResult(t *testing.T) {
	g := newTestGuard(nil)

	require.NoError(t, g.Execute(func() error { return nil }))

	err := g.Execute(func() error { return domain.ErrInsufficientFunds })
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestOpensAfterConsecutiveUnavailable(t *testing.T) {
	obs := &recordingObserver{}
	g := newTestGuard(obs)

	for i := 0; i < 2; i++ {
		err := g.Execute(func() error { return domain.ErrStoreUnavailable })
		require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	}

	assert.Equal(t, gobreaker.StateOpen, g.State())

	called := false
	err := g.Execute(func() error {
		called = true
		return nil
	})

	assert.False(t, called, "operation must not run while open")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, []int{int(gobreaker.StateClosed), int(gobreaker.StateOpen)}, obs.states)
}

func TestDeadlineExceededCountsAsFailure(t *testing.T) {
	g := newTestGuard(nil)

	for i := 0; i < 2; i++ {
		_ = g.Execute(func() error { return context.DeadlineExceeded })
	}

	assert.Equal(t, gobreaker.StateOpen, g.State())
}

func TestBusinessErrorsDoNotTrip(t *testing.T) {
	g := newTestGuard(nil)

	errs := []error{
		domain.ErrInsufficientFunds,
		domain.ErrConcurrentConflict,
		domain.ErrAccountNotFound,
		domain.ErrRecordNotFound,
		context.Canceled,
	}
	for _, e := range errs {
		for i := 0; i < 3; i++ {
			_ = g.Execute(func() error { return e })
		}
	}

	assert.Equal(t, gobreaker.StateClosed, g.State())
}

func TestUnclassifiedErrorsTrip(t *testing.T) {
	g := newTestGuard(nil)

	for i := 0; i < 2; i++ {
		_ = g.Execute(func() error { return errors.New("read tcp: connection reset by peer") })
	}

	assert.Equal(t, gobreaker.StateOpen, g.State())
}

func TestIsSuccessful(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, true},
		{"timeout", domain.ErrTimeout, false},
		{"unavailable", domain.ErrStoreUnavailable, false},
		{"deadline", context.DeadlineExceeded, false},
		{"conflict", domain.ErrConcurrentConflict, true},
		{"insufficient", domain.ErrInsufficientFunds, true},
		{"not found", domain.ErrAccountNotFound, true},
		{"duplicate", domain.ErrDuplicateRecord, true},
		{"canceled", context.Canceled, true},
		{"driver error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isSuccessful(tt.err))
		})
	}
}
