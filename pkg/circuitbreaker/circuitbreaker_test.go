package circuitbreaker

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failing() error { return fmt.Errorf("connection refused") }

func succeeding() error { return nil }

func newBreaker(timeout time.Duration) *CircuitBreaker {
	return NewCircuitBreaker(Settings{
		Name:        "test",
		MaxFailures: 3,
		Timeout:     timeout,
	})
}

func TestBreakerOpensAfterMaxFailures(t *testing.T) {
	cb := newBreaker(time.Minute)

	for i := 0; i < 3; i++ {
		require.Error(t, cb.Execute(failing))
	}
	assert.Equal(t, StateOpen, cb.State())

	// Calls are rejected without running fn while open.
	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := newBreaker(time.Minute)

	require.Error(t, cb.Execute(failing))
	require.Error(t, cb.Execute(failing))
	require.NoError(t, cb.Execute(succeeding))

	// The streak restarted, so two more failures do not trip it.
	require.Error(t, cb.Execute(failing))
	require.Error(t, cb.Execute(failing))
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := newBreaker(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		require.Error(t, cb.Execute(failing))
	}
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(15 * time.Millisecond)

	// The trial call goes through and closes the breaker.
	require.NoError(t, cb.Execute(succeeding))
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerReopensWhenTrialCallFails(t *testing.T) {
	cb := newBreaker(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		require.Error(t, cb.Execute(failing))
	}

	time.Sleep(15 * time.Millisecond)

	require.Error(t, cb.Execute(failing))
	assert.Equal(t, StateOpen, cb.State())
}
