package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFailed = errors.New("failed")

func failing() error { return errFailed }

func execute(b *Breaker, fn func() error) error {
	_, err := Run(b, func() (struct{}, error) { return struct{}{}, fn() })
	return err
}

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		settings      Settings
		requests      []bool // true = success, false = failure
		expectedState State
	}{
		{
			name:          "stays closed on successes",
			settings:      Settings{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute},
			requests:      []bool{true, true, true},
			expectedState: StateClosed,
		},
		{
			name: "opens after consecutive failures",
			settings: Settings{
				MaxRequests: 1,
				Interval:    time.Minute,
				Timeout:     time.Minute,
				ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 3 },
			},
			requests:      []bool{false, false, false},
			expectedState: StateOpen,
		},
		{
			name: "success resets the failure streak",
			settings: Settings{
				Interval:    time.Minute,
				ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 2 },
			},
			requests:      []bool{false, true, false},
			expectedState: StateClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breaker := New("test", tt.settings)
			for _, success := range tt.requests {
				_ = execute(breaker, func() error {
					if success {
						return nil
					}
					return errFailed
				})
			}
			assert.Equal(t, tt.expectedState, breaker.State())
		})
	}
}

func TestBreakerTripSeesGenerationCounts(t *testing.T) {
	var seen []Counts
	breaker := New("test", Settings{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts Counts) bool {
			seen = append(seen, counts)
			return counts.ConsecutiveFailures >= 2
		},
	})

	require.NoError(t, execute(breaker, func() error { return nil }))
	assert.ErrorIs(t, execute(breaker, failing), errFailed)
	assert.ErrorIs(t, execute(breaker, failing), errFailed)

	require.Len(t, seen, 2)
	assert.Equal(t, Counts{Requests: 2, TotalSuccesses: 1, TotalFailures: 1, ConsecutiveFailures: 1}, seen[0])
	assert.Equal(t, Counts{Requests: 3, TotalSuccesses: 1, TotalFailures: 2, ConsecutiveFailures: 2}, seen[1])
	assert.Equal(t, StateOpen, breaker.State())
}

func TestBreakerOpenRejects(t *testing.T) {
	breaker := New("test", Settings{
		Timeout:     time.Minute,
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 2 },
	})
	for i := 0; i < 2; i++ {
		_ = execute(breaker, failing)
	}
	require.Equal(t, StateOpen, breaker.State())

	called := false
	err := execute(breaker, func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerHalfOpenCloses(t *testing.T) {
	breaker := New("test", Settings{
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     50 * time.Millisecond,
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 2 },
	})
	for i := 0; i < 2; i++ {
		_ = execute(breaker, failing)
	}
	require.Equal(t, StateOpen, breaker.State())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, breaker.State())

	for i := 0; i < 2; i++ {
		require.NoError(t, execute(breaker, func() error { return nil }))
	}
	assert.Equal(t, StateClosed, breaker.State())
}

func TestBreakerIgnoresClassifiedErrors(t *testing.T) {
	errMissing := errors.New("missing")
	breaker := New("test", Settings{
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
		IsFailure:   func(err error) bool { return err != nil && !errors.Is(err, errMissing) },
	})

	v, err := Run(breaker, func() (int, error) { return 0, errMissing })
	assert.ErrorIs(t, err, errMissing)
	assert.Zero(t, v)
	assert.Equal(t, StateClosed, breaker.State())

	v, err = Run(breaker, func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestBreakerCallbacks(t *testing.T) {
	var transitions []string
	breaker := New("test", Settings{
		Timeout:     10 * time.Millisecond,
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 2 },
		OnStateChange: func(_ string, from State, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})
	for i := 0; i < 2; i++ {
		_ = execute(breaker, failing)
	}
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, StateHalfOpen, breaker.State())
	assert.Equal(t, []string{"closed->open", "open->half-open"}, transitions)
}
