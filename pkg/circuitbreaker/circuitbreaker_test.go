package circuitbreaker

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
)

func TestReadyToTrip(t *testing.T) {
	tests := []struct {
		name   string
		counts gobreaker.Counts
		trip   bool
	}{
		{"no requests", gobreaker.Counts{}, false},
		{"few failures", gobreaker.Counts{Requests: 20, TotalFailures: 5}, false},
		{"below cap", gobreaker.Counts{Requests: 10, TotalFailures: 10}, false},
		{"over cap and ratio", gobreaker.Counts{Requests: 11, TotalFailures: 7}, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.trip, readyToTrip(tt.counts))
		})
	}
}

func TestCircuitBreakerOpens(t *testing.T) {
	cb := NewCircuitBreaker("test")
	boom := errors.New("node unavailable")

	for i := 0; i <= MaxNumOfFailingRequests; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, boom })
		require.ErrorIs(t, err, boom)
	}
	require.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := cb.Execute(func() (interface{}, error) { return nil, nil })
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
}
