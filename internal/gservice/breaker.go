package gservice

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// newBreaker builds the circuit breaker guarding one provider API. Trips
// after sustained failure; an open breaker fails calls immediately.
func newBreaker(name string, log zerolog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})
}

func execute[T any](cb *gobreaker.CircuitBreaker, call func() (T, error)) (T, error) {
	v, err := cb.Execute(func() (any, error) {
		return call()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
