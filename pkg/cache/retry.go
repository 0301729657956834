package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable is wrapped by connection errors of the network backends.
var ErrUnavailable = errors.New("cache backend unavailable")

// Backoff retries an operation with a delay that doubles after every
// failed attempt.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// DialBackoff governs how long [NewRedisCache] and [NewMongoCache] wait for
// their server to answer. Tests shorten Delay.
var DialBackoff = Backoff{Attempts: 3, Delay: time.Second}

// Do calls fn until it succeeds, returns an error that is not [Transient],
// or the attempts run out. The last error is returned. A cancelled ctx stops
// the wait between attempts.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	delay := b.Delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsTransient(err) || attempt >= b.Attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}

// IsUnavailable reports whether err wraps [ErrUnavailable].
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }

type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as worth retrying. Transient(nil) is nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err was marked with [Transient].
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// waitReachable pings a backend under [DialBackoff].
func waitReachable(ctx context.Context, ping func(context.Context) error) error {
	return DialBackoff.Do(ctx, func() error {
		if err := ping(ctx); err != nil {
			return Transient(fmt.Errorf("%w: %w", ErrUnavailable, err))
		}
		return nil
	})
}
