package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTransient(t *testing.T) {
	if Transient(nil) != nil {
		t.Error("Transient(nil) should be nil")
	}
	err := Transient(ErrUnavailable)
	if !IsTransient(err) {
		t.Error("IsTransient should see the mark")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("Transient should keep the wrapped error reachable")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), ErrUnavailable.Error())
	}
	if IsTransient(ErrUnavailable) {
		t.Error("an unmarked error is not transient")
	}
}

func TestBackoffDo(t *testing.T) {
	ctx := context.Background()
	b := Backoff{Attempts: 3, Delay: time.Millisecond}
	permanent := errors.New("bad credentials")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, nil, 1, false},
		{"permanent stops at once", 5, permanent, 1, true},
		{"recovers after one failure", 1, Transient(ErrUnavailable), 2, false},
		{"gives up after all attempts", 5, Transient(ErrUnavailable), 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := b.Do(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("Do() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackoffDoCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := Backoff{Attempts: 3, Delay: time.Hour}
	err := b.Do(ctx, func() error { return Transient(ErrUnavailable) })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
}

func TestWaitReachable(t *testing.T) {
	defer func(b Backoff) { DialBackoff = b }(DialBackoff)
	DialBackoff = Backoff{Attempts: 2, Delay: time.Millisecond}

	pings := 0
	err := waitReachable(context.Background(), func(context.Context) error {
		pings++
		return errors.New("connection refused")
	})
	if !errors.Is(err, ErrUnavailable) || pings != 2 {
		t.Errorf("waitReachable() = %v after %d pings, want ErrUnavailable after 2", err, pings)
	}
}
