package noiseapi

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"terraview/internal/errors"
)

func TestRetry(t *testing.T) {
	t.Run("success first try", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), 3, time.Millisecond, func() error {
			calls++
			return nil
		})
		if err != nil || calls != 1 {
			t.Errorf("err=%v calls=%d", err, calls)
		}
	})

	t.Run("non-retryable returns immediately", func(t *testing.T) {
		calls := 0
		want := errors.New(errors.ErrCodeInvalidParams, "bad")
		err := Retry(context.Background(), 3, time.Millisecond, func() error {
			calls++
			return want
		})
		if err != want || calls != 1 {
			t.Errorf("err=%v calls=%d", err, calls)
		}
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), 3, time.Millisecond, func() error {
			calls++
			return errors.Retryable(stderrors.New("flaky"))
		})
		if err == nil || calls != 3 {
			t.Errorf("err=%v calls=%d", err, calls)
		}
	})

	t.Run("context cancel stops waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := Retry(ctx, 3, time.Hour, func() error {
			return errors.Retryable(stderrors.New("flaky"))
		})
		if err != context.Canceled {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}
