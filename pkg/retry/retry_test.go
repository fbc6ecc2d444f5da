package retry

import (
	"context"
	"github.com/icinga/icinga2-api/pkg/backoff"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func notRetryable(error) bool { return false }

func TestWithBackoff(t *testing.T) {
	ctx := context.Background()
	b := backoff.NewExponentialWithJitter(time.Millisecond, 2*time.Millisecond)

	t.Run("success-needs-no-retry", func(t *testing.T) {
		calls := 0
		err := WithBackoff(ctx, func(context.Context) error {
			calls++
			return nil
		}, func(error) bool { return true }, b, Settings{Attempts: 3})

		require.NoError(t, err)
		require.Equal(t, 1, calls)
	})

	t.Run("retries-until-success", func(t *testing.T) {
		calls := 0
		err := WithBackoff(ctx, func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("boom")
			}
			return nil
		}, func(error) bool { return true }, b, Settings{Attempts: 5})

		require.NoError(t, err)
		require.Equal(t, 3, calls)
	})

	t.Run("attempt-cap", func(t *testing.T) {
		calls := 0
		err := WithBackoff(ctx, func(context.Context) error {
			calls++
			return errors.New("boom")
		}, func(error) bool { return true }, b, Settings{Attempts: 3})

		require.Error(t, err)
		require.Equal(t, 3, calls)
	})

	t.Run("non-retryable-short-circuits", func(t *testing.T) {
		calls := 0
		err := WithBackoff(ctx, func(context.Context) error {
			calls++
			return errors.New("boom")
		}, notRetryable, b, Settings{Attempts: 3})

		require.Error(t, err)
		require.Equal(t, 1, calls)
	})
}

func TestWithBackoffOnErrorFiresOnlyBeforeAnotherAttempt(t *testing.T) {
	ctx := context.Background()
	b := backoff.NewExponentialWithJitter(time.Millisecond, 2*time.Millisecond)
	fail := func(context.Context) error { return errors.New("boom") }

	t.Run("single-attempt-never-announces-a-retry", func(t *testing.T) {
		onErrorCalls := 0
		err := WithBackoff(ctx, fail, func(error) bool { return true }, b, Settings{
			Attempts: 1,
			OnError: func(time.Duration, uint64, error, error) {
				onErrorCalls++
			},
		})

		require.Error(t, err)
		require.Equal(t, 0, onErrorCalls)
	})

	t.Run("once-per-followup-attempt", func(t *testing.T) {
		onErrorCalls := 0
		err := WithBackoff(ctx, fail, func(error) bool { return true }, b, Settings{
			Attempts: 3,
			OnError: func(time.Duration, uint64, error, error) {
				onErrorCalls++
			},
		})

		require.Error(t, err)
		require.Equal(t, 2, onErrorCalls)
	})
}
