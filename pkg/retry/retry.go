package retry

import (
	"context"
	"github.com/icinga/icinga2-api/pkg/backoff"
	"github.com/pkg/errors"
	"net"
	"os"
	"syscall"
	"time"
)

// RetryableFunc is a retryable function.
type RetryableFunc func(context.Context) error

// IsRetryable checks whether a new attempt can be started based on the error passed.
type IsRetryable func(error) bool

// Settings aggregates optional settings for WithBackoff.
type Settings struct {
	// Attempts caps the number of tries, the first one included. Zero means no cap.
	Attempts uint64
	// Timeout limits the total time spent on a call, retries included. Zero means no limit.
	Timeout time.Duration
	// OnError is called after each failed attempt with the error of that attempt and
	// the error of the attempt before, which allows to suppress repeated log messages.
	OnError func(elapsed time.Duration, attempt uint64, err, lastErr error)
}

// WithBackoff retries the passed function if it fails and the error allows it to retry.
// The specified backoff policy is used to determine how long to sleep between attempts.
// Once the configured timeout (if any) elapses or the attempt cap is reached, WithBackoff gives up.
func WithBackoff(
	ctx context.Context, retryableFunc RetryableFunc, retryable IsRetryable, b backoff.Backoff, settings Settings,
) (err error) {
	parentCtx := ctx

	if settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.Timeout)
		defer cancel()
	}

	start := time.Now()
	for attempt := uint64(1); ; attempt++ {
		prevErr := err

		if err = retryableFunc(ctx); err == nil {
			return
		}

		// Retryable function may have exited prematurely due to context errors.
		// We explicitly check the parent context here in order to distinguish
		// between a canceled caller and our own elapsed retry timeout.
		if parentCtx.Err() != nil {
			if prevErr != nil {
				err = prevErr
			}

			return errors.Wrap(err, "can't retry")
		}

		if !retryable(err) {
			return errors.Wrap(err, "can't retry")
		}

		if settings.Attempts > 0 && attempt >= settings.Attempts {
			return errors.Wrapf(err, "retry deadline exceeded after %d attempt(s)", attempt)
		}

		// Only called when another attempt follows, so callers may
		// safely announce a retry.
		if settings.OnError != nil {
			settings.OnError(time.Since(start), attempt, err, prevErr)
		}

		select {
		case <-time.After(b(attempt - 1)):
		case <-ctx.Done():
			if prevErr != nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)) {
				err = prevErr
			}

			return errors.Wrap(err, "can't retry")
		}
	}
}

// Retryable returns true for common errors that are considered retryable,
// i.e. temporary, timeout, DNS, connection refused and reset errors.
func Retryable(err error) bool {
	var networkError *net.OpError
	if errors.As(err, &networkError) && networkError.Temporary() {
		return true
	}

	var timeoutError interface{ Timeout() bool }
	if errors.As(err, &timeoutError) && timeoutError.Timeout() {
		return true
	}

	var dnsError *net.DNSError
	if errors.As(err, &dnsError) {
		return true
	}

	var syscallError *os.SyscallError
	if errors.As(err, &syscallError) {
		switch syscallError.Err {
		case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.EPIPE, syscall.ETIMEDOUT:
			return true
		}
	}

	return false
}
