package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithExponentialBackoff_Success(t *testing.T) {
	t.Parallel()
	attempts := 0

	err := WithExponentialBackoff(context.Background(), func() error {
		attempts++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestWithExponentialBackoff_SuccessAfterRetries(t *testing.T) {
	t.Parallel()
	attempts := 0

	err := WithExponentialBackoff(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}, WithInitialDelay(time.Millisecond))

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithExponentialBackoff_MaxRetries(t *testing.T) {
	t.Parallel()
	attempts := 0

	err := WithExponentialBackoff(context.Background(), func() error {
		attempts++
		return errors.New("persistent error")
	}, WithMaxRetries(3), WithInitialDelay(time.Millisecond))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "persistent error")
	// MaxRetries counts retries after the first attempt.
	assert.Equal(t, 4, attempts)
}

func TestWithExponentialBackoff_ContextCancellation(t *testing.T) {
	t.Parallel()
	attempts := 0
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithExponentialBackoff(ctx, func() error {
		attempts++
		return errors.New("error")
	}, WithInitialDelay(10*time.Millisecond))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestWithExponentialBackoff_FatalError(t *testing.T) {
	t.Parallel()
	attempts := 0
	cause := errors.New("invalid input")

	err := WithExponentialBackoff(context.Background(), func() error {
		attempts++
		return Fatal(cause)
	}, WithInitialDelay(time.Millisecond))

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.True(t, isFatal(err))
	assert.Equal(t, 1, attempts)
}

func TestWithExponentialBackoff_OnRetry(t *testing.T) {
	t.Parallel()
	var seen []int

	err := WithExponentialBackoff(context.Background(), func() error {
		return errors.New("flaky")
	},
		WithMaxRetries(2),
		WithInitialDelay(time.Millisecond),
		WithOnRetry(func(attempt int, err error) {
			assert.EqualError(t, err, "flaky")
			seen = append(seen, attempt)
		}))

	require.Error(t, err)
	// The final failed attempt is not followed by a retry.
	assert.Equal(t, []int{1, 2}, seen)
}

func TestWithExponentialBackoff_MaxDelayCapsBackoff(t *testing.T) {
	t.Parallel()
	attempts := 0
	start := time.Now()

	_ = WithExponentialBackoff(context.Background(), func() error {
		attempts++
		return errors.New("error")
	},
		WithMaxRetries(4),
		WithInitialDelay(5*time.Millisecond),
		WithMultiplier(10),
		WithMaxDelay(10*time.Millisecond))

	assert.Equal(t, 5, attempts)
	// 5ms + 3*10ms without the cap would be 5+50+500+5000ms.
	assert.Less(t, time.Since(start), time.Second)
}

func TestFatal(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Fatal(nil))

	cause := errors.New("boom")
	err := Fatal(cause)
	assert.True(t, isFatal(err))
	assert.Equal(t, "boom", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.False(t, isFatal(cause))
	assert.False(t, isFatal(nil))
}

func TestWithExponentialBackoff_ZeroRetriesRunsOnce(t *testing.T) {
	t.Parallel()
	attempts := 0

	err := WithExponentialBackoff(context.Background(), func() error {
		attempts++
		return errors.New("down")
	}, WithMaxRetries(0), WithOnRetry(func(int, error) {
		t.Error("no retry expected")
	}))

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Contains(t, err.Error(), "after 1 attempts")
}
