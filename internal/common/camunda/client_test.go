package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "poi-workers/internal/common/errors"
)

func testClient() *Client {
	return &Client{config: &ClientConfig{
		RetryConfig: &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond},
	}}
}

func TestExecuteWithRetry(t *testing.T) {
	t.Run("transient errors are retried", func(t *testing.T) {
		calls := 0
		err := testClient().ExecuteWithRetry(context.Background(), func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("rpc error: code = Unavailable")
			}
			return nil
		}, "topology")

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("permanent errors are not", func(t *testing.T) {
		calls := 0
		err := testClient().ExecuteWithRetry(context.Background(), func(context.Context) error {
			calls++
			return errors.New("process not found")
		}, "topology")

		assert.Equal(t, 1, calls)
		stdErr, ok := commonerrors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, commonerrors.ErrorCode("RESOURCE_NOT_FOUND"), stdErr.Code)
	})

	t.Run("retries run out", func(t *testing.T) {
		calls := 0
		err := testClient().ExecuteWithRetry(context.Background(), func(context.Context) error {
			calls++
			return errors.New("context deadline exceeded")
		}, "topology")

		assert.Equal(t, 3, calls)
		stdErr, ok := commonerrors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, commonerrors.ErrorCode("TIMEOUT_ERROR"), stdErr.Code)
		assert.Contains(t, stdErr.Details, "after 3 attempts")
	})

	t.Run("cancelled while backing off", func(t *testing.T) {
		c := testClient()
		c.config.RetryConfig.BaseDelay = time.Hour
		c.config.RetryConfig.MaxDelay = time.Hour

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := c.ExecuteWithRetry(ctx, func(context.Context) error {
			return errors.New("connection refused")
		}, "topology")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
