package coordinator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/contextvault/internal/coreutil"
)

func TestCall_ReturnsResultOnSuccess(t *testing.T) {
	c := openTestCoordinator(t)

	result, err := call(c, context.Background(), "test_tool", func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)

	snap := c.Metrics()
	assert.Equal(t, int64(1), snap.Successes)
	assert.Equal(t, 0, snap.ActiveOps)
}

func TestCall_PropagatesHandlerError(t *testing.T) {
	c := openTestCoordinator(t)
	wantErr := errors.New("boom")

	_, err := call(c, context.Background(), "test_tool", func(ctx context.Context) (string, error) {
		return "", wantErr
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, int64(1), c.Metrics().Errors)
}

func TestCall_TimesOutSlowHandlerAndReportsTimeoutCode(t *testing.T) {
	c := openTestCoordinator(t)

	blocked := make(chan struct{})
	defer close(blocked)

	_, err := callWithTimeout(c, context.Background(), "slow_tool", 10*time.Millisecond, func(ctx context.Context) (string, error) {
		<-blocked
		return "too late", nil
	})
	require.Error(t, err)
	assert.Equal(t, coreutil.CodeTimeout, coreutil.AsCode(err))
	assert.Equal(t, int64(1), c.Metrics().Timeouts)
}
