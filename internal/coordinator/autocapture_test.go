package coordinator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/contextvault/internal/coreutil"
	"github.com/mvp-joe/contextvault/internal/retrieve"
)

func TestCall_UncaughtUnknownErrorAutoCapturesFeedbackEntry(t *testing.T) {
	c := openTestCoordinator(t)

	_, err := call(c, context.Background(), "flaky_tool", func(ctx context.Context) (string, error) {
		return "", errors.New("native module crashed")
	})
	require.Error(t, err)

	rows, err := c.retrieve.List(context.Background(), retrieve.ListOptions{Kind: "feedback"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].Body, "native module crashed")
}

func TestCall_ClassifiedErrorDoesNotAutoCapture(t *testing.T) {
	c := openTestCoordinator(t)

	_, err := call(c, context.Background(), "validation_tool", func(ctx context.Context) (string, error) {
		return "", coreutil.NewError(coreutil.CodeInvalidArgument, "bad input")
	})
	require.Error(t, err)

	rows, err := c.retrieve.List(context.Background(), retrieve.ListOptions{Kind: "feedback"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
