// File: internal/retry/retry_test.go
package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExecuteSucceedsFirstAttempt(t *testing.T) {
	p := NewPolicy(zap.NewNop())

	calls := 0
	err := p.Execute(context.Background(), "navigate", func() error {
		calls++
		return nil
	}, 3, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecuteRecoversAfterTransientFailure(t *testing.T) {
	p := NewPolicy(zap.NewNop())

	calls := 0
	err := p.Execute(context.Background(), "click", func() error {
		calls++
		if calls < 3 {
			return errors.New("element intercepted")
		}
		return nil
	}, 5, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecuteExhaustsAttempts(t *testing.T) {
	p := NewPolicy(zap.NewNop())

	sentinel := errors.New("element not found")
	calls := 0
	err := p.Execute(context.Background(), "click", func() error {
		calls++
		return sentinel
	}, 3, time.Millisecond)

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, sentinel, "the final error must remain unwrappable")
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestExecuteTreatsZeroAttemptsAsOne(t *testing.T) {
	p := NewPolicy(zap.NewNop())

	calls := 0
	err := p.Execute(context.Background(), "probe", func() error {
		calls++
		return errors.New("nope")
	}, 0, time.Millisecond)

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecuteAbortsOnContextCancel(t *testing.T) {
	p := NewPolicy(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := p.Execute(ctx, "slow", func() error {
		calls++
		cancel()
		return errors.New("still failing")
	}, 10, 50*time.Millisecond)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, calls, 10, "cancellation must cut the attempt budget short")
}
