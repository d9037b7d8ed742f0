package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvokerCapturesOutput(t *testing.T) {
	invoker, err := NewInvoker("predict", writeScript(t, `printf '%s' "$1"; printf 'warning' >&2`), time.Minute, nil)
	require.NoError(t, err)

	inv, err := invoker.Run(context.Background(), "bucket/datasets/abc/test.txt")
	require.NoError(t, err)

	assert.Equal(t, "bucket/datasets/abc/test.txt", string(inv.Stdout))
	assert.Equal(t, "warning", string(inv.Stderr))
	assert.Equal(t, 0, inv.ExitCode)
	assert.Equal(t, "bucket/datasets/abc/test.txt", inv.Argument)
	assert.Equal(t, "/bin/sh", inv.Executable)
}

func TestInvokerPassesConfiguredArgsFirst(t *testing.T) {
	script := writeScript(t, `printf '%s|%s' "$1" "$2"`)
	invoker, err := NewInvoker("predict", append(script, "--verbose"), time.Minute, nil)
	require.NoError(t, err)

	inv, err := invoker.Run(context.Background(), "b/k")
	require.NoError(t, err)
	assert.Equal(t, "--verbose|b/k", string(inv.Stdout))
}

func TestInvokerNonZeroExit(t *testing.T) {
	invoker, err := NewInvoker("predict", writeScript(t, `echo partial; echo boom >&2; exit 3`), time.Minute, nil)
	require.NoError(t, err)

	inv, err := invoker.Run(context.Background(), "b/k")
	require.ErrorIs(t, err, ErrProcessExitedNonZero)
	require.NotNil(t, inv)
	assert.Equal(t, 3, inv.ExitCode)
	assert.Equal(t, "partial\n", string(inv.Stdout))
	assert.Equal(t, "boom\n", string(inv.Stderr))
}

func TestInvokerSpawnFailure(t *testing.T) {
	invoker, err := NewInvoker("predict", []string{"/nonexistent/job-binary"}, time.Minute, nil)
	require.NoError(t, err)

	inv, err := invoker.Run(context.Background(), "b/k")
	assert.ErrorIs(t, err, ErrProcessSpawnFailed)
	assert.Nil(t, inv)
}

func TestInvokerTimeout(t *testing.T) {
	invoker, err := NewInvoker("monitor", writeScript(t, `exec sleep 10`), 100*time.Millisecond, nil)
	require.NoError(t, err)

	start := time.Now()
	inv, err := invoker.Run(context.Background(), "b/k")
	assert.ErrorIs(t, err, ErrTimeout)
	require.NotNil(t, inv)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestInvokerRequestCancelled(t *testing.T) {
	invoker, err := NewInvoker("predict", writeScript(t, `exec sleep 10`), time.Minute, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	_, err = invoker.Run(ctx, "b/k")
	assert.ErrorIs(t, err, ErrUnexpectedIO)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestInvokerRequiresCommand(t *testing.T) {
	_, err := NewInvoker("predict", nil, time.Minute, nil)
	assert.Error(t, err)

	_, err = NewInvoker("predict", []string{""}, time.Minute, nil)
	assert.Error(t, err)
}

func TestInvokerRespectsGate(t *testing.T) {
	gate := NewGate(1, 50*time.Millisecond)
	release, err := gate.Acquire(context.Background())
	require.NoError(t, err)

	invoker, err := NewInvoker("predict", writeScript(t, `echo '[]'`), time.Minute, gate)
	require.NoError(t, err)

	_, err = invoker.Run(context.Background(), "b/k")
	assert.ErrorIs(t, err, ErrOverloaded)

	release()

	inv, err := invoker.Run(context.Background(), "b/k")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(inv.Stdout))
}
