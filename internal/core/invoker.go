package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"slices"
	"time"
)

// waitDelay bounds how long Wait keeps draining stdout/stderr once the
// process group has been killed, in case a process that left the group still
// holds the pipes.
var waitDelay = 5 * time.Second

// Invocation is the captured result of one external job run.
type Invocation struct {
	Executable string
	Argument   string
	Stdout     []byte
	Stderr     []byte
	ExitCode   int
	Duration   time.Duration
}

// Invoker runs one external program (prediction or monitoring) per call.
type Invoker struct {
	name    string
	command []string
	timeout time.Duration
	gate    *Gate
}

func NewInvoker(name string, command []string, timeout time.Duration, gate *Gate) (*Invoker, error) {
	if len(command) == 0 || command[0] == "" {
		return nil, fmt.Errorf("no command configured for %s job", name)
	}
	return &Invoker{
		name:    name,
		command: slices.Clone(command),
		timeout: timeout,
		gate:    gate,
	}, nil
}

func (i *Invoker) Name() string {
	return i.name
}

// Run starts the command with arg appended as its last positional argument
// and waits for it to terminate. The returned Invocation is non-nil whenever
// the process was started, including when it exited non-zero.
func (i *Invoker) Run(ctx context.Context, arg string) (*Invocation, error) {
	release, err := i.gate.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	args := append(slices.Clone(i.command[1:]), arg)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, i.command[0], args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	startInProcessGroup(cmd)

	inv := &Invocation{Executable: i.command[0], Argument: arg, ExitCode: -1}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		if ctxErr := i.contextError(ctx); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrProcessSpawnFailed, i.command[0], err)
	}

	slog.Debug("job started", "job", i.name, "pid", cmd.Process.Pid, "arg", arg)

	waitErr := cmd.Wait()
	inv.Duration = time.Since(start)

	// Background children the job left behind must not outlive its slot.
	if err := killProcessGroup(cmd); err != nil {
		slog.Warn("failed to kill job process group", "job", i.name, "pid", cmd.Process.Pid, "error", err)
	}

	inv.Stdout = stdout.Bytes()
	inv.Stderr = stderr.Bytes()
	if cmd.ProcessState != nil {
		inv.ExitCode = cmd.ProcessState.ExitCode()
	}

	if ctxErr := i.contextError(ctx); ctxErr != nil {
		return inv, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return inv, fmt.Errorf("%w: %s exited with code %d", ErrProcessExitedNonZero, i.name, inv.ExitCode)
	}
	if waitErr != nil {
		return inv, fmt.Errorf("%w: waiting for %s job: %w", ErrUnexpectedIO, i.name, waitErr)
	}

	return inv, nil
}

func (i *Invoker) contextError(ctx context.Context) error {
	switch err := ctx.Err(); {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s job exceeded %s", ErrTimeout, i.name, i.timeout)
	default:
		return fmt.Errorf("%w: %s job cancelled: %w", ErrUnexpectedIO, i.name, err)
	}
}
