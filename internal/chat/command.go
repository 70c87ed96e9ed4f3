package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"
)

// DefaultBinary is the chat CLI CommandEngine runs when Binary is empty.
const DefaultBinary = "gptme"

// interruptedExitCode is the shell convention for a process ended by SIGINT.
const interruptedExitCode = 130

// CommandEngine implements Engine by running a gptme-compatible CLI as a
// child process.
type CommandEngine struct {
	Binary  string
	Verbose bool
	// Stdout and Stderr receive the child's output; nil means the parent's.
	Stdout io.Writer
	Stderr io.Writer
	// GracePeriod bounds how long an interrupted child may take to exit
	// before it is killed. Zero means 10 seconds.
	GracePeriod time.Duration
}

func (e *CommandEngine) binary() string {
	if e.Binary == "" {
		return DefaultBinary
	}
	return e.Binary
}

// BuildArgs constructs the argument list for the chat CLI.
func (e *CommandEngine) BuildArgs(req Request) []string {
	args := []string{"--name", req.Name}
	if req.Model != "" {
		args = append(args, "--model", req.Model)
	}
	if req.Workspace != "" {
		args = append(args, "--workspace", req.Workspace)
	}
	if req.NoConfirm {
		args = append(args, "--no-confirm")
	}
	if !req.Interactive {
		args = append(args, "--non-interactive")
	}
	if e.Verbose {
		args = append(args, "--verbose")
	}
	for _, m := range req.System {
		args = append(args, "--system", m.Content)
	}
	// Prompts are positional; "--" keeps one starting with "-" from being
	// read as a flag.
	args = append(args, "--")
	for _, m := range req.Messages {
		args = append(args, m.Content)
	}
	return args
}

// workDir returns the directory the child runs in.
func workDir(req Request) string {
	if req.Workspace == WorkspaceLog {
		return filepath.Join(req.LogDir, "workspace")
	}
	return req.Workspace
}

// Chat runs the CLI and waits for it to exit. Cancelling ctx interrupts the
// child, which counts as InterruptedEarly, as does the child exiting on
// SIGINT/SIGTERM or with status 130. Any other failure is returned as an error.
func (e *CommandEngine) Chat(ctx context.Context, req Request) (Outcome, error) {
	cmd := exec.CommandContext(ctx, e.binary(), e.BuildArgs(req)...)
	cmd.Dir = workDir(req)
	cmd.Stdout = e.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = e.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = e.GracePeriod
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = 10 * time.Second
	}

	runErr := cmd.Run()
	if runErr == nil {
		return Completed, nil
	}
	if ctx.Err() != nil || interrupted(runErr) {
		return InterruptedEarly, nil
	}
	return Completed, fmt.Errorf("%s command failed: %w", e.binary(), runErr)
}

func interrupted(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	if exitErr.ExitCode() == interruptedExitCode {
		return true
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		sig := ws.Signal()
		return sig == syscall.SIGINT || sig == syscall.SIGTERM
	}
	return false
}
