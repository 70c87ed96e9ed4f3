// Package agent runs an autonomous coding agent against a prompt inside an
// isolated workspace and hands back the files it produced.
package agent

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"

	"github.com/CodexForgeBR/gptme-harness/internal/chat"
	"github.com/CodexForgeBR/gptme-harness/internal/files"
	"github.com/CodexForgeBR/gptme-harness/internal/logging"
	"github.com/CodexForgeBR/gptme-harness/internal/signal"
)

// StopTryingSuffix is appended to the system prompt of every evaluation run.
const StopTryingSuffix = "\n\nIf you have trouble and dont seem to make progress, stop trying."

// runNamePrefix prefixes every derived run name.
const runNamePrefix = "gptme-evals-"

// ErrWorkspaceConflict matches every *WorkspaceConflictError.
var ErrWorkspaceConflict = errors.New("workspace already exists")

// WorkspaceConflictError reports a run whose workspace directory is already
// present on disk.
type WorkspaceConflictError struct {
	Path string
}

func (e *WorkspaceConflictError) Error() string {
	return fmt.Sprintf("workspace directory %s already exists", e.Path)
}

func (e *WorkspaceConflictError) Is(target error) bool {
	return target == ErrWorkspaceConflict
}

// Agent carries out a prompt and returns the resulting artifacts.
type Agent interface {
	Act(ctx context.Context, input files.Files, prompt string) (files.Files, error)
}

// GPTMe drives the chat engine once per Act call, in a fresh workspace under
// LogsDir.
type GPTMe struct {
	Model    string
	LogsDir  string
	Engine   chat.Engine
	Prompter chat.SystemPrompter

	// HandleSignals routes SIGINT/SIGTERM during generation into the
	// engine's context instead of the process default.
	HandleSignals bool
}

var _ Agent = (*GPTMe)(nil)

// RunName derives the conversation name for a model and prompt. The same
// pair always yields the same name; distinct prompts can collide.
func RunName(model, prompt string) string {
	h := fnv.New64a()
	h.Write([]byte(prompt))
	id := h.Sum64() % 1_000_000
	return fmt.Sprintf("%s%s-%d", runNamePrefix, strings.ReplaceAll(model, "/", "--"), id)
}

// LogDir returns the conversation log directory for a run name.
func (g *GPTMe) LogDir(name string) string {
	return filepath.Join(g.LogsDir, name)
}

// Act provisions the workspace, seeds it with input, runs the engine and
// collects the workspace contents. Interrupts end the run early but still
// return files; engine faults are returned as errors.
func (g *GPTMe) Act(ctx context.Context, input files.Files, prompt string) (files.Files, error) {
	name := RunName(g.Model, prompt)
	logDir := g.LogDir(name)
	workspace := filepath.Join(logDir, "workspace")

	if err := provision(logDir, workspace); err != nil {
		return nil, err
	}

	store := files.NewStore(workspace)
	if len(input) > 0 {
		if err := store.Upload(input); err != nil {
			return nil, fmt.Errorf("seed workspace: %w", err)
		}
	}

	logging.Section("Start of generation")
	logging.Debugf("Working in %s", store.Dir())

	outcome, err := g.invoke(ctx, name, logDir, workspace, prompt)
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", g.Model, err)
	}
	if outcome == chat.InterruptedEarly {
		logging.Warnf("Generation for %s ended early", name)
	}
	logging.Section("Finished generation")

	out, err := store.Download()
	if err != nil {
		return nil, fmt.Errorf("collect workspace: %w", err)
	}
	return out, nil
}

// provision creates an empty workspace. An existing workspace is a conflict
// and nothing is written.
func provision(logDir, workspace string) error {
	if _, err := os.Stat(workspace); err == nil {
		return &WorkspaceConflictError{Path: workspace}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat workspace: %w", err)
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	// Mkdir fails on an existing directory, so a concurrent run with the
	// same name loses here.
	if err := os.Mkdir(workspace, 0o755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return &WorkspaceConflictError{Path: workspace}
		}
		return fmt.Errorf("create workspace: %w", err)
	}
	return nil
}

func (g *GPTMe) invoke(ctx context.Context, name, logDir, workspace, prompt string) (chat.Outcome, error) {
	sys, err := g.Prompter.SystemPrompt(ctx, workspace)
	if err != nil {
		return chat.Completed, fmt.Errorf("system prompt: %w", err)
	}
	sys.Content += StopTryingSuffix

	runCtx := ctx
	if g.HandleSignals {
		var stop func()
		runCtx, stop = signal.WithInterrupt(ctx, func(sig os.Signal) {
			logging.Warnf("Received %s, stopping generation", sig)
		})
		defer stop()
	}

	return g.Engine.Chat(runCtx, chat.Request{
		Messages:    []chat.Message{{Role: chat.RoleUser, Content: prompt}},
		System:      []chat.Message{sys},
		Name:        name,
		Model:       g.Model,
		NoConfirm:   true,
		Interactive: false,
		Workspace:   chat.WorkspaceLog,
		LogDir:      logDir,
	})
}
