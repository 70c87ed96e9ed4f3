// Package chat is the boundary to the chat engine that runs an agent
// conversation. The engine itself is external; this package defines the
// request it takes, the outcome it reports, and a command-line backed
// implementation.
package chat

import (
	"context"
)

// Message is a single chat message.
type Message struct {
	Role    string
	Content string
}

// Roles used by the harness.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// WorkspaceLog selects the "workspace" directory next to the conversation log
// as the engine's execution root.
const WorkspaceLog = "@log"

// Request describes one non-interactive engine run.
type Request struct {
	Messages    []Message
	System      []Message
	Name        string // conversation name
	Model       string
	NoConfirm   bool
	Interactive bool
	Workspace   string // directory, or WorkspaceLog
	LogDir      string // where the conversation log lives
}

// Outcome is how a run that did not fail ended.
type Outcome int

const (
	// Completed means the engine ran to its natural end.
	Completed Outcome = iota
	// InterruptedEarly means the run was cut short by an interrupt or an exit
	// request from inside the conversation. Whatever the agent produced so far
	// is still valid output.
	InterruptedEarly
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case InterruptedEarly:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Engine runs a chat to completion. Genuine faults are returned as errors;
// interrupts are reported as InterruptedEarly.
type Engine interface {
	Chat(ctx context.Context, req Request) (Outcome, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, req Request) (Outcome, error)

// Chat calls f.
func (f EngineFunc) Chat(ctx context.Context, req Request) (Outcome, error) {
	return f(ctx, req)
}

// SystemPrompter supplies the default system prompt for a run rooted at
// workspace.
type SystemPrompter interface {
	SystemPrompt(ctx context.Context, workspace string) (Message, error)
}
