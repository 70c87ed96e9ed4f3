package chat

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/CodexForgeBR/gptme-harness/internal/config"
	"github.com/CodexForgeBR/gptme-harness/internal/project"
)

const basePrompt = `You are gptme, a general-purpose AI assistant powered by LLMs.
You are designed to help users with programming tasks, such as writing code, debugging, and learning new concepts.
You can run code, execute terminal commands, and access the filesystem on the local machine.
You will help the user with writing code, either from scratch or in existing projects.
Break down complex tasks into smaller, manageable steps.`

// ConfigPrompter builds the default system prompt from the [prompt] section of
// the resolved config, followed by the workspace's project files.
type ConfigPrompter struct {
	Config *config.Config
}

// SystemPrompt implements SystemPrompter. A project config that names a
// missing file fails the prompt with project.ErrProjectFileMissing.
func (p *ConfigPrompter) SystemPrompt(_ context.Context, workspace string) (Message, error) {
	var b strings.Builder
	b.WriteString(basePrompt)

	if p.Config != nil {
		if about, ok := p.Config.Prompt["about_user"].(string); ok && about != "" {
			fmt.Fprintf(&b, "\n\n## About user\n\n%s", about)
		}
		if pref, ok := p.Config.Prompt["response_preference"].(string); ok && pref != "" {
			fmt.Fprintf(&b, "\n\n## Preferences for responses\n\n%s", pref)
		}
		if workspace != "" {
			if about := aboutProject(p.Config.Prompt, filepath.Base(workspace)); about != "" {
				fmt.Fprintf(&b, "\n\n## Current project: %s\n\n%s", filepath.Base(workspace), about)
			}
		}
	}

	if workspace != "" {
		extra, err := project.WorkspacePrompt(workspace)
		if err != nil {
			return Message{}, fmt.Errorf("workspace prompt: %w", err)
		}
		b.WriteString(extra)
	}

	return Message{Role: RoleSystem, Content: b.String()}, nil
}

// aboutProject returns the prompt.project entry for name, if any.
func aboutProject(prompt map[string]any, name string) string {
	projects, ok := prompt["project"].(map[string]any)
	if !ok {
		return ""
	}
	about, _ := projects[name].(string)
	return about
}
