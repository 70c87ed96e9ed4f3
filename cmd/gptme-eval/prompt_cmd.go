package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/gptme-harness/internal/chat"
	"github.com/CodexForgeBR/gptme-harness/internal/cli"
	"github.com/CodexForgeBR/gptme-harness/internal/project"
)

func newPromptCmd(global *cli.GlobalOptions) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "prompt [dir]",
		Short: "Print the project files prompt for a workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			workspace, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			if !full {
				text, err := project.WorkspacePrompt(workspace)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
				return err
			}

			src, err := openSource(global)
			if err != nil {
				return err
			}
			cfg, err := src.Config()
			if err != nil {
				return err
			}
			msg, err := (&chat.ConfigPrompter{Config: cfg}).SystemPrompt(cmd.Context(), workspace)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), msg.Content)
			return err
		},
	}
	cmd.Flags().BoolVar(&full, "system", false, "Print the whole default system prompt")
	return cmd
}
