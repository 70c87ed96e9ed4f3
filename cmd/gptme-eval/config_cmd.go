package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/gptme-harness/internal/cli"
	"github.com/CodexForgeBR/gptme-harness/internal/logging"
	"github.com/CodexForgeBR/gptme-harness/internal/provider"
)

func newConfigCmd(global *cli.GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the settings file",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openSource(global)
			if err != nil {
				return err
			}
			// Validates the file before printing it.
			if _, err := src.Config(); err != nil {
				return err
			}
			doc, err := src.Store().Load()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(doc.Bytes())
			return err
		},
	}

	var rawTOML bool
	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a dotted key, e.g. env.API_MODEL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseValue(args[1], rawTOML)
			if err != nil {
				return err
			}
			src, err := openSource(global)
			if err != nil {
				return err
			}
			if err := src.SetValue(args[0], value); err != nil {
				return err
			}
			logging.Successf("Set %s in %s", args[0], src.Store().Path())
			return nil
		},
	}
	setCmd.Flags().BoolVar(&rawTOML, "toml", false, "Parse the value as a TOML literal instead of a string")

	commentCmd := &cobra.Command{
		Use:   "comment-out <key> <note>",
		Short: "Comment a key out, keeping its value and a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openSource(global)
			if err != nil {
				return err
			}
			return src.CommentOut(args[0], args[1])
		},
	}

	providerOpts := &cli.ProviderOptions{}
	providerCmd := &cobra.Command{
		Use:   "provider",
		Short: "Save API credentials for an LLM provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			llm, err := cli.ValidateProviderFlags(providerOpts)
			if err != nil {
				return err
			}
			src, err := openSource(global)
			if err != nil {
				return err
			}
			if err := llm.SaveToConfig(src); err != nil {
				return err
			}
			logging.Successf("Saved %s credentials (%s) to %s", llm.Provider, describeAPI(llm.Provider), src.Store().Path())
			return nil
		},
	}
	cli.BindProviderFlags(providerCmd, providerOpts)

	cmd.AddCommand(showCmd, setCmd, commentCmd, providerCmd)
	return cmd
}

// parseValue turns a command-line value into what gets persisted.
func parseValue(s string, rawTOML bool) (any, error) {
	if !rawTOML {
		return s, nil
	}
	var holder struct {
		V any `toml:"v"`
	}
	if _, err := toml.Decode("v = "+s, &holder); err != nil {
		return nil, fmt.Errorf("invalid TOML value %q: %w", s, err)
	}
	return holder.V, nil
}

// describeAPI names the wire API a provider speaks.
func describeAPI(p provider.Provider) string {
	switch {
	case p.IsOpenRouter():
		return "OpenRouter, OpenAI-compatible API"
	case p.IsAnthropicAlike():
		return "Anthropic messages API"
	case p.IsOpenAIAlike():
		return "OpenAI-compatible API"
	default:
		return "unknown API"
	}
}
