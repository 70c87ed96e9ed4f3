// Package cli provides flag binding and validation for the gptme-eval CLI.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/gptme-harness/internal/provider"
)

// GlobalOptions holds flags shared by every subcommand.
type GlobalOptions struct {
	ConfigPath string
	LogsDir    string
	Verbose    bool
}

// EvalOptions holds the flags of the run command.
type EvalOptions struct {
	Models    []string
	Prompt    string
	FilesDir  string
	SuiteFile string
	OutDir    string
	Parallel  int
	Binary    string
}

// ProviderOptions holds the flags of the config provider command.
type ProviderOptions struct {
	Provider string
	APIKey   string
	Model    string
	Endpoint string
}

// BindGlobalFlags registers the persistent flags on the root command.
func BindGlobalFlags(cmd *cobra.Command, opts *GlobalOptions) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "Path to the settings file (default: $XDG_CONFIG_HOME/gptme/config.toml)")
	flags.StringVar(&opts.LogsDir, "logs-dir", "", "Directory for conversation logs and workspaces (default: $XDG_DATA_HOME/gptme/logs)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging and pass --verbose to the chat CLI")
}

// BindEvalFlags registers the run command's flags.
// Call ValidateEvalFlags after parsing to check flag combinations.
func BindEvalFlags(cmd *cobra.Command, opts *EvalOptions) {
	flags := cmd.Flags()

	flags.StringSliceVarP(&opts.Models, "model", "m", nil, "Model(s) to evaluate, comma separated or repeated")
	flags.StringVarP(&opts.Prompt, "prompt", "p", "", "Single prompt to run (mutually exclusive with --suite)")
	flags.StringVar(&opts.FilesDir, "files", "", "Directory whose contents seed the workspace (only with --prompt)")
	flags.StringVar(&opts.SuiteFile, "suite", "", "YAML suite of cases (mutually exclusive with --prompt)")
	flags.StringVarP(&opts.OutDir, "out", "o", "", "Directory to write produced files and results.json")
	flags.IntVar(&opts.Parallel, "parallel", 0, "Maximum concurrent runs (0: unbounded)")
	flags.StringVar(&opts.Binary, "gptme-bin", "gptme", "Chat CLI to invoke")
}

// ValidateEvalFlags checks for invalid flag combinations after parsing.
func ValidateEvalFlags(opts *EvalOptions) error {
	models := opts.Models[:0]
	for _, m := range opts.Models {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}
	opts.Models = models
	if len(opts.Models) == 0 {
		return fmt.Errorf("--model is required")
	}

	switch {
	case opts.Prompt != "" && opts.SuiteFile != "":
		return fmt.Errorf("--prompt and --suite are mutually exclusive")
	case opts.Prompt == "" && opts.SuiteFile == "":
		return fmt.Errorf("one of --prompt or --suite is required")
	case opts.FilesDir != "" && opts.SuiteFile != "":
		return fmt.Errorf("--files can only be used with --prompt")
	}

	if opts.SuiteFile != "" {
		if _, err := os.Stat(opts.SuiteFile); err != nil {
			return fmt.Errorf("--suite: %w", err)
		}
	}
	if opts.FilesDir != "" {
		info, err := os.Stat(opts.FilesDir)
		if err != nil {
			return fmt.Errorf("--files: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("--files: %s is not a directory", opts.FilesDir)
		}
	}

	if opts.Parallel < 0 {
		return fmt.Errorf("--parallel must be >= 0, got: %d", opts.Parallel)
	}
	return nil
}

// BindProviderFlags registers the config provider command's flags.
func BindProviderFlags(cmd *cobra.Command, opts *ProviderOptions) {
	flags := cmd.Flags()

	flags.StringVar(&opts.Provider, "provider", "", "LLM provider: "+providerList())
	flags.StringVar(&opts.APIKey, "api-key", "", "API key for the provider")
	flags.StringVar(&opts.Model, "model", "", "Default model (openai and azure only)")
	flags.StringVar(&opts.Endpoint, "endpoint", "", "Custom API endpoint URL (openai and azure only)")
}

// ValidateProviderFlags parses the flags into a provider config.
func ValidateProviderFlags(opts *ProviderOptions) (*provider.LLMAPIConfig, error) {
	if opts.Provider == "" {
		return nil, fmt.Errorf("--provider is required")
	}
	p, err := provider.Parse(opts.Provider)
	if err != nil {
		return nil, fmt.Errorf("--provider: %w", err)
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("--api-key is required")
	}
	return provider.New(p, opts.APIKey, opts.Model, opts.Endpoint)
}

func providerList() string {
	names := make([]string, 0, len(provider.All()))
	for _, p := range provider.All() {
		names = append(names, p.String())
	}
	return strings.Join(names, ", ")
}
