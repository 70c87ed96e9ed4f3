package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/gptme-harness/internal/agent"
	"github.com/CodexForgeBR/gptme-harness/internal/cli"
	"github.com/CodexForgeBR/gptme-harness/internal/config"
	"github.com/CodexForgeBR/gptme-harness/internal/exitcode"
	"github.com/CodexForgeBR/gptme-harness/internal/logging"
	"github.com/CodexForgeBR/gptme-harness/internal/project"
	"github.com/CodexForgeBR/gptme-harness/internal/settings"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errEvalFailed is returned by run when at least one result carries an error.
var errEvalFailed = errors.New("evaluation failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitCodeFor(err)
		logging.Error(err.Error())
		logging.Debugf("Exiting with %d (%s)", code, exitcode.Name(code))
		os.Exit(code)
	}
}

func newRootCmd() *cobra.Command {
	global := &cli.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:     "gptme-eval",
		Short:   "Configuration tools and evaluation harness for the gptme assistant",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetVerbose(global.Verbose)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli.BindGlobalFlags(rootCmd, global)
	cli.SetCustomHelp(rootCmd)

	rootCmd.AddCommand(
		newConfigCmd(global),
		newPromptCmd(global),
		newRunCmd(global),
		newReportCmd(),
	)
	return rootCmd
}

// exitCodeFor maps an error returned by a command to the process exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, context.Canceled):
		return exitcode.Interrupted
	case errors.Is(err, project.ErrProjectFileMissing):
		return exitcode.ProjectFileMissing
	case errors.Is(err, agent.ErrWorkspaceConflict):
		return exitcode.WorkspaceConflict
	case errors.Is(err, config.ErrMissingKey),
		errors.Is(err, config.ErrMissingEnv),
		errors.Is(err, settings.ErrIO):
		return exitcode.ConfigError
	case errors.Is(err, errEvalFailed):
		return exitcode.EvalFailed
	default:
		return exitcode.Error
	}
}

// openSource resolves the settings path from the flags or the environment.
func openSource(global *cli.GlobalOptions) (*config.Source, error) {
	path := global.ConfigPath
	if path == "" {
		p, err := config.DefaultPath(config.DefaultEnvLookup)
		if err != nil {
			return nil, err
		}
		path = p
	}
	return config.NewSource(config.NewStore(path)), nil
}

// logsDir resolves where conversation logs and workspaces live.
func logsDir(global *cli.GlobalOptions) (string, error) {
	if global.LogsDir != "" {
		return global.LogsDir, nil
	}
	return config.LogsDir(config.DefaultEnvLookup)
}
