package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/gptme-harness/internal/agent"
	"github.com/CodexForgeBR/gptme-harness/internal/banner"
	"github.com/CodexForgeBR/gptme-harness/internal/chat"
	"github.com/CodexForgeBR/gptme-harness/internal/cli"
	"github.com/CodexForgeBR/gptme-harness/internal/eval"
	"github.com/CodexForgeBR/gptme-harness/internal/files"
	"github.com/CodexForgeBR/gptme-harness/internal/logging"
	"github.com/CodexForgeBR/gptme-harness/internal/provider"
	"github.com/CodexForgeBR/gptme-harness/internal/signal"
)

func newRunCmd(global *cli.GlobalOptions) *cobra.Command {
	opts := &cli.EvalOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the agent on a prompt or suite and collect produced files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.ValidateEvalFlags(opts); err != nil {
				return err
			}
			return runEval(cmd, global, opts)
		},
	}
	cli.BindEvalFlags(cmd, opts)
	return cmd
}

func runEval(cmd *cobra.Command, global *cli.GlobalOptions, opts *cli.EvalOptions) error {
	suite, err := loadSuite(opts)
	if err != nil {
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
	if llm, err := provider.FromConfig(cfg); err != nil {
		logging.Warnf("Provider settings incomplete, the chat CLI may fail: %v", err)
	} else {
		logging.Debugf("Using provider %s (%s)", llm.Provider, describeAPI(llm.Provider))
	}
	logs, err := logsDir(global)
	if err != nil {
		return err
	}

	engine := &chat.CommandEngine{Binary: opts.Binary, Verbose: global.Verbose}
	if err := engine.Available(); err != nil {
		return err
	}
	prompter := &chat.ConfigPrompter{Config: cfg}

	factory := func(model string) agent.Agent {
		return &agent.GPTMe{
			Model:         model,
			LogsDir:       logs,
			Engine:        engine,
			Prompter:      prompter,
			HandleSignals: true,
		}
	}

	out := cmd.OutOrStdout()
	banner.PrintRunBanner(out, opts.Models, len(suite.Cases), logs, opts.OutDir)
	start := time.Now()
	// Ctrl-C ends every active generation early; the results collected so
	// far are still written before the command reports the interrupt.
	ctx, stop := signal.WithInterrupt(cmd.Context(), nil)
	defer stop()
	results := eval.Run(ctx, factory, opts.Models, suite, eval.Options{Parallel: opts.Parallel})
	interrupted := ctx.Err()

	if opts.OutDir != "" {
		if err := eval.WriteResults(opts.OutDir, results); err != nil {
			return err
		}
		logging.Infof("Results written to %s", filepath.Join(opts.OutDir, "results.json"))
	}
	printSummary(out, results)

	failed := eval.Failed(results)
	banner.PrintCompletionBanner(out, len(results), failed, time.Since(start))
	if interrupted != nil {
		return fmt.Errorf("run interrupted: %w", interrupted)
	}
	switch {
	case failed == 0:
		return nil
	case len(results) == 1:
		// Keep the error kind visible in the exit code.
		return results[0].Err
	default:
		return fmt.Errorf("%w: %d of %d runs", errEvalFailed, failed, len(results))
	}
}

func loadSuite(opts *cli.EvalOptions) (*eval.Suite, error) {
	if opts.SuiteFile != "" {
		return eval.LoadSuite(opts.SuiteFile)
	}
	var input files.Files
	if opts.FilesDir != "" {
		var err error
		if input, err = files.NewStore(opts.FilesDir).Download(); err != nil {
			return nil, fmt.Errorf("read --files: %w", err)
		}
	}
	return eval.SingleCase(opts.Prompt, input), nil
}

func printSummary(w io.Writer, results []eval.Result) {
	for _, s := range eval.Summarize(results) {
		printSummaryLine(w, s)
	}
}

func printSummaryLine(w io.Writer, s eval.Summary) {
	fmt.Fprintf(w, "%-40s %-20s %-6s %d change(s)", s.Model, s.Case, s.Status, len(s.Changes))
	if s.Error != "" {
		fmt.Fprintf(w, "  %s", s.Error)
	}
	fmt.Fprintln(w)
}
