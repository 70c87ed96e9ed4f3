// Package banner prints the framed headers the gptme-eval CLI shows around an
// evaluation run.
//
// Banners go to the writer passed in, normally the command's stdout, so they
// stay separate from the log stream on stderr.
package banner

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/CodexForgeBR/gptme-harness/internal/logging"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
)

const rule = "═══════════════════════════════════════════════════"

// PrintRunBanner displays what an evaluation run is about to do.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  gptme-eval - Agent Evaluation Run
//	═══════════════════════════════════════════════════
//	  Models:     openai/gpt-4o, local/llama3
//	  Cases:      3
//	  Logs:       ~/.local/share/gptme/logs
//	  Output:     results
//	═══════════════════════════════════════════════════
func PrintRunBanner(w io.Writer, models []string, cases int, logsDir, outDir string) {
	sep := headerColor(rule)
	if outDir == "" {
		outDir = "(not saved)"
	}
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, headerColor("  gptme-eval - Agent Evaluation Run"))
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Models:     %s\n", strings.Join(models, ", "))
	fmt.Fprintf(w, "  Cases:      %d\n", cases)
	fmt.Fprintf(w, "  Logs:       %s\n", logsDir)
	fmt.Fprintf(w, "  Output:     %s\n", outDir)
	fmt.Fprintln(w, sep)
}

// PrintCompletionBanner displays run totals. The banner is green when every
// run succeeded and red otherwise.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✓ 6 run(s) finished
//	  Failed:     0
//	  Duration:   4m 12s
//	═══════════════════════════════════════════════════
func PrintCompletionBanner(w io.Writer, total, failed int, elapsed time.Duration) {
	paint, mark := successColor, "✓"
	if failed > 0 {
		paint, mark = errorColor, "✗"
	}
	sep := paint(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, paint(fmt.Sprintf("  %s %d run(s) finished", mark, total)))
	fmt.Fprintf(w, "  Failed:     %d\n", failed)
	fmt.Fprintf(w, "  Duration:   %s\n", logging.FormatDuration(elapsed))
	fmt.Fprintln(w, sep)
}
