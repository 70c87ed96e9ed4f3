// Package logging provides colored, leveled log output for the gptme-eval CLI.
//
// Every line is written to stderr with a color-coded prefix so that stdout stays
// free for command output (rendered prompts, config dumps). Debug output is
// suppressed unless verbose mode is enabled via SetVerbose(true).
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	mu      sync.Mutex
	out     io.Writer = os.Stderr
	verbose bool
)

// Color printers for each log level.
var (
	infoPrefix    = color.New(color.FgBlue).SprintFunc()
	successPrefix = color.New(color.FgGreen).SprintFunc()
	warnPrefix    = color.New(color.FgYellow).SprintFunc()
	errorPrefix   = color.New(color.FgRed).SprintFunc()
	sectionPrefix = color.New(color.FgCyan).SprintFunc()
	debugPrefix   = color.New(color.FgMagenta).SprintFunc()
)

// SetVerbose enables or disables Debug output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// SetOutput redirects all log output to w and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

func emit(prefix, msg string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, prefix+" "+msg)
}

// Info prints an informational message in blue.
func Info(msg string) { emit(infoPrefix("[INFO]"), msg) }

// Infof formats and prints an informational message.
func Infof(format string, args ...any) { Info(fmt.Sprintf(format, args...)) }

// Success prints a success message in green.
func Success(msg string) { emit(successPrefix("[SUCCESS]"), msg) }

// Successf is Success with formatting.
func Successf(format string, args ...any) { Success(fmt.Sprintf(format, args...)) }

// Warn prints a warning message in yellow.
func Warn(msg string) { emit(warnPrefix("[WARN]"), msg) }

// Warnf formats and prints a warning message.
func Warnf(format string, args ...any) { Warn(fmt.Sprintf(format, args...)) }

// Error prints an error message in red.
func Error(msg string) { emit(errorPrefix("[ERROR]"), msg) }

// Errorf formats and prints an error message.
func Errorf(format string, args ...any) { Error(fmt.Sprintf(format, args...)) }

// Section prints a cyan banner line, used to frame an agent generation.
func Section(msg string) {
	sep := "━━━━━━━━━━━━━━━━━━━━"
	emit(sectionPrefix(sep), sectionPrefix(msg+" "+sep))
}

// Debug prints a debug message, only when verbose mode is enabled.
func Debug(msg string) {
	mu.Lock()
	v := verbose
	mu.Unlock()
	if !v {
		return
	}
	emit(debugPrefix("[DEBUG]"), msg)
}

// Debugf formats and prints a debug message when verbose mode is enabled.
func Debugf(format string, args ...any) { Debug(fmt.Sprintf(format, args...)) }

// FormatDuration renders d rounded to whole seconds.
//
//	FormatDuration(45*time.Second)   => "45s"
//	FormatDuration(90*time.Second)   => "1m 30s"
//	FormatDuration(3661*time.Second) => "1h 1m 1s"
func FormatDuration(d time.Duration) string {
	seconds := int(d.Round(time.Second) / time.Second)
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
