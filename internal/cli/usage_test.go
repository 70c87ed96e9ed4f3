package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpTemplate_ContainsFlags(t *testing.T) {
	flags := []string{
		"--config", "--logs-dir", "--verbose",
		"--model", "--prompt", "--files", "--suite", "--out", "--parallel", "--gptme-bin",
		"--provider",
	}
	for _, flag := range flags {
		assert.Contains(t, helpTemplate, flag, "help template should mention %s", flag)
	}
}

func TestHelpTemplate_ContainsExitCodes(t *testing.T) {
	for _, name := range []string{"Success", "Error", "ConfigError", "ProjectFileMissing", "WorkspaceConflict", "EvalFailed", "Interrupted"} {
		assert.Contains(t, helpTemplate, name)
	}
}

func TestSetCustomHelp(t *testing.T) {
	cmd := &cobra.Command{Use: "gptme-eval", Run: func(*cobra.Command, []string) {}}
	SetCustomHelp(cmd)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "gptme-eval - Configuration tools")
}
