package exitcode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CodexForgeBR/gptme-harness/internal/exitcode"
)

func TestExitCodeNames(t *testing.T) {
	tests := []struct {
		code         int
		expectedName string
	}{
		{exitcode.Success, "Success"},
		{exitcode.Error, "Error"},
		{exitcode.ConfigError, "ConfigError"},
		{exitcode.ProjectFileMissing, "ProjectFileMissing"},
		{exitcode.WorkspaceConflict, "WorkspaceConflict"},
		{exitcode.EvalFailed, "EvalFailed"},
		{exitcode.Interrupted, "Interrupted"},
	}

	for _, tt := range tests {
		t.Run(tt.expectedName, func(t *testing.T) {
			assert.Equal(t, tt.expectedName, exitcode.Name(tt.code))
		})
	}
}

func TestExitCodeNameUnknown(t *testing.T) {
	assert.Equal(t, "unknown", exitcode.Name(99))
	assert.Equal(t, "unknown", exitcode.Name(-1))
}

func TestCodesAreDistinct(t *testing.T) {
	codes := []int{
		exitcode.Success,
		exitcode.Error,
		exitcode.ConfigError,
		exitcode.ProjectFileMissing,
		exitcode.WorkspaceConflict,
		exitcode.EvalFailed,
		exitcode.Interrupted,
	}

	seen := make(map[int]bool)
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate exit code value: %d", c)
		seen[c] = true
	}
	assert.Equal(t, 130, exitcode.Interrupted)
}
