package eval

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/gptme-harness/internal/agent"
	"github.com/CodexForgeBR/gptme-harness/internal/files"
	"github.com/CodexForgeBR/gptme-harness/internal/logging"
)

func init() {
	color.NoColor = true
}

type agentFunc func(ctx context.Context, input files.Files, prompt string) (files.Files, error)

func (f agentFunc) Act(ctx context.Context, input files.Files, prompt string) (files.Files, error) {
	return f(ctx, input, prompt)
}

func quietLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logging.SetOutput(&buf)
	t.Cleanup(func() { logging.SetOutput(prev) })
	return &buf
}

func TestRun_AllPairs(t *testing.T) {
	quietLogs(t)
	suite := &Suite{Cases: []Case{
		{Name: "a", Prompt: "make a"},
		{Name: "b", Prompt: "make b", Files: map[string]string{"seed.txt": "s"}},
	}}

	var calls atomic.Int32
	factory := func(model string) agent.Agent {
		return agentFunc(func(_ context.Context, input files.Files, prompt string) (files.Files, error) {
			calls.Add(1)
			out := files.Files{}
			for k, v := range input {
				out[k] = v
			}
			out["out.txt"] = []byte(model + ":" + prompt)
			return out, nil
		})
	}

	results := Run(context.Background(), factory, []string{"m1", "m2"}, suite, Options{Parallel: 2})
	require.Len(t, results, 4)
	assert.EqualValues(t, 4, calls.Load())

	assert.Equal(t, "m1", results[0].Model)
	assert.Equal(t, "a", results[0].Case)
	assert.Equal(t, "m2", results[3].Model)
	assert.Equal(t, "b", results[3].Case)

	assert.Equal(t, []byte("m2:make b"), results[3].Files["out.txt"])
	require.Len(t, results[3].Changes, 1)
	assert.Equal(t, "out.txt", results[3].Changes[0].Path)
	assert.Equal(t, files.Added, results[3].Changes[0].Kind)
	assert.Zero(t, Failed(results))
}

func TestRun_FailureDoesNotStopOthers(t *testing.T) {
	quietLogs(t)
	boom := errors.New("engine fault")
	suite := &Suite{Cases: []Case{{Name: "a", Prompt: "p"}}}

	factory := func(model string) agent.Agent {
		return agentFunc(func(ctx context.Context, _ files.Files, _ string) (files.Files, error) {
			if model == "bad" {
				return nil, boom
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return files.Files{"ok": []byte("1")}, nil
		})
	}

	results := Run(context.Background(), factory, []string{"bad", "good"}, suite, Options{})
	require.Len(t, results, 2)
	assert.ErrorIs(t, results[0].Err, boom)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, []byte("1"), results[1].Files["ok"])
	assert.Equal(t, 1, Failed(results))
}
