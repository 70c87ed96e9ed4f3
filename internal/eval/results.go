package eval

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CodexForgeBR/gptme-harness/internal/files"
)

const summaryFileName = "results.json"

// Summary is one entry of results.json.
type Summary struct {
	Model   string         `json:"model"`
	Case    string         `json:"case"`
	Status  string         `json:"status"`
	Error   string         `json:"error,omitempty"`
	Seconds float64        `json:"duration_seconds"`
	Dir     string         `json:"dir,omitempty"`
	Changes []files.Change `json:"changes,omitempty"`
}

// Summarize converts results into their persisted form.
func Summarize(results []Result) []Summary {
	out := make([]Summary, 0, len(results))
	for _, r := range results {
		s := Summary{
			Model:   r.Model,
			Case:    r.Case,
			Status:  "ok",
			Seconds: r.Duration.Seconds(),
			Changes: r.Changes,
		}
		if r.Err != nil {
			s.Status = "error"
			s.Error = r.Err.Error()
		} else {
			s.Dir = resultDir(r)
		}
		out = append(out, s)
	}
	return out
}

// resultDir is the slash-separated directory of a result relative to the
// output root.
func resultDir(r Result) string {
	return strings.ReplaceAll(r.Model, "/", "--") + "/" + r.Case
}

// WriteResults stores each successful result's files under
// <dir>/<model>/<case>/ and the summary as indented JSON in
// <dir>/results.json.
func WriteResults(dir string, results []Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}

	for _, r := range results {
		if r.Err != nil {
			continue
		}
		target := filepath.Join(dir, filepath.FromSlash(resultDir(r)))
		if err := os.MkdirAll(target, 0755); err != nil {
			return fmt.Errorf("create result dir: %w", err)
		}
		if err := files.NewStore(target).Upload(r.Files); err != nil {
			return fmt.Errorf("write %s/%s: %w", r.Model, r.Case, err)
		}
	}

	data, err := json.MarshalIndent(Summarize(results), "", "    ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, summaryFileName), data, 0644); err != nil {
		return fmt.Errorf("write results file: %w", err)
	}
	return nil
}

// LoadSummary reads results.json from dir.
func LoadSummary(dir string) ([]Summary, error) {
	data, err := os.ReadFile(filepath.Join(dir, summaryFileName))
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}

	var out []Summary
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal results: %w", err)
	}
	return out, nil
}
