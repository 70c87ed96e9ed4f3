// Package eval runs agents over a suite of prompts and records what they
// produced. Scoring is left to downstream tooling.
package eval

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/CodexForgeBR/gptme-harness/internal/files"
)

// Case is a single evaluation task.
type Case struct {
	Name   string            `yaml:"name"`
	Prompt string            `yaml:"prompt"`
	Files  map[string]string `yaml:"files,omitempty"`
}

// Input returns the case's seed files as a snapshot.
func (c Case) Input() files.Files {
	if len(c.Files) == 0 {
		return nil
	}
	out := make(files.Files, len(c.Files))
	for name, content := range c.Files {
		out[name] = []byte(content)
	}
	return out
}

// Suite is the YAML-backed list of cases run against each model.
type Suite struct {
	Name  string `yaml:"name,omitempty"`
	Cases []Case `yaml:"cases"`
}

// LoadSuite reads and validates a suite definition from a YAML file.
func LoadSuite(path string) (*Suite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("suite path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite: %w", err)
	}

	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode suite %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("suite %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks that every case has a unique, path-safe name and a prompt.
func (s *Suite) Validate() error {
	if len(s.Cases) == 0 {
		return fmt.Errorf("no cases defined")
	}
	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		name := strings.TrimSpace(c.Name)
		switch {
		case name == "":
			return fmt.Errorf("case %d: name is required", i)
		case strings.ContainsAny(name, `/\`) || name == "." || name == "..":
			return fmt.Errorf("case %q: name must not contain path separators", name)
		case seen[name]:
			return fmt.Errorf("case %q: duplicate name", name)
		case strings.TrimSpace(c.Prompt) == "":
			return fmt.Errorf("case %q: prompt is required", name)
		}
		seen[name] = true
	}
	return nil
}

// SingleCase wraps an ad-hoc prompt into a one-case suite.
func SingleCase(prompt string, input files.Files) *Suite {
	c := Case{Name: "prompt", Prompt: prompt}
	if len(input) > 0 {
		c.Files = make(map[string]string, len(input))
		for name, content := range input {
			c.Files[name] = string(content)
		}
	}
	return &Suite{Cases: []Case{c}}
}
