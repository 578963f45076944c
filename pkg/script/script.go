// Package script runs YAML key scripts against a calculator session and
// checks the display after each step. Scripts double as regression fixtures:
// a failing run renders a unified diff of the expected and actual display
// traces.
package script

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"

	"github.com/germanamz/tally/pkg/session"
)

// Script is a named sequence of key steps.
type Script struct {
	Name      string `yaml:"name"`
	MaxDigits int    `yaml:"max_digits"`
	Steps     []Step `yaml:"steps"`
}

// Step is a compact key sequence and the display expected afterwards. An
// empty Expect only feeds the keys.
type Step struct {
	Keys   string `yaml:"keys"`
	Expect string `yaml:"expect"`
}

// Load reads a script from a YAML file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided script, not user input
	if err != nil {
		return nil, fmt.Errorf("script: load: %w", err)
	}

	return Parse(data)
}

// Parse decodes a YAML script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("script: parse: %w", err)
	}

	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("script: %q has no steps", s.Name)
	}

	return &s, nil
}

// Options configures a run.
type Options struct {
	MaxDigits int          // Overrides the script's cap when non-zero.
	Logger    *slog.Logger // Passed to the session.
}

// StepResult records the outcome of one step.
type StepResult struct {
	Keys   string
	Expect string
	Actual string
}

// OK reports whether the step matched its expectation.
func (r StepResult) OK() bool {
	return r.Expect == "" || r.Expect == r.Actual
}

// Report is the outcome of a run.
type Report struct {
	Name  string
	Steps []StepResult
}

// OK reports whether every step matched.
func (r Report) OK() bool {
	for _, s := range r.Steps {
		if !s.OK() {
			return false
		}
	}
	return true
}

// Failures returns the number of mismatched steps.
func (r Report) Failures() int {
	n := 0
	for _, s := range r.Steps {
		if !s.OK() {
			n++
		}
	}
	return n
}

// Diff renders a unified diff between the expected and actual display
// traces. It returns an empty string when the run passed.
func (r Report) Diff() (string, error) {
	if r.OK() {
		return "", nil
	}

	var expected, actual strings.Builder
	for _, s := range r.Steps {
		if s.Expect == "" {
			continue
		}
		fmt.Fprintf(&expected, "%s => %s\n", s.Keys, s.Expect)
		fmt.Fprintf(&actual, "%s => %s\n", s.Keys, s.Actual)
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected.String()),
		B:        difflib.SplitLines(actual.String()),
		FromFile: r.Name + " (expected)",
		ToFile:   r.Name + " (actual)",
		Context:  3,
	}

	result, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("script: diff: %w", err)
	}

	return result, nil
}

// Run feeds every step into one fresh session. Mismatches are recorded in
// the report; only malformed key sequences and cancellation are errors.
func Run(ctx context.Context, s *Script, opts Options) (Report, error) {
	maxDigits := opts.MaxDigits
	if maxDigits == 0 {
		maxDigits = s.MaxDigits
	}

	sess := session.New(session.Options{
		ID:        s.Name,
		MaxDigits: maxDigits,
		Logger:    opts.Logger,
	})

	report := Report{Name: s.Name, Steps: make([]StepResult, 0, len(s.Steps))}

	for i, step := range s.Steps {
		if err := sess.Run(ctx, step.Keys); err != nil {
			return report, fmt.Errorf("script: step %d: %w", i+1, err)
		}

		report.Steps = append(report.Steps, StepResult{
			Keys:   step.Keys,
			Expect: step.Expect,
			Actual: sess.Display(),
		})
	}

	return report, nil
}
