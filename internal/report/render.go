package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/content-test-enforcer/internal/model"
)

// Run is the structured form of a whole invocation
type Run struct {
	Passed    bool                   `json:"passed" yaml:"passed"`
	Failed    int                    `json:"failed" yaml:"failed"`
	Documents []model.DocumentReport `json:"documents" yaml:"documents"`
}

// NewRun aggregates per-document reports
func NewRun(reports []model.DocumentReport) Run {
	run := Run{Passed: true, Documents: reports}
	if run.Documents == nil {
		run.Documents = []model.DocumentReport{}
	}
	for _, r := range reports {
		if !r.Passed {
			run.Failed++
			run.Passed = false
		}
	}
	return run
}

// WriteJSON renders the run as indented JSON
func WriteJSON(w io.Writer, run Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(run); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteYAML renders the run as YAML
func WriteYAML(w io.Writer, run Run) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(run); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
