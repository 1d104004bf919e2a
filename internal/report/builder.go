package report

import (
	"fmt"
	"io"

	"github.com/ppiankov/content-test-enforcer/internal/check"
	"github.com/ppiankov/content-test-enforcer/internal/extract"
	"github.com/ppiankov/content-test-enforcer/internal/model"
)

const (
	passGlyph = "✅"
	failGlyph = "❌"
)

// Builder turns a notebook into a verdict and its diagnostics
type Builder struct {
	extractor *extract.ReferenceExtractor
	checker   *check.Checker
}

// NewBuilder creates a report builder
func NewBuilder(extractor *extract.ReferenceExtractor, checker *check.Checker) *Builder {
	return &Builder{
		extractor: extractor,
		checker:   checker,
	}
}

// Evaluate extracts references once and runs both checks against the same
// document. Both checks always run, so every problem is reported in one pass.
func (b *Builder) Evaluate(path string, doc *model.Document) model.DocumentReport {
	references := b.extractor.Extract(doc)

	checks := []model.CheckResult{
		b.checker.ReferencesExist(references, doc),
		b.checker.CellTags(references, doc),
	}

	passed := true
	for _, c := range checks {
		if !c.Passed {
			passed = false
		}
	}

	return model.DocumentReport{
		Path:       path,
		Passed:     passed,
		References: references,
		Checks:     checks,
	}
}

// Check evaluates doc and writes the human-readable result to w.
// The report's Passed field is the verdict for this notebook.
func (b *Builder) Check(path string, doc *model.Document, w io.Writer) (model.DocumentReport, error) {
	rep := b.Evaluate(path, doc)
	if err := WriteText(w, rep); err != nil {
		return rep, err
	}
	return rep, nil
}

// WriteText prints the pass/fail line for rep, followed on failure by the
// message of each failing check.
func WriteText(w io.Writer, rep model.DocumentReport) error {
	if rep.Passed {
		_, err := fmt.Fprintf(w, "%s %s\n", passGlyph, rep.Path)
		return err
	}

	if _, err := fmt.Fprintf(w, "%s %s\n", failGlyph, rep.Path); err != nil {
		return err
	}
	for _, c := range rep.Failed() {
		if _, err := fmt.Fprintln(w, c.Message); err != nil {
			return err
		}
	}
	return nil
}

// Summary is printed once after all notebooks when any of them failed
func Summary(failed int) string {
	return fmt.Sprintf("\nProblems detected in %d notebook(s).\n", failed)
}
