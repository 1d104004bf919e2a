package check

import (
	"fmt"
	"strings"

	"github.com/ppiankov/content-test-enforcer/internal/model"
	"github.com/ppiankov/content-test-enforcer/internal/style"
)

// Checker runs the consistency checks for one convention.
// Both checks are pure: they read their inputs and return a fresh result.
type Checker struct {
	marker  string
	tag     string
	palette style.Palette
}

// NewChecker creates a checker. Empty marker or tag fall back to the defaults.
func NewChecker(marker, tag string, palette style.Palette) *Checker {
	if marker == "" {
		marker = model.DefaultMarker
	}
	if tag == "" {
		tag = model.DefaultTag
	}

	return &Checker{
		marker:  marker,
		tag:     tag,
		palette: palette,
	}
}

// ReferencesExist checks that every reference, trimmed, appears verbatim in
// the notebook's markdown. The message quotes the untrimmed text.
func (c *Checker) ReferencesExist(references []model.Reference, doc *model.Document) model.CheckResult {
	corpus := markdownCorpus(doc)

	var unfound []model.Reference
	for _, ref := range references {
		if !strings.Contains(corpus, strings.TrimSpace(ref.Text)) {
			unfound = append(unfound, ref)
		}
	}

	if len(unfound) == 0 {
		return model.CheckResult{Name: model.CheckExistence, Passed: true}
	}

	var msg strings.Builder
	msg.WriteString("  " + c.palette.Red("Content tests reference the following markdown,") + "\n")
	msg.WriteString("  " + c.palette.Red("but this markdown does not exist in the notebook:") + "\n")
	for _, ref := range unfound {
		fmt.Fprintf(&msg, "  %s %s%s\n",
			c.palette.Cyan(fmt.Sprintf("Cell %d:", ref.CellIndex)),
			c.marker,
			c.palette.Bold(ref.Text),
		)
	}

	return model.CheckResult{
		Name:    model.CheckExistence,
		Passed:  false,
		Message: msg.String(),
	}
}

// markdownCorpus joins the source of every markdown cell in document order
func markdownCorpus(doc *model.Document) string {
	var sources []string
	for _, cell := range doc.Cells {
		if cell.Type == model.CellTypeMarkdown {
			sources = append(sources, cell.Source)
		}
	}
	return strings.Join(sources, "\n")
}
