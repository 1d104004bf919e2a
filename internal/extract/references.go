package extract

import (
	"regexp"

	"github.com/ppiankov/content-test-enforcer/internal/model"
)

// ReferenceExtractor finds content-test references in code cells.
// A reference is a line that starts with the marker, e.g.
//
//	#| content: The answer is 42.
type ReferenceExtractor struct {
	marker  string
	pattern *regexp.Regexp
}

// NewReferenceExtractor creates an extractor for the given marker.
// The marker is matched literally; an empty marker falls back to model.DefaultMarker.
func NewReferenceExtractor(marker string) *ReferenceExtractor {
	if marker == "" {
		marker = model.DefaultMarker
	}

	return &ReferenceExtractor{
		marker:  marker,
		pattern: regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(marker) + `(.*)$`),
	}
}

// Marker returns the line prefix this extractor matches
func (e *ReferenceExtractor) Marker() string {
	return e.marker
}

// Extract returns every reference in doc, in cell order and then match order.
// Text after the marker is kept as-is, including surrounding whitespace.
func (e *ReferenceExtractor) Extract(doc *model.Document) []model.Reference {
	references := []model.Reference{}

	for index, cell := range doc.Cells {
		if cell.Type != model.CellTypeCode {
			continue
		}

		for _, match := range e.pattern.FindAllStringSubmatch(cell.Source, -1) {
			references = append(references, model.Reference{
				Text:         match[1],
				CellIndex:    index,
				CellMetadata: cell.Metadata,
			})
		}
	}

	return references
}
