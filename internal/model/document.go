package model

// CellType classifies a notebook cell
type CellType string

const (
	CellTypeCode     CellType = "code"     // Executable source
	CellTypeMarkdown CellType = "markdown" // Prose rendered to readers
	CellTypeRaw      CellType = "raw"      // Passed through untouched, ignored by every check
)

// Cell is one unit of a notebook. It is read-only once loaded.
type Cell struct {
	Type     CellType       `json:"cell_type" yaml:"cell_type"`
	Source   string         `json:"source" yaml:"source"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Document is the in-memory form of a notebook file
type Document struct {
	Cells         []Cell `json:"cells" yaml:"cells"`
	NBFormat      int    `json:"nbformat" yaml:"nbformat"`
	NBFormatMinor int    `json:"nbformat_minor" yaml:"nbformat_minor"`
}

// TagsFrom extracts the "tags" collection from cell metadata.
// A missing key or a value that is not a list yields no tags.
func TagsFrom(metadata map[string]any) []string {
	raw, ok := metadata["tags"]
	if !ok {
		return nil
	}

	switch tags := raw.(type) {
	case []string:
		return tags
	case []any:
		out := make([]string, 0, len(tags))
		for _, t := range tags {
			if s, ok := t.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// HasTag reports whether metadata carries the given tag
func HasTag(metadata map[string]any, tag string) bool {
	for _, t := range TagsFrom(metadata) {
		if t == tag {
			return true
		}
	}
	return false
}
