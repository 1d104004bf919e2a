package model

// Reference is a content-test comment found in a code cell.
// Metadata is captured when the reference is extracted and never re-read.
type Reference struct {
	Text         string         `json:"text" yaml:"text"`             // Everything after the marker, untrimmed
	CellIndex    int            `json:"cell_index" yaml:"cell_index"` // Index into Document.Cells
	CellMetadata map[string]any `json:"-" yaml:"-"`
}

// CheckName identifies one of the consistency checks
type CheckName string

const (
	CheckExistence CheckName = "existence" // Referenced prose exists in markdown cells
	CheckTags      CheckName = "tags"      // Referencing cells carry the marker tag
)

// CheckResult is the outcome of a single check
type CheckResult struct {
	Name    CheckName `json:"name" yaml:"name"`
	Passed  bool      `json:"passed" yaml:"passed"`
	Message string    `json:"message,omitempty" yaml:"message,omitempty"`
}

// DocumentReport is the verdict for one notebook
type DocumentReport struct {
	Path       string        `json:"path" yaml:"path"`
	Passed     bool          `json:"passed" yaml:"passed"`
	References []Reference   `json:"references" yaml:"references"`
	Checks     []CheckResult `json:"checks" yaml:"checks"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"` // Set when the notebook could not be read
}

// Failed returns the checks that did not pass, in run order
func (r DocumentReport) Failed() []CheckResult {
	var failed []CheckResult
	for _, c := range r.Checks {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}
