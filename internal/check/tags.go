package check

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/content-test-enforcer/internal/model"
)

// CellTags checks that every cell holding a reference carries the marker tag.
// Tags are read from the metadata captured at extraction, so doc is not consulted.
// Each offending cell is listed once, in ascending index order, with all of its references.
func (c *Checker) CellTags(references []model.Reference, _ *model.Document) model.CheckResult {
	bad := make(map[int]bool)
	for _, ref := range references {
		if !model.HasTag(ref.CellMetadata, c.tag) {
			bad[ref.CellIndex] = true
		}
	}

	if len(bad) == 0 {
		return model.CheckResult{Name: model.CheckTags, Passed: true}
	}

	cells := make([]int, 0, len(bad))
	for index := range bad {
		cells = append(cells, index)
	}
	sort.Ints(cells)

	var msg strings.Builder
	msg.WriteString("  " + c.palette.Red(fmt.Sprintf("The following cells are missing \"%s\" tags:", c.tag)) + "\n")
	for _, index := range cells {
		fmt.Fprintf(&msg, "  %s which contains references:\n", c.palette.Cyan(fmt.Sprintf("Cell %d", index)))
		for _, ref := range references {
			if ref.CellIndex == index {
				fmt.Fprintf(&msg, "    %s%s\n", c.marker, c.palette.Bold(ref.Text))
			}
		}
	}

	return model.CheckResult{
		Name:    model.CheckTags,
		Passed:  false,
		Message: msg.String(),
	}
}
