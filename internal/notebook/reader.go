package notebook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/content-test-enforcer/internal/cache"
	"github.com/ppiankov/content-test-enforcer/internal/model"
)

// Reader loads nbformat v4 notebooks from disk, upgrading v3 ones on the way in
type Reader struct {
	cache cache.Cache // nil disables caching
	ttl   time.Duration
}

// NewReader creates a reader. Pass a nil cache to parse every file afresh.
func NewReader(c cache.Cache, ttl time.Duration) *Reader {
	return &Reader{
		cache: c,
		ttl:   ttl,
	}
}

// ReadFile reads and parses the notebook at path.
// Parsed documents are cached by content hash, so an edited file is never served stale.
func (r *Reader) ReadFile(ctx context.Context, path string) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	if r.cache == nil {
		return Parse(bytes.NewReader(data))
	}

	key := cache.Key(data)
	if doc, found := r.cache.Get(key); found {
		return doc, nil
	}

	doc, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	r.cache.Set(key, doc, r.ttl)

	return doc, nil
}

type rawNotebook struct {
	Cells         []rawCell      `json:"cells"`
	Worksheets    []rawWorksheet `json:"worksheets"` // v3 only
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
}

type rawWorksheet struct {
	Cells []rawCell `json:"cells"`
}

type rawCell struct {
	CellType string         `json:"cell_type"`
	Source   multiline      `json:"source"`
	Input    multiline      `json:"input"` // v3 code cells
	Level    int            `json:"level"` // v3 heading cells
	Metadata map[string]any `json:"metadata"`
}

// multiline accepts both encodings nbformat allows for text: a single
// string or a list of lines that are concatenated verbatim.
type multiline string

func (m *multiline) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = multiline(s)
		return nil
	}

	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("source must be a string or a list of strings")
	}
	*m = multiline(strings.Join(lines, ""))
	return nil
}

// Parse decodes a notebook in nbformat v4 JSON. A v3 notebook is upgraded
// to v4 first; older formats are rejected.
func Parse(r io.Reader) (*model.Document, error) {
	var raw rawNotebook
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode notebook: %w", err)
	}

	switch raw.NBFormat {
	case 4:
	case 3:
		raw = upgradeV3(raw)
	default:
		return nil, fmt.Errorf("unsupported nbformat %d (want 3 or 4)", raw.NBFormat)
	}

	doc := &model.Document{
		Cells:         make([]model.Cell, 0, len(raw.Cells)),
		NBFormat:      raw.NBFormat,
		NBFormatMinor: raw.NBFormatMinor,
	}

	for i, c := range raw.Cells {
		cellType := model.CellType(c.CellType)
		switch cellType {
		case model.CellTypeCode, model.CellTypeMarkdown, model.CellTypeRaw:
		default:
			return nil, fmt.Errorf("cell %d: unknown cell type %q", i, c.CellType)
		}

		metadata := c.Metadata
		if metadata == nil {
			metadata = map[string]any{}
		}

		doc.Cells = append(doc.Cells, model.Cell{
			Type:     cellType,
			Source:   string(c.Source),
			Metadata: metadata,
		})
	}

	return doc, nil
}

// upgradeV3 flattens v3 worksheets into a v4 cell list. Code cells move
// their input to source, and heading and html cells become markdown.
func upgradeV3(raw rawNotebook) rawNotebook {
	upgraded := rawNotebook{NBFormat: 4}

	for _, ws := range raw.Worksheets {
		for _, c := range ws.Cells {
			switch c.CellType {
			case "code":
				c.Source = c.Input
			case "heading":
				level := c.Level
				if level <= 0 {
					level = 1
				}
				c.CellType = string(model.CellTypeMarkdown)
				c.Source = multiline(strings.Repeat("#", level) + " " + strings.Join(splitLines(string(c.Source)), " "))
			case "html":
				c.CellType = string(model.CellTypeMarkdown)
			}
			c.Input, c.Level = "", 0
			upgraded.Cells = append(upgraded.Cells, c)
		}
	}

	return upgraded
}

// splitLines splits on any line ending and drops a final empty line
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
