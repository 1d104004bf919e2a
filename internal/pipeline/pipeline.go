package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ppiankov/content-test-enforcer/internal/cache"
	"github.com/ppiankov/content-test-enforcer/internal/check"
	"github.com/ppiankov/content-test-enforcer/internal/extract"
	"github.com/ppiankov/content-test-enforcer/internal/model"
	"github.com/ppiankov/content-test-enforcer/internal/notebook"
	"github.com/ppiankov/content-test-enforcer/internal/report"
	"github.com/ppiankov/content-test-enforcer/internal/style"
)

// Pipeline checks one notebook path end to end: read, extract, check, report
type Pipeline struct {
	reader  *notebook.Reader
	builder *report.Builder
}

// NewPipeline creates a pipeline. The palette colors the text output only.
func NewPipeline(cfg *model.Config, palette style.Palette) *Pipeline {
	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewMemoryCache(cfg.Cache.TTL, 2*cfg.Cache.TTL)
	}

	// The checker quotes whatever marker the extractor settled on
	extractor := extract.NewReferenceExtractor(cfg.Check.Marker)

	return &Pipeline{
		reader: notebook.NewReader(c, cfg.Cache.TTL),
		builder: report.NewBuilder(
			extractor,
			check.NewChecker(extractor.Marker(), cfg.Check.Tag, palette),
		),
	}
}

// Outcome is the result of checking one path
type Outcome struct {
	Report model.DocumentReport
	Text   []byte // Rendered human-readable output
}

// CheckPath reads the notebook at path once and evaluates that snapshot.
// Only read or parse failures are returned as errors; check failures live in the report.
func (p *Pipeline) CheckPath(ctx context.Context, path string) (*Outcome, error) {
	doc, err := p.reader.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read notebook: %w", err)
	}

	var buf bytes.Buffer
	rep, err := p.builder.Check(path, doc, &buf)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	return &Outcome{
		Report: rep,
		Text:   buf.Bytes(),
	}, nil
}
