package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/content-test-enforcer/internal/pipeline"
)

// Checker defines the interface for checking one notebook path
type Checker interface {
	CheckPath(ctx context.Context, path string) (*pipeline.Outcome, error)
}

// CheckJob represents a notebook check job
type CheckJob struct {
	Index   int // Position in the input list
	Path    string
	Checker Checker
}

// Execute executes the check job
func (j *CheckJob) Execute(ctx context.Context) Result {
	outcome, err := j.Checker.CheckPath(ctx, j.Path)
	return &CheckResult{
		Index:   j.Index,
		Path:    j.Path,
		Outcome: outcome,
		Error:   err,
	}
}

// CheckResult represents the result of a check job
type CheckResult struct {
	Index   int
	Path    string
	Outcome *pipeline.Outcome // nil when Error is set
	Error   error
}

// GetError returns the error from the check result
func (r *CheckResult) GetError() error {
	return r.Error
}

// Passed reports whether the notebook was read and passed every check
func (r *CheckResult) Passed() bool {
	return r.Error == nil && r.Outcome != nil && r.Outcome.Report.Passed
}

// BatchProcessor checks many notebooks. A failure on one path never stops the others.
type BatchProcessor struct {
	checker     Checker
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(checker Checker, concurrency int) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
	}
}

// ProcessPaths checks every path and returns the results in input order
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*CheckResult {
	if len(paths) == 0 {
		return []*CheckResult{}
	}

	if b.concurrency == 1 {
		results := make([]*CheckResult, len(paths))
		for i, path := range paths {
			job := &CheckJob{Index: i, Path: path, Checker: b.checker}
			results[i] = job.Execute(ctx).(*CheckResult)
		}
		return results
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	cancelled := false
	for i, path := range paths {
		if !pool.Submit(&CheckJob{Index: i, Path: path, Checker: b.checker}) {
			cancelled = true
			break
		}
	}

	var results []Result
	if cancelled {
		results = pool.Shutdown()
	} else {
		results = pool.Wait()
	}

	// Paths dropped by cancellation still get a result, as they do sequentially
	checkResults := make([]*CheckResult, len(paths))
	for _, result := range results {
		res := result.(*CheckResult)
		checkResults[res.Index] = res
	}
	for i, res := range checkResults {
		if res == nil {
			checkResults[i] = &CheckResult{
				Index: i,
				Path:  paths[i],
				Error: fmt.Errorf("not checked: %w", cancelCause(ctx)),
			}
		}
	}

	return checkResults
}

// cancelCause is the reason a job never ran
func cancelCause(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return context.Canceled
}

// ReadPathsFromFile reads notebook paths from a file (one per line).
// Blank lines and lines starting with # are skipped, duplicates are dropped.
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
