package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/axiomlogic/axiom/internal/model"
)

// Analyzer defines the interface for analyzing one contract text
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*model.Report, error)
}

// AnalyzeJob analyzes a single contract file
type AnalyzeJob struct {
	Path     string
	Analyzer Analyzer
}

// Execute reads the file and runs the full analysis pipeline on it
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	data, err := os.ReadFile(j.Path)
	if err != nil {
		return &AnalyzeResult{Path: j.Path, Error: fmt.Errorf("read %s: %w", j.Path, err)}
	}

	report, err := j.Analyzer.Analyze(ctx, string(data))
	if err != nil {
		return &AnalyzeResult{Path: j.Path, Error: err}
	}
	return &AnalyzeResult{Path: j.Path, Report: report}
}

// AnalyzeResult is the outcome of one batch analysis job
type AnalyzeResult struct {
	Path   string
	Report *model.Report
	Error  error
}

// GetError returns the error from the analysis
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple contract files concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessPaths analyzes the given files concurrently. Results come back
// sorted by path so batch output is stable regardless of scheduling.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*AnalyzeResult {
	if len(paths) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&AnalyzeJob{Path: path, Analyzer: b.analyzer})
	}

	results := pool.Wait()

	out := make([]*AnalyzeResult, len(results))
	for i, result := range results {
		out[i] = result.(*AnalyzeResult)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// ProcessFile reads file paths from a manifest (one per line) and
// analyzes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, manifestPath string) ([]*AnalyzeResult, error) {
	paths, err := ReadPathsFromFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads file paths from a manifest, skipping blanks,
// comments and duplicates
func ReadPathsFromFile(manifestPath string) ([]string, error) {
	file, err := os.Open(manifestPath)
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
