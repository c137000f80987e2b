// Package pipeline orchestrates the complete analysis of one document:
// parse, register definitions, detect conflicts, run scenarios, render.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/axiomlogic/axiom/internal/cache"
	"github.com/axiomlogic/axiom/internal/conflict"
	"github.com/axiomlogic/axiom/internal/llm"
	"github.com/axiomlogic/axiom/internal/model"
	"github.com/axiomlogic/axiom/internal/registry"
	"github.com/axiomlogic/axiom/internal/scenario"
	"github.com/axiomlogic/axiom/internal/score"
	"github.com/axiomlogic/axiom/internal/tree"
	"github.com/axiomlogic/axiom/internal/verify"
)

// Pipeline runs the full analysis for contract documents
type Pipeline struct {
	provider llm.Provider // nil when LLM parsing is disabled
	cache    cache.Cache  // nil when caching is disabled
	renderer *Renderer
	config   *model.Config
}

// NewPipeline creates a new pipeline with the given configuration. A
// provider that fails to initialize disables LLM parsing with a warning
// rather than failing the run; the heuristic parser still works.
func NewPipeline(cfg *model.Config) *Pipeline {
	var provider llm.Provider
	if cfg.LLM.Provider != "" {
		p, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		} else {
			provider = p
		}
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	return &Pipeline{
		provider: provider,
		cache:    c,
		renderer: NewRenderer(cfg.Output.IncludeFooter),
		config:   cfg,
	}
}

// Document is the parsed form shared by every analysis surface
type Document struct {
	Tree              *tree.Tree
	Registry          *registry.Registry
	Subject           string
	StructureProblems []string
}

// ParseDocument parses the contract text into a tree and definition
// registry. Malformed structure degrades to recorded problems; only a
// document with no recognizable structure at all is a hard error.
func ParseDocument(text string) (*Document, error) {
	t, err := tree.Parse(text)
	var problems []string
	if err != nil {
		var malformed *tree.MalformedStructureError
		if !errors.As(err, &malformed) || malformed.Partial == nil {
			return nil, fmt.Errorf("parse document: %w", err)
		}
		t = malformed.Partial
		problems = malformed.Problems
	}

	return &Document{
		Tree:              t,
		Registry:          registry.Build(t),
		Subject:           detectSubject(text),
		StructureProblems: problems,
	}, nil
}

// Analyze runs the full pipeline on one document text. Identical text
// produces an identical report (modulo timestamps), served from cache
// when enabled.
func (p *Pipeline) Analyze(ctx context.Context, text string) (*model.Report, error) {
	key := cache.DocumentKey(text)

	if p.cache != nil {
		if data, hit := p.cache.Get(key); hit {
			var report model.Report
			if err := json.Unmarshal(data, &report); err == nil {
				return &report, nil
			}
			// Unreadable entry; fall through and recompute
		}
	}

	start := time.Now()

	doc, err := ParseDocument(text)
	if err != nil {
		return nil, err
	}

	findings := conflict.Detect(doc.Tree, doc.Registry)

	engine := scenario.New(doc.Tree, doc.Registry, p.provider, p.config.Scenario)
	scenarios, err := engine.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run scenarios: %w", err)
	}

	risk := score.NewScorer().Calculate(doc.Tree, doc.Registry, findings, scenarios, doc.StructureProblems)

	report := &model.Report{
		DocumentID:        key,
		Subject:           doc.Subject,
		AnalyzedAt:        time.Now().UTC(),
		Tree:              doc.Tree.Root(),
		StructureProblems: doc.StructureProblems,
		Definitions:       doc.Registry.Terms(),
		Findings:          findings,
		Scenarios:         scenarios,
		Risk:              risk,
		DurationMS:        time.Since(start).Milliseconds(),
	}

	if p.cache != nil {
		if data, err := json.Marshal(report); err == nil {
			_ = p.cache.Set(key, data, 0)
		}
	}

	return report, nil
}

// NewVerifier builds an assertion verifier over one document
func (p *Pipeline) NewVerifier(text string) (*verify.Verifier, *Document, error) {
	doc, err := ParseDocument(text)
	if err != nil {
		return nil, nil, err
	}
	return verify.New(doc.Tree, doc.Registry, p.provider), doc, nil
}

// NewScenarioEngine builds a scenario engine over one document
func (p *Pipeline) NewScenarioEngine(text string) (*scenario.Engine, *Document, error) {
	doc, err := ParseDocument(text)
	if err != nil {
		return nil, nil, err
	}
	return scenario.New(doc.Tree, doc.Registry, p.provider, p.config.Scenario), doc, nil
}

// RenderReport renders the report to the specified outputs and prints
// the summary to stdout
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(report)
	return nil
}

// detectSubject returns the document title when the first line reads
// like one (short, no clause numbering)
func detectSubject(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 80 {
			return ""
		}
		if c := line[0]; c >= '0' && c <= '9' {
			return ""
		}
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "article") || strings.HasPrefix(lower, "section") {
			return ""
		}
		return line
	}
	return ""
}
