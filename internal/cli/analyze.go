package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/axiomlogic/axiom/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	noCache     bool
	noFooter    bool
	playbook    string
	llmProvider string
	llmModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a contract and generate a conflict report",
	Long: `Analyze parses a contract document to:
- Build the hierarchical clause tree
- Extract defined terms into a registry
- Detect conflicts: bypassed protections, duplicate and circular definitions
- Stress-test the document with hypothetical scenarios
- Generate transparent, explainable reports

Example:
  axiom analyze founders-agreement.txt
  axiom analyze contract.txt --json report.json --md report.md
  axiom analyze contract.txt --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh analysis)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	analyzeCmd.Flags().StringVar(&playbook, "playbook", "", "YAML playbook of additional scenarios")

	// LLM flags
	analyzeCmd.Flags().StringVar(&llmProvider, "llm", "", "LLM provider for natural-language parsing (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	cfg.Output.IncludeFooter = !noFooter
	if playbook != "" {
		cfg.Scenario.PlaybookPath = playbook
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read contract: %w", err)
	}

	p := pipeline.NewPipeline(cfg)

	report, err := p.Analyze(ctx, string(data))
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d defined terms\n", len(report.Definitions))
		fmt.Fprintf(os.Stderr, "✓ Detected %d conflicts\n", len(report.Findings))
		fmt.Fprintf(os.Stderr, "✓ Evaluated %d scenarios\n", len(report.Scenarios))
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
