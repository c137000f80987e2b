package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/axiomlogic/axiom/internal/model"
)

// Renderer writes analysis reports as JSON, Markdown and a terminal
// summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the report as a human-readable Markdown document
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	title := report.Subject
	if title == "" {
		title = "Contract Analysis"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Analyzed: %s\n\n", report.AnalyzedAt.Format("2006-01-02 15:04 UTC"))

	if len(report.StructureProblems) > 0 {
		b.WriteString("## Structure Problems\n\n")
		for _, p := range report.StructureProblems {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Consistency Index: %d/100\n\n", report.Risk.Index)
	fmt.Fprintf(&b, "Confidence: %s\n\n", report.Risk.Confidence)
	for _, sig := range report.Risk.Signals {
		fmt.Fprintf(&b, "- %s %s: %s\n", severityBadge(sig.Severity), sig.Type, sig.Description)
	}
	b.WriteString("\n")

	b.WriteString("## Defined Terms\n\n")
	if len(report.Definitions) == 0 {
		b.WriteString("No defined terms found.\n\n")
	} else {
		b.WriteString("| Term | Section | Category | Meaning |\n")
		b.WriteString("|------|---------|----------|--------|\n")
		for _, d := range report.Definitions {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				d.Term, d.SourceSection, d.Category, truncate(d.Meaning, 100))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Conflicts\n\n")
	if len(report.Findings) == 0 {
		b.WriteString("No conflicts detected.\n\n")
	} else {
		for _, f := range report.Findings {
			fmt.Fprintf(&b, "### %s %s\n\n", severityBadge(f.Severity), f.ConflictType)
			fmt.Fprintf(&b, "Affected sections: %s\n\n", strings.Join(f.AffectedSections, ", "))
			fmt.Fprintf(&b, "%s\n\n", f.Details)
		}
	}

	b.WriteString("## Scenarios\n\n")
	if len(report.Scenarios) == 0 {
		b.WriteString("No scenarios evaluated.\n\n")
	} else {
		for _, s := range report.Scenarios {
			mark := "✓"
			if s.Status == model.ScenarioFail {
				mark = "✗"
			}
			fmt.Fprintf(&b, "### %s %s\n\n", mark, s.Name)
			fmt.Fprintf(&b, "- Trigger: %s\n", s.TriggerEvent)
			if s.ExpectedOutcome != "" {
				fmt.Fprintf(&b, "- Expected: %s\n", s.ExpectedOutcome)
			}
			if s.ActualOutcome != "" {
				fmt.Fprintf(&b, "- Actual: %s\n", s.ActualOutcome)
			}
			if s.Conflict != "" {
				fmt.Fprintf(&b, "- Conflict: %s\n", s.Conflict)
			}
			b.WriteString("\n")
		}
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("Generated by axiom. This is a structural analysis, not legal advice.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a short result summary to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	if report.Subject != "" {
		fmt.Printf("  %s\n", report.Subject)
	} else {
		fmt.Println("  Contract Analysis")
	}
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Printf("  Defined terms:  %d\n", len(report.Definitions))
	fmt.Printf("  Conflicts:      %d\n", len(report.Findings))
	fmt.Printf("  Consistency:    %d/100 (%s confidence)\n", report.Risk.Index, report.Risk.Confidence)

	passed, failed := 0, 0
	for _, s := range report.Scenarios {
		if s.Status == model.ScenarioPass {
			passed++
		} else {
			failed++
		}
	}
	fmt.Printf("  Scenarios:      %d passed, %d failed\n", passed, failed)

	if report.HasConflict() {
		fmt.Printf("  Highest risk:   %s\n", report.HighestSeverity())
		fmt.Println()
		for _, f := range report.Findings {
			fmt.Printf("  %s [%s] %s\n", severityBadge(f.Severity), f.ConflictType, truncate(f.Details, 90))
		}
	}
	fmt.Println()
}

func severityBadge(s model.Severity) string {
	switch s {
	case model.SeverityHigh:
		return "🔴"
	case model.SeverityMedium:
		return "🟡"
	default:
		return "🟢"
	}
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
