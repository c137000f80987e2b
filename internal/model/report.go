package model

import "time"

// Report is the complete output of one document analysis run: the parsed
// structure, the definition registry contents, conflict findings, and the
// scenario battery. One report per run; never mutated after assembly.
type Report struct {
	DocumentID string    `json:"document_id"`       // Hash-derived identifier of the source text
	Subject    string    `json:"subject,omitempty"` // Document title, when one was recognized
	AnalyzedAt time.Time `json:"analyzed_at"`

	Tree              *ClauseNode `json:"tree,omitempty"`
	StructureProblems []string    `json:"structure_problems,omitempty"` // Non-fatal parse defects

	Definitions []Definition      `json:"definitions"`
	Findings    []ConflictFinding `json:"findings"`
	Scenarios   []ScenarioResult  `json:"scenarios"`
	Risk        RiskScore         `json:"risk"`

	DurationMS int64 `json:"duration_ms"`
}

// HasConflict reports whether any finding was detected
func (r *Report) HasConflict() bool {
	return len(r.Findings) > 0
}

// HighestSeverity returns the most severe finding level, or "" if clean
func (r *Report) HighestSeverity() Severity {
	best := Severity("")
	for _, f := range r.Findings {
		if best == "" || f.Severity.Rank() < best.Rank() {
			best = f.Severity
		}
	}
	return best
}
