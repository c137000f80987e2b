package model

// ConflictType is an enumerated category of detected conflict
type ConflictType string

const (
	ConflictSafeHarborOverride   ConflictType = "safe_harbor_override"          // Consequence clause bypasses a defined protection
	ConflictDuplicateDefinition  ConflictType = "duplicate_definition"          // Same term defined in two places
	ConflictCircularDefinition   ConflictType = "circular_definition"           // Term meanings depend on each other
	ConflictContradictoryOutcome ConflictType = "contradictory_classification"  // Overlapping triggers, opposing outcomes
)

// Severity ranks how material a finding or mismatch is
type Severity string

const (
	SeverityHigh   Severity = "high"   // Bypassed protection reverses the consequence
	SeverityMedium Severity = "medium" // Narrows or modifies the consequence
	SeverityLow    Severity = "low"    // Wording ambiguity without outcome change
)

// Rank orders severities for sorting, highest first
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	default:
		return 3
	}
}

// ConflictFinding is one detected instance where a clause's consequence
// does not account for a relevant, separately-defined protection or where
// the document's definitions are internally defective. Findings are
// candidates for human review, never auto-corrections.
type ConflictFinding struct {
	ConflictType     ConflictType `json:"conflict_type"`
	AffectedSections []string     `json:"affected_sections"` // Section numbers implicated, document order
	Severity         Severity     `json:"severity"`
	Details          string       `json:"details"` // Names the specific terms and sections involved
}
