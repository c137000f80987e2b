package model

// TermCategory groups defined terms for display and heuristics
type TermCategory string

const (
	CategoryParties    TermCategory = "parties"    // People, companies, entities
	CategoryFinancial  TermCategory = "financial"  // Money, payments, valuations
	CategoryTime       TermCategory = "time"       // Dates, periods, deadlines
	CategoryConditions TermCategory = "conditions" // Triggers, requirements, protections
	CategoryEquity     TermCategory = "equity"     // Shares, vesting, ownership
	CategoryGeneral    TermCategory = "general"    // Everything else
)

// Definition is a recorded defined term. A term has exactly one governing
// definition per document; duplicates are reported as defects, not merged.
type Definition struct {
	Term          string       `json:"term"`           // Canonical surface form, e.g. "Good Reason"
	Meaning       string       `json:"meaning"`        // Text of the definition
	SourceSection string       `json:"source_section"` // Number of the clause that introduces it
	Category      TermCategory `json:"category"`       // Classification for grouping
}
