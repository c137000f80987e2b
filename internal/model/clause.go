package model

// ClauseKind identifies the structural level of a node in the clause tree
type ClauseKind string

const (
	KindDocument  ClauseKind = "document"  // Root node, one per document
	KindArticle   ClauseKind = "article"   // Top-level division (ARTICLE I, Chapter 2)
	KindSection   ClauseKind = "section"   // Numbered section (1.4, 4.2)
	KindParagraph ClauseKind = "paragraph" // Unnumbered prose under a section
	KindPoint     ClauseKind = "point"     // Lettered/numbered point ((a), (i))
)

// ClauseType is the semantic classification of a clause, assigned at parse time
type ClauseType string

const (
	ClauseObligation     ClauseType = "obligation"     // Imposes a duty or consequence
	ClauseCondition      ClauseType = "condition"      // Gates an outcome on a trigger
	ClauseRight          ClauseType = "right"          // Grants an entitlement
	ClauseRepresentation ClauseType = "representation" // States a fact or warranty
	ClauseDefinition     ClauseType = "definition"     // Introduces a defined term
)

// ClauseNode is one node of the contract's hierarchical structure.
// Trees are built once per analysis run and never mutated afterwards;
// every consumer treats them as read-only.
type ClauseNode struct {
	ID         string        `json:"id"`                    // Stable identifier, assigned at parse time
	Kind       ClauseKind    `json:"kind"`                  // Structural level
	Number     string        `json:"number,omitempty"`      // Human-visible label, e.g. "4.2"
	Text       string        `json:"text"`                  // Literal clause text (may be empty for structural nodes)
	ClauseType ClauseType    `json:"clause_type,omitempty"` // Semantic tag, empty if unclassified
	Children   []*ClauseNode `json:"children,omitempty"`    // Document order
}
