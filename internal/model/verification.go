package model

// Verdict is the terminal outcome of one assertion verification
type Verdict string

const (
	VerdictPass      Verdict = "pass"      // Derived outcome matches the asserted outcome
	VerdictWarning   Verdict = "warning"   // Matches with unresolved caveats, or differs only via an uncited protection
	VerdictFail      Verdict = "fail"      // Derived outcome materially contradicts the assertion
	VerdictAmbiguous Verdict = "ambiguous" // An asserted entity could not be grounded in the document
)

// ParsedAssertion is the structured form of a natural-language assertion
type ParsedAssertion struct {
	Subject         string   `json:"subject,omitempty"`   // Who the assertion is about, e.g. "Founder"
	Condition       string   `json:"condition,omitempty"` // Qualifying condition, e.g. "if Good Reason"
	ExpectedOutcome string   `json:"expected_outcome"`    // What the assertion claims happens
	Entities        []string `json:"entities,omitempty"`  // Terms and subjects referenced by the assertion
	AssertionType   string   `json:"assertion_type,omitempty"` // conditional, absolute, prohibition, requirement
}

// TraceStep is one entry in the causal chain from assertion to verdict.
// Each step records enough to reconstruct the decision without re-running
// the algorithm.
type TraceStep struct {
	NodeID  string `json:"node_id,omitempty"` // Clause node or definition the step touched
	Section string `json:"section,omitempty"` // Section number, when the step is tied to one
	Label   string `json:"label"`             // Short step label, e.g. "Definition: Good Reason"
	Kind    string `json:"kind"`              // input, definition, clause, outcome
	Snippet string `json:"snippet,omitempty"` // Text relied upon
}

// VerificationResult is the terminal output for one assertion
type VerificationResult struct {
	AssertionText   string          `json:"assertion_text"`
	Parsed          ParsedAssertion `json:"parsed_assertion"`
	Verdict         Verdict         `json:"verdict"`
	Summary         string          `json:"summary"`
	ActualOutcome   string          `json:"actual_outcome"`
	ExpectedOutcome string          `json:"expected_outcome"`
	LogicTrace      []TraceStep     `json:"logic_trace"`
	DurationMS      int64           `json:"duration_ms"`
}

// EventKind classifies a verification stream event
type EventKind string

const (
	EventThinking    EventKind = "thinking"     // Progress note
	EventEntityFound EventKind = "entity_found" // An asserted entity was grounded
	EventConflict    EventKind = "conflict"     // A scope bypass surfaced mid-resolution
	EventTrace       EventKind = "trace"        // The assembled causal chain
	EventComplete    EventKind = "complete"     // Terminal: carries the VerificationResult
	EventError       EventKind = "error"        // Terminal: an external capability failed
)

// Event is one entry of the ordered verification stream. Exactly one
// terminal event (complete or error) ends every stream; consumers stop
// reading after it.
type Event struct {
	Kind     EventKind           `json:"kind"`
	Message  string              `json:"message,omitempty"`  // thinking and error events
	Entity   string              `json:"entity,omitempty"`   // entity_found
	Location string              `json:"location,omitempty"` // entity_found: where it was grounded
	Severity Severity            `json:"severity,omitempty"` // conflict
	Details  string              `json:"details,omitempty"`  // conflict
	Chain    []TraceStep         `json:"chain,omitempty"`    // trace
	Result   *VerificationResult `json:"result,omitempty"`   // complete
}

// Terminal reports whether the event ends the stream
func (e Event) Terminal() bool {
	return e.Kind == EventComplete || e.Kind == EventError
}
