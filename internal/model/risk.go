package model

// SignalType classifies a diagnostic signal contributing to the risk
// index
type SignalType string

const (
	SignalDefinitionCoverage  SignalType = "definition_coverage"  // Share of defined terms actually used
	SignalProtectionIntegrity SignalType = "protection_integrity" // Findings penalty, weighted by severity
	SignalStructure           SignalType = "structure"            // Parse defects penalty
	SignalScenarioOutcomes    SignalType = "scenario_outcomes"    // Scenario pass rate
)

// Signal is one explainable component of the risk index. Data carries
// the inputs and formula so the number can be audited.
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    Severity               `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// RiskScore is the document consistency index: 100 means no detected
// inconsistencies, 0 means the clause logic cannot be trusted as
// written.
type RiskScore struct {
	Index      int      `json:"index"` // 0-100
	Confidence string   `json:"confidence"`
	Signals    []Signal `json:"signals"`
}
