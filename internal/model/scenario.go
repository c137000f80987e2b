package model

// ScenarioSource records where a scenario came from
type ScenarioSource string

const (
	SourceTemplate          ScenarioSource = "template"           // Seeded from the standard playbook
	SourceContractGenerated ScenarioSource = "contract_generated" // Derived from this document's clause types
	SourceUserCustom        ScenarioSource = "user_custom"        // Submitted on demand, never auto-removed
)

// ScenarioStatus is the pass/fail outcome of one scenario run
type ScenarioStatus string

const (
	ScenarioPass ScenarioStatus = "pass"
	ScenarioFail ScenarioStatus = "fail"
)

// ScenarioSpec is a hypothetical trigger event to evaluate against a
// document. Template specs ship with the binary; playbook files add more.
type ScenarioSpec struct {
	Name             string         `yaml:"name" json:"name"`
	Description      string         `yaml:"description" json:"description"`
	TriggerEvent     string         `yaml:"trigger_event" json:"trigger_event"`
	ExpectedBehavior string         `yaml:"expected_behavior" json:"expected_behavior"`
	RedFlags         []string       `yaml:"red_flags,omitempty" json:"red_flags,omitempty"` // Phrases that indicate the conflict
	Source           ScenarioSource `yaml:"-" json:"source_type"`
	Priority         int            `yaml:"priority,omitempty" json:"-"` // Higher runs first among templates
}

// ScenarioResult is one evaluated scenario. Re-running an unchanged
// document+trigger pair yields identical status, outcome and conflict.
type ScenarioResult struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	TriggerEvent    string         `json:"trigger_event"`
	Status          ScenarioStatus `json:"status"`
	ExpectedOutcome string         `json:"expected_outcome,omitempty"`
	ActualOutcome   string         `json:"actual_outcome,omitempty"`
	Conflict        string         `json:"conflict,omitempty"` // Set when status is fail
	SourceType      ScenarioSource `json:"source_type"`
}
