package scenario

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/axiomlogic/axiom/internal/model"
	"github.com/axiomlogic/axiom/internal/registry"
	"github.com/axiomlogic/axiom/internal/tree"
)

const sampleContract = `FOUNDERS AGREEMENT

ARTICLE 1. Definitions

1.1 "Cause" shall mean willful misconduct, fraud, or material breach of this Agreement by the Founder.
1.2 "Bad Leaver" shall mean a Founder terminated for Cause or who resigns voluntarily.
1.3 "Good Reason" shall mean a material reduction in the Founder's base salary or duties without the Founder's written consent.
1.4 "Shares" shall mean the ordinary shares of the Company held by the Founder.

ARTICLE 3. Leaver Provisions

3.1 If the Founder is terminated for Cause (as defined in Section 1.1), the Founder shall be deemed a Bad Leaver.
3.2 If the Founder resigns without Good Reason, the Founder shall be deemed a Bad Leaver and shall forfeit all Shares, whether vested or unvested.
3.3 A Founder terminated without Cause shall retain all vested Shares.
`

func newEngine(t *testing.T, cfg model.ScenarioConfig) *Engine {
	t.Helper()
	tr, err := tree.Parse(sampleContract)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return New(tr, registry.Build(tr), nil, cfg)
}

func TestRunEvaluatesTemplates(t *testing.T) {
	e := newEngine(t, model.ScenarioConfig{MaxTemplates: 3})

	results, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) < 3 {
		t.Fatalf("expected at least 3 results, got %d", len(results))
	}

	templates := 0
	for _, r := range results {
		if r.SourceType == model.SourceTemplate {
			templates++
		}
		if r.ID == "" || r.Name == "" || r.TriggerEvent == "" {
			t.Errorf("incomplete result: %+v", r)
		}
	}
	if templates != 3 {
		t.Errorf("MaxTemplates=3 should yield 3 template results, got %d", templates)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	e := newEngine(t, model.ScenarioConfig{MaxTemplates: 5, MaxGenerated: 3})

	first, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	second, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("result counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("result %d: ID changed between runs", i)
		}
		if first[i].Status != second[i].Status || first[i].ActualOutcome != second[i].ActualOutcome {
			t.Errorf("result %d: outcome changed between runs", i)
		}
	}
}

func TestResignationScenarioFailsOnBypassedProtection(t *testing.T) {
	e := newEngine(t, model.ScenarioConfig{})

	result := e.Evaluate(model.ScenarioSpec{
		Name:             "Resignation for good reason",
		TriggerEvent:     "Founder resigns for Good Reason after a material reduction in base salary",
		ExpectedBehavior: "Founder retains vested shares",
		Source:           model.SourceTemplate,
	})

	if result.Status != model.ScenarioFail {
		t.Fatalf("status = %s, want fail (%+v)", result.Status, result)
	}
	if !strings.Contains(result.Conflict, "Good Reason") {
		t.Errorf("conflict should name the bypassed protection: %q", result.Conflict)
	}
}

func TestTerminationWithoutCausePasses(t *testing.T) {
	e := newEngine(t, model.ScenarioConfig{})

	result := e.Evaluate(model.ScenarioSpec{
		Name:             "Termination without cause",
		TriggerEvent:     "Company terminates the Founder without Cause",
		ExpectedBehavior: "Founder retains vested shares",
		Source:           model.SourceTemplate,
	})

	if result.Status != model.ScenarioPass {
		t.Errorf("status = %s, want pass (conflict: %q)", result.Status, result.Conflict)
	}
}

func TestRedFlagFailsScenario(t *testing.T) {
	e := newEngine(t, model.ScenarioConfig{})

	result := e.Evaluate(model.ScenarioSpec{
		Name:         "Resignation",
		TriggerEvent: "Founder resigns without Good Reason",
		RedFlags:     []string{"whether vested or unvested"},
		Source:       model.SourceTemplate,
	})

	if result.Status != model.ScenarioFail {
		t.Fatalf("status = %s, want fail", result.Status)
	}
	if !strings.Contains(result.Conflict, "red-flag") {
		t.Errorf("conflict should mention the red flag: %q", result.Conflict)
	}
}

func TestGenerateDerivesScenariosFromClauses(t *testing.T) {
	e := newEngine(t, model.ScenarioConfig{MaxGenerated: 2})

	specs := e.Generate()
	if len(specs) == 0 {
		t.Fatal("expected generated scenarios")
	}
	if len(specs) > 2 {
		t.Errorf("MaxGenerated=2 exceeded: %d", len(specs))
	}
	for _, s := range specs {
		if s.Source != model.SourceContractGenerated {
			t.Errorf("source = %s, want %s", s.Source, model.SourceContractGenerated)
		}
		if s.TriggerEvent == "" {
			t.Error("generated scenario has empty trigger")
		}
	}
}

func TestGenerateDisabledByZeroCap(t *testing.T) {
	e := newEngine(t, model.ScenarioConfig{MaxGenerated: 0})
	if specs := e.Generate(); specs != nil {
		t.Errorf("expected no generated scenarios, got %d", len(specs))
	}
}

func TestAddCustomWithoutProvider(t *testing.T) {
	e := newEngine(t, model.ScenarioConfig{})

	spec, err := e.AddCustom(context.Background(), "What if the Founder gets sick for six months?")
	if err != nil {
		t.Fatalf("AddCustom: %v", err)
	}
	if spec.Source != model.SourceUserCustom {
		t.Errorf("source = %s, want %s", spec.Source, model.SourceUserCustom)
	}
	if len(e.Custom()) != 1 {
		t.Errorf("custom scenario not registered")
	}

	// Custom scenarios join subsequent runs
	results, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	found := false
	for _, r := range results {
		if r.SourceType == model.SourceUserCustom {
			found = true
		}
	}
	if !found {
		t.Error("custom scenario missing from run results")
	}
}

func TestScenarioIDStable(t *testing.T) {
	spec := model.ScenarioSpec{Name: "X", TriggerEvent: "Y"}
	if scenarioID(spec) != scenarioID(spec) {
		t.Error("same spec must produce the same ID")
	}
	other := model.ScenarioSpec{Name: "X", TriggerEvent: "Z"}
	if scenarioID(spec) == scenarioID(other) {
		t.Error("different triggers must produce different IDs")
	}
}

func TestLoadPlaybook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "playbook.yaml")
	content := `scenarios:
  - name: Acquisition during cliff
    description: Company is acquired before the vesting cliff
    trigger_event: Company is acquired twelve months into the vesting schedule
    expected_behavior: Vesting accelerates on change of control
    red_flags:
      - no acceleration
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	specs, err := LoadPlaybook(path)
	if err != nil {
		t.Fatalf("LoadPlaybook: %v", err)
	}
	if len(specs) != 1 {
		t.Fatalf("expected 1 scenario, got %d", len(specs))
	}
	s := specs[0]
	if s.Name != "Acquisition during cliff" || s.TriggerEvent == "" {
		t.Errorf("unexpected spec: %+v", s)
	}
	if s.Source != model.SourceTemplate {
		t.Errorf("playbook scenarios load as templates, got %s", s.Source)
	}
	if len(s.RedFlags) != 1 {
		t.Errorf("red flags = %v", s.RedFlags)
	}
}

func TestLoadPlaybookRejectsIncompleteSpec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("scenarios:\n  - description: no name\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadPlaybook(path); err == nil {
		t.Error("expected error for scenario missing name and trigger")
	}
}
