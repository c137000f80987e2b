// Package scenario stress-tests a contract with hypothetical trigger
// events. Scenarios come from three sources: the built-in template
// playbook, events derived from the contract's own clauses, and custom
// questions submitted by the user. All three evaluate through the same
// outcome derivation, so a scenario and an assertion about the same
// trigger can never disagree.
package scenario

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/axiomlogic/axiom/internal/llm"
	"github.com/axiomlogic/axiom/internal/logic"
	"github.com/axiomlogic/axiom/internal/model"
	"github.com/axiomlogic/axiom/internal/registry"
	"github.com/axiomlogic/axiom/internal/tree"
)

// Namespace for deterministic scenario IDs. Same document and trigger
// always produce the same ID, which keeps repeated runs diffable.
var idNamespace = uuid.MustParse("7b8a1c9e-4f2d-4e6a-9c3b-2d5e8f1a6b4c")

// Engine evaluates scenarios against one analyzed document
type Engine struct {
	tree     *tree.Tree
	registry *registry.Registry
	provider llm.Provider // nil means custom questions use the heuristic structurer
	cfg      model.ScenarioConfig
	custom   []model.ScenarioSpec
}

// New creates a scenario engine for one document
func New(t *tree.Tree, reg *registry.Registry, provider llm.Provider, cfg model.ScenarioConfig) *Engine {
	return &Engine{tree: t, registry: reg, provider: provider, cfg: cfg}
}

// Run evaluates the standard suite: top-priority templates, playbook
// additions, contract-derived scenarios and any registered custom
// scenarios, in that order.
func (e *Engine) Run(ctx context.Context) ([]model.ScenarioResult, error) {
	specs := e.selectTemplates()

	if e.cfg.PlaybookPath != "" {
		extra, err := LoadPlaybook(e.cfg.PlaybookPath)
		if err != nil {
			return nil, fmt.Errorf("load playbook: %w", err)
		}
		specs = append(specs, extra...)
	}

	specs = append(specs, e.Generate()...)
	specs = append(specs, e.custom...)

	results := make([]model.ScenarioResult, 0, len(specs))
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, e.Evaluate(spec))
	}
	return results, nil
}

// AddCustom structures a user's free-text question into a scenario and
// registers it for subsequent runs. Custom scenarios are never dropped
// by the template or generation caps.
func (e *Engine) AddCustom(ctx context.Context, question string) (model.ScenarioSpec, error) {
	spec, err := e.structure(ctx, question)
	if err != nil {
		return model.ScenarioSpec{}, err
	}
	e.custom = append(e.custom, spec)
	return spec, nil
}

// Custom returns the registered custom scenarios
func (e *Engine) Custom() []model.ScenarioSpec {
	return e.custom
}

// Evaluate runs one scenario. A scenario fails when the derived outcome
// contradicts the expected behavior, when the governing clause bypasses
// a material protection, or when a red-flag phrase appears in the
// governing clause.
func (e *Engine) Evaluate(spec model.ScenarioSpec) model.ScenarioResult {
	outcome := logic.DeriveOutcome(e.tree, e.registry, spec.TriggerEvent)

	result := model.ScenarioResult{
		ID:              scenarioID(spec),
		Name:            spec.Name,
		Description:     spec.Description,
		TriggerEvent:    spec.TriggerEvent,
		Status:          model.ScenarioPass,
		ExpectedOutcome: spec.ExpectedBehavior,
		ActualOutcome:   outcome.Description,
		SourceType:      spec.Source,
	}

	if flag := e.redFlag(spec, outcome); flag != "" {
		result.Status = model.ScenarioFail
		result.Conflict = fmt.Sprintf("governing clause contains red-flag language: %q", flag)
		return result
	}

	if bypassed := outcome.BypassedProtections(); len(bypassed) > 0 && materialAny(bypassed) {
		result.Status = model.ScenarioFail
		terms := make([]string, 0, len(bypassed))
		for _, p := range bypassed {
			terms = append(terms, fmt.Sprintf("%q (section %s)", p.Term, p.SourceSection))
		}
		result.Conflict = fmt.Sprintf("outcome is imposed without referencing %s", strings.Join(terms, ", "))
		return result
	}

	if spec.ExpectedBehavior != "" {
		expected := logic.ClassifyOutcome(spec.ExpectedBehavior)
		if expected != logic.OutcomeUnknown && !logic.Matches(outcome.Category, expected) && !logic.Related(outcome.Category, expected) {
			result.Status = model.ScenarioFail
			result.Conflict = fmt.Sprintf("expected %q but the contract yields %q",
				logic.DescribeCategory(expected), logic.DescribeCategory(outcome.Category))
		}
	}

	return result
}

// Trigger extraction for contract-derived scenarios: the condition part
// of "if ... then" and "in the event of ..." clauses.
var triggerPattern = regexp.MustCompile(`(?i)\b(?:if|in the event(?: that| of)?|upon|where)\s+([^,;.]{10,120})`)

// Generate derives scenarios from the contract's own consequence
// clauses, capped by configuration. Each trigger that a clause attaches
// a consequence to becomes a scenario with no expected behavior; such
// scenarios fail only on bypassed protections or red flags.
func (e *Engine) Generate() []model.ScenarioSpec {
	max := e.cfg.MaxGenerated
	if max <= 0 {
		return nil
	}

	var specs []model.ScenarioSpec
	seen := make(map[string]bool)
	for _, n := range logic.ConsequenceClauses(e.tree) {
		m := triggerPattern.FindStringSubmatch(n.Text)
		if m == nil {
			continue
		}
		trigger := strings.TrimSpace(m[1])
		key := strings.ToLower(trigger)
		if seen[key] {
			continue
		}
		seen[key] = true

		section := e.tree.SectionOf(n)
		specs = append(specs, model.ScenarioSpec{
			Name:         fmt.Sprintf("Clause %s trigger", section),
			Description:  fmt.Sprintf("Event described by section %s occurs", section),
			TriggerEvent: trigger,
			Source:       model.SourceContractGenerated,
		})
		if len(specs) >= max {
			break
		}
	}
	return specs
}

// selectTemplates returns the top-N built-in templates by priority
func (e *Engine) selectTemplates() []model.ScenarioSpec {
	templates := Templates()
	sort.SliceStable(templates, func(i, j int) bool {
		return templates[i].Priority > templates[j].Priority
	})
	if e.cfg.MaxTemplates > 0 && len(templates) > e.cfg.MaxTemplates {
		templates = templates[:e.cfg.MaxTemplates]
	}
	return templates
}

// structure turns a free-text question into a scenario spec, through the
// provider when one is configured
func (e *Engine) structure(ctx context.Context, question string) (model.ScenarioSpec, error) {
	if e.provider != nil {
		spec, err := e.provider.StructureScenario(ctx, question)
		if err != nil {
			return model.ScenarioSpec{}, fmt.Errorf("%s provider: %w", e.provider.Name(), err)
		}
		spec.Source = model.SourceUserCustom
		return *spec, nil
	}

	question = strings.TrimSpace(question)
	name := question
	if len(name) > 60 {
		name = name[:60] + "…"
	}
	trigger := question
	if m := triggerPattern.FindStringSubmatch(question); m != nil {
		trigger = strings.TrimSpace(m[1])
	}
	return model.ScenarioSpec{
		Name:         name,
		Description:  question,
		TriggerEvent: trigger,
		Source:       model.SourceUserCustom,
	}, nil
}

// redFlag returns the first red-flag phrase present in the governing
// clause, or ""
func (e *Engine) redFlag(spec model.ScenarioSpec, outcome logic.Outcome) string {
	if outcome.GoverningID == "" || len(spec.RedFlags) == 0 {
		return ""
	}
	node, ok := e.tree.ByID(outcome.GoverningID)
	if !ok {
		return ""
	}
	lower := strings.ToLower(node.Text)
	for _, flag := range spec.RedFlags {
		if strings.Contains(lower, strings.ToLower(flag)) {
			return flag
		}
	}
	return ""
}

func materialAny(ps []logic.Protection) bool {
	for _, p := range ps {
		if p.Material {
			return true
		}
	}
	return false
}

// scenarioID is stable across runs for the same scenario content
func scenarioID(spec model.ScenarioSpec) string {
	return uuid.NewSHA1(idNamespace, []byte(spec.Name+"|"+spec.TriggerEvent)).String()
}
