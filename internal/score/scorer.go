// Package score condenses an analysis into a single auditable
// consistency index. Every component ships as a signal with its inputs
// and formula, so the index is explainable rather than a black box.
package score

import (
	"fmt"

	"github.com/axiomlogic/axiom/internal/model"
	"github.com/axiomlogic/axiom/internal/registry"
	"github.com/axiomlogic/axiom/internal/tree"
)

// Scorer calculates the consistency index and generates signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate computes the consistency index from the analysis results
func (s *Scorer) Calculate(t *tree.Tree, reg *registry.Registry, findings []model.ConflictFinding, scenarios []model.ScenarioResult, structureProblems []string) model.RiskScore {
	var signals []model.Signal

	// 1. Definition coverage (0-25 points)
	coverageScore, coverageSignal := s.calculateCoverage(reg)
	signals = append(signals, coverageSignal)

	// 2. Protection integrity (0-45 points)
	integrityScore, integritySignal := s.calculateIntegrity(findings)
	signals = append(signals, integritySignal)

	// 3. Structural soundness (0-15 points)
	structureScore, structureSignal := s.calculateStructure(structureProblems)
	signals = append(signals, structureSignal)

	// 4. Scenario outcomes (0-15 points)
	scenarioScore, scenarioSignal := s.calculateScenarios(scenarios)
	signals = append(signals, scenarioSignal)

	total := coverageScore + integrityScore + structureScore + scenarioScore

	return model.RiskScore{
		Index:      total,
		Confidence: s.determineConfidence(total, len(t.Nodes()), findings),
		Signals:    signals,
	}
}

// calculateCoverage scores how many defined terms the document actually
// uses (0-25 points). Terms defined and never referenced are a smell:
// either dead weight or a protection nothing honors.
func (s *Scorer) calculateCoverage(reg *registry.Registry) (int, model.Signal) {
	terms := reg.Terms()
	if len(terms) == 0 {
		return 10, model.Signal{
			Type:        model.SignalDefinitionCoverage,
			Severity:    model.SeverityMedium,
			Description: "No defined terms found",
			Data:        map[string]interface{}{"terms": 0, "score": 10},
		}
	}

	referenced := 0
	for _, d := range terms {
		if len(reg.FindReferencingClauses(d.Term)) > 0 {
			referenced++
		}
	}

	ratio := float64(referenced) / float64(len(terms))
	score := int(ratio * 25)

	severity := model.SeverityLow
	if ratio < 0.5 {
		severity = model.SeverityHigh
	} else if ratio < 1.0 {
		severity = model.SeverityMedium
	}

	return score, model.Signal{
		Type:        model.SignalDefinitionCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("Referenced definitions: %d/%d", referenced, len(terms)),
		Data: map[string]interface{}{
			"terms":      len(terms),
			"referenced": referenced,
			"ratio":      ratio,
			"score":      score,
			"formula":    "referenced / terms * 25",
		},
	}
}

// calculateIntegrity scores the absence of conflict findings (0-45
// points). High findings cost 15 each, medium 8, low 3.
func (s *Scorer) calculateIntegrity(findings []model.ConflictFinding) (int, model.Signal) {
	penalty := 0
	high, medium, low := 0, 0, 0
	for _, f := range findings {
		switch f.Severity {
		case model.SeverityHigh:
			penalty += 15
			high++
		case model.SeverityMedium:
			penalty += 8
			medium++
		default:
			penalty += 3
			low++
		}
	}

	score := 45 - penalty
	if score < 0 {
		score = 0
	}

	severity := model.SeverityLow
	if high > 0 {
		severity = model.SeverityHigh
	} else if medium > 0 {
		severity = model.SeverityMedium
	}

	return score, model.Signal{
		Type:        model.SignalProtectionIntegrity,
		Severity:    severity,
		Description: fmt.Sprintf("Conflict findings: %d high, %d medium, %d low", high, medium, low),
		Data: map[string]interface{}{
			"high":    high,
			"medium":  medium,
			"low":     low,
			"penalty": penalty,
			"score":   score,
			"formula": "45 - (high*15 + medium*8 + low*3)",
		},
	}
}

// calculateStructure scores parse soundness (0-15 points, 5 off per
// structure problem)
func (s *Scorer) calculateStructure(problems []string) (int, model.Signal) {
	score := 15 - len(problems)*5
	if score < 0 {
		score = 0
	}

	severity := model.SeverityLow
	if len(problems) > 2 {
		severity = model.SeverityHigh
	} else if len(problems) > 0 {
		severity = model.SeverityMedium
	}

	return score, model.Signal{
		Type:        model.SignalStructure,
		Severity:    severity,
		Description: fmt.Sprintf("Structure problems: %d", len(problems)),
		Data: map[string]interface{}{
			"problems": len(problems),
			"score":    score,
			"formula":  "15 - problems * 5",
		},
	}
}

// calculateScenarios scores the scenario pass rate (0-15 points)
func (s *Scorer) calculateScenarios(scenarios []model.ScenarioResult) (int, model.Signal) {
	if len(scenarios) == 0 {
		return 8, model.Signal{
			Type:        model.SignalScenarioOutcomes,
			Severity:    model.SeverityLow,
			Description: "No scenarios evaluated (assuming moderate)",
			Data:        map[string]interface{}{"scenarios": 0, "score": 8},
		}
	}

	passed := 0
	for _, r := range scenarios {
		if r.Status == model.ScenarioPass {
			passed++
		}
	}

	ratio := float64(passed) / float64(len(scenarios))
	score := int(ratio * 15)

	severity := model.SeverityLow
	if ratio < 0.5 {
		severity = model.SeverityHigh
	} else if ratio < 1.0 {
		severity = model.SeverityMedium
	}

	return score, model.Signal{
		Type:        model.SignalScenarioOutcomes,
		Severity:    severity,
		Description: fmt.Sprintf("Scenarios passed: %d/%d", passed, len(scenarios)),
		Data: map[string]interface{}{
			"passed":  passed,
			"total":   len(scenarios),
			"ratio":   ratio,
			"score":   score,
			"formula": "passed / total * 15",
		},
	}
}

// determineConfidence reflects how much structure backed the index
func (s *Scorer) determineConfidence(score, clauseCount int, findings []model.ConflictFinding) string {
	if clauseCount < 5 {
		return "low"
	}
	for _, f := range findings {
		if f.Severity == model.SeverityHigh {
			return "low-medium"
		}
	}
	if score >= 80 {
		return "high"
	}
	if score >= 60 {
		return "medium"
	}
	return "low"
}
