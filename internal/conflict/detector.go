// Package conflict walks the clause tree and definition registry to find
// clauses that invoke a defined condition while failing to respect a
// qualifying carve-out defined elsewhere. Findings are candidates for
// human review; detection never rewrites anything.
package conflict

import (
	"fmt"
	"sort"
	"strings"

	"github.com/axiomlogic/axiom/internal/logic"
	"github.com/axiomlogic/axiom/internal/model"
	"github.com/axiomlogic/axiom/internal/registry"
	"github.com/axiomlogic/axiom/internal/tree"
)

// Detect produces all conflict findings for a document, ordered by
// severity and then document order. Calling it twice on the same
// (tree, registry) yields identical findings.
func Detect(t *tree.Tree, reg *registry.Registry) []model.ConflictFinding {
	var findings []model.ConflictFinding

	// Data-quality defects found while building the registry
	findings = append(findings, reg.Defects()...)

	findings = append(findings, safeHarborScan(t, reg)...)
	findings = append(findings, contradictionScan(t, reg)...)

	sort.SliceStable(findings, func(i, j int) bool {
		if r1, r2 := findings[i].Severity.Rank(), findings[j].Severity.Rank(); r1 != r2 {
			return r1 < r2
		}
		p1, p2 := sectionPosition(t, findings[i]), sectionPosition(t, findings[j])
		if p1 != p2 {
			return p1 < p2
		}
		return findings[i].ConflictType < findings[j].ConflictType
	})

	return findings
}

// safeHarborScan flags consequence clauses that bypass a scoped
// protection: the protection's term overlaps the clause's trigger
// vocabulary, yet neither the clause nor its ancestors cite the section
// that defines it.
func safeHarborScan(t *tree.Tree, reg *registry.Registry) []model.ConflictFinding {
	var findings []model.ConflictFinding
	seen := make(map[string]bool) // clause id + term

	for _, n := range logic.ConsequenceClauses(t) {
		category := logic.ClassifyOutcome(n.Text)
		if !negativeConsequence(category) {
			continue
		}

		for _, p := range logic.ProtectionsFor(t, reg, n.Text, n, category) {
			if p.Referenced {
				continue
			}
			key := n.ID + "|" + p.Term
			if seen[key] {
				continue
			}
			seen[key] = true

			section := t.SectionOf(n)
			findings = append(findings, model.ConflictFinding{
				ConflictType:     model.ConflictSafeHarborOverride,
				AffectedSections: []string{section},
				Severity:         bypassSeverity(p, category),
				Details: fmt.Sprintf(
					"section %s imposes %s without honoring the %q protection defined in section %s; the outcome plausibly changes if the carve-out applies",
					section, logic.DescribeCategory(category), p.Term, p.SourceSection),
			})
		}
	}
	return findings
}

// contradictionScan flags pairs of consequence clauses whose triggers
// substantially overlap but whose outcomes land in opposing categories.
// Only the condition side of each clause is compared; two clauses that
// both punish, or that split on a defined carve-out ("for Cause" vs
// "without Cause"), are complementary branches rather than conflicts.
func contradictionScan(t *tree.Tree, reg *registry.Registry) []model.ConflictFinding {
	clauses := logic.ConsequenceClauses(t)

	var findings []model.ConflictFinding
	for i := 0; i < len(clauses); i++ {
		for j := i + 1; j < len(clauses); j++ {
			a, b := clauses[i], clauses[j]
			if logic.SharedVocabulary(logic.TriggerPart(a.Text), logic.TriggerPart(b.Text)) < 3 {
				continue
			}
			ca, cb := logic.ClassifyOutcome(a.Text), logic.ClassifyOutcome(b.Text)
			if logic.Matches(ca, cb) || logic.Related(ca, cb) {
				continue
			}
			if negativeConsequence(ca) && negativeConsequence(cb) {
				continue
			}
			if complementaryBranches(a.Text, b.Text, reg) {
				continue
			}
			findings = append(findings, model.ConflictFinding{
				ConflictType:     model.ConflictContradictoryOutcome,
				AffectedSections: []string{t.SectionOf(a), t.SectionOf(b)},
				Severity:         model.SeverityMedium,
				Details: fmt.Sprintf(
					"sections %s and %s classify overlapping triggers into opposing outcomes (%s vs %s)",
					t.SectionOf(a), t.SectionOf(b), ca, cb),
			})
		}
	}
	return findings
}

// complementaryBranches reports whether two clauses split on the same
// defined term with opposite qualifiers. "terminated for Cause" and
// "terminated without Cause" describe disjoint triggers, not a conflict.
func complementaryBranches(a, b string, reg *registry.Registry) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	for _, d := range reg.Terms() {
		term := strings.ToLower(d.Term)
		positive := func(s string) bool {
			return strings.Contains(s, "for "+term) || strings.Contains(s, "with "+term)
		}
		negative := func(s string) bool {
			return strings.Contains(s, "without "+term) || strings.Contains(s, "other than "+term)
		}
		if (positive(la) && negative(lb)) || (negative(la) && positive(lb)) {
			return true
		}
	}
	return false
}

func negativeConsequence(c logic.OutcomeCategory) bool {
	switch c {
	case logic.OutcomeForfeitAll, logic.OutcomeForfeitUnvested, logic.OutcomeTermination:
		return true
	default:
		return false
	}
}

// bypassSeverity applies the heuristic from the safe-harbor check: high
// when the protection materially reverses the consequence, medium when it
// narrows it, low for wording ambiguity.
func bypassSeverity(p logic.Protection, category logic.OutcomeCategory) model.Severity {
	switch {
	case p.Material:
		return model.SeverityHigh
	case category == logic.OutcomeTermination:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

func sectionPosition(t *tree.Tree, f model.ConflictFinding) int {
	best := int(^uint(0) >> 1)
	for _, s := range f.AffectedSections {
		n, ok := t.ByNumber(s)
		if !ok {
			continue
		}
		if p := t.Position(n.ID); p >= 0 && p < best {
			best = p
		}
	}
	return best
}
