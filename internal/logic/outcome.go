// Package logic holds the clause-traversal primitives shared by the
// conflict detector, the assertion verifier and the scenario engine.
// Keeping one implementation here guarantees the three surfaces produce
// identical results for the same trigger: DeriveOutcome is a pure
// function of (tree, registry, trigger).
package logic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/axiomlogic/axiom/internal/model"
	"github.com/axiomlogic/axiom/internal/registry"
	"github.com/axiomlogic/axiom/internal/tree"
)

// OutcomeCategory is a normalized bucket for contractual consequences.
// Comparisons happen between categories, never raw strings.
type OutcomeCategory string

const (
	OutcomeForfeitAll      OutcomeCategory = "forfeit_all_shares"
	OutcomeForfeitUnvested OutcomeCategory = "forfeit_unvested_shares"
	OutcomeRetainShares    OutcomeCategory = "retain_shares"
	OutcomeTermination     OutcomeCategory = "termination"
	OutcomeNone            OutcomeCategory = "no_consequence"
	OutcomeUnknown         OutcomeCategory = "unknown"
)

// Protection is a defined term that scopes or exempts the trigger under
// evaluation, e.g. a "Good Reason" carve-out for a resignation trigger.
type Protection struct {
	Term          string
	SourceSection string
	Referenced    bool // governing clause (or an ancestor) cites the source section
	Material      bool // honoring it would plausibly reverse the consequence
}

// Outcome is the derived contractual result for one trigger
type Outcome struct {
	Category    OutcomeCategory
	Description string
	GoverningID string   // clause node that determines the outcome
	Sections    []string // all relevant sections, document order
	Snippet     string   // text relied upon
	Protections []Protection
}

// BypassedProtections returns the applicable protections the governing
// clause fails to cite.
func (o Outcome) BypassedProtections() []Protection {
	var out []Protection
	for _, p := range o.Protections {
		if !p.Referenced {
			out = append(out, p)
		}
	}
	return out
}

// DeriveOutcome computes the actual contractual outcome for a trigger
// description. It selects the consequence clause whose vocabulary best
// matches the trigger, classifies its consequence, and collects the
// defined protections that scope the trigger.
func DeriveOutcome(t *tree.Tree, reg *registry.Registry, trigger string) Outcome {
	vocab := TriggerVocabulary(trigger)

	type scored struct {
		node  *model.ClauseNode
		score int
		pos   int
	}
	var candidates []scored
	for pos, n := range ConsequenceClauses(t) {
		score := overlap(vocab, n.Text) + qualifierAdjust(trigger, n.Text, reg)
		if score > 0 {
			candidates = append(candidates, scored{node: n, score: score, pos: pos})
		}
	}
	if len(candidates) == 0 {
		return Outcome{
			Category:    OutcomeNone,
			Description: "no clause in the document governs this trigger",
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].pos < candidates[j].pos
	})

	governing := candidates[0].node
	category := ClassifyOutcome(governing.Text)

	var sections []string
	for _, c := range candidates {
		if s := t.SectionOf(c.node); s != "" {
			sections = append(sections, s)
		}
	}

	return Outcome{
		Category:    category,
		Description: fmt.Sprintf("section %s: %s", t.SectionOf(governing), describe(category)),
		GoverningID: governing.ID,
		Sections:    dedupe(sections),
		Snippet:     snippet(governing.Text),
		Protections: ProtectionsFor(t, reg, trigger, governing, category),
	}
}

// ProtectionsFor finds the defined terms that scope the trigger and
// records whether the governing clause honors each one. "Honors" means
// the clause or an ancestor cites the definition's source section, or the
// clause is itself nested inside the defining clause's scope — merely
// using the term's words does not count.
func ProtectionsFor(t *tree.Tree, reg *registry.Registry, trigger string, governing *model.ClauseNode, category OutcomeCategory) []Protection {
	switch category {
	case OutcomeRetainShares, OutcomeNone, OutcomeUnknown:
		return nil // nothing adverse to exempt the trigger from
	}

	vocab := TriggerVocabulary(trigger)
	combined := trigger + " " + governing.Text

	var out []Protection
	for _, d := range reg.Terms() {
		if d.Category != model.CategoryConditions {
			continue // only condition carve-outs exempt triggers; asset and party terms never do
		}
		termMatch := strings.Contains(strings.ToLower(combined), strings.ToLower(d.Term))
		meaningMatch := overlap(vocab, d.Meaning) >= 2
		if !termMatch && !meaningMatch {
			continue
		}
		if d.SourceSection == t.SectionOf(governing) {
			continue // the governing clause owns this definition
		}

		referenced := t.Cites(governing, d.SourceSection)
		if !referenced {
			if defNode, ok := reg.DefiningNode(d.Term); ok && t.IsDescendant(governing.ID, defNode.ID) {
				referenced = true
			}
		}

		out = append(out, Protection{
			Term:          d.Term,
			SourceSection: d.SourceSection,
			Referenced:    referenced,
			Material:      category == OutcomeForfeitAll || category == OutcomeForfeitUnvested,
		})
	}
	return out
}

// ConsequenceClauses returns the clauses that impose a consequence
// contingent on a trigger, in document order. Tagged condition and
// obligation clauses are prioritized; untagged clauses qualify when their
// text carries consequence vocabulary.
func ConsequenceClauses(t *tree.Tree) []*model.ClauseNode {
	var out []*model.ClauseNode
	for _, n := range t.Nodes() {
		if !hasConsequence(n.Text) {
			continue
		}
		if n.ClauseType == model.ClauseCondition || n.ClauseType == model.ClauseObligation || n.ClauseType == "" {
			out = append(out, n)
		}
	}
	return out
}

// qualifierAdjust scores the polarity of defined-term qualifiers. A
// trigger saying "without Cause" fits a clause scoped "without Cause"
// and contradicts one scoped "for Cause"; plain word overlap cannot see
// the difference.
func qualifierAdjust(trigger, clause string, reg *registry.Registry) int {
	lt, lc := strings.ToLower(trigger), strings.ToLower(clause)

	adjust := 0
	for _, d := range reg.Terms() {
		term := strings.ToLower(d.Term)
		pos := func(s string) bool {
			return strings.Contains(s, "for "+term) || strings.Contains(s, "with "+term)
		}
		neg := func(s string) bool {
			return strings.Contains(s, "without "+term) || strings.Contains(s, "other than "+term)
		}

		tp, tn := pos(lt), neg(lt)
		cp, cn := pos(lc), neg(lc)
		switch {
		case (tp && cp) || (tn && cn):
			adjust += 2
		case (tp && cn) || (tn && cp):
			adjust -= 2
		}
	}
	return adjust
}

// TriggerPart isolates the condition of an "if X, then Y" clause so
// trigger comparisons don't pick up overlap from the consequence side.
// Clauses without a leading condition marker compare on their full text.
func TriggerPart(text string) string {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	start := -1
	for _, marker := range []string{"if ", "in the event ", "upon ", "where "} {
		if idx := strings.Index(lower, marker); idx >= 0 && (start == -1 || idx < start) {
			start = idx
		}
	}
	if start < 0 {
		return trimmed
	}
	rest := trimmed[start:]
	if comma := strings.Index(rest, ","); comma > 0 {
		return rest[:comma]
	}
	return rest
}

var consequenceCues = []string{
	"forfeit", "surrender", "repurchase", "terminate", "termination",
	"penalty", "cease", "deemed a", "classified as", "shall lose",
	"bad leaver", "dismissed", "revoke", "shall retain", "retains",
}

func hasConsequence(text string) bool {
	lower := strings.ToLower(text)
	for _, cue := range consequenceCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}

// ClassifyOutcome maps clause or assertion text to a normalized outcome
// category. Order matters: "forfeit all Shares, whether vested or
// unvested" must land in forfeit_all despite mentioning "unvested".
func ClassifyOutcome(text string) OutcomeCategory {
	lower := strings.ToLower(text)
	forfeits := containsAny(lower, "forfeit", "surrender", "lose ", "loses ", "repurchase")

	switch {
	case forfeits && containsAny(lower, "all shares", "all of the shares", "all his shares", "all her shares", "all their shares", "vested and unvested", "vested or unvested", "forfeit all"):
		return OutcomeForfeitAll
	case forfeits && strings.Contains(lower, "unvested"):
		return OutcomeForfeitUnvested
	case containsAny(lower, "retain", "retains", "retained", "keep", "keeps", "no forfeiture", "remain vested"):
		return OutcomeRetainShares
	case forfeits:
		return OutcomeForfeitAll
	case containsAny(lower, "terminate", "termination", "dismissed", "cease"):
		return OutcomeTermination
	case lower == "":
		return OutcomeNone
	default:
		return OutcomeUnknown
	}
}

// Matches reports whether two categories describe the same outcome.
// "No consequence" counts as retaining: if nothing happens, nothing is
// forfeited.
func Matches(a, b OutcomeCategory) bool {
	if a == b {
		return true
	}
	return (a == OutcomeNone && b == OutcomeRetainShares) || (a == OutcomeRetainShares && b == OutcomeNone)
}

// Related reports whether two categories partially overlap: same family,
// different scope. Comparison of related categories yields a warning, not
// a hard contradiction.
func Related(a, b OutcomeCategory) bool {
	pair := func(x, y OutcomeCategory) bool {
		return (a == x && b == y) || (a == y && b == x)
	}
	switch {
	case pair(OutcomeForfeitAll, OutcomeForfeitUnvested):
		return true
	case pair(OutcomeForfeitUnvested, OutcomeRetainShares):
		return true // vested shares survive in both
	case a == OutcomeUnknown || b == OutcomeUnknown:
		return true // cannot prove a contradiction against an unknown
	default:
		return false
	}
}

func describe(c OutcomeCategory) string {
	switch c {
	case OutcomeForfeitAll:
		return "forfeits all shares (vested and unvested)"
	case OutcomeForfeitUnvested:
		return "forfeits unvested shares only"
	case OutcomeRetainShares:
		return "retains shares"
	case OutcomeTermination:
		return "engagement terminates"
	case OutcomeNone:
		return "no contractual consequence"
	default:
		return "outcome not determinable from clause text"
	}
}

// DescribeCategory exposes the human-readable form used in traces and
// scenario output.
func DescribeCategory(c OutcomeCategory) string {
	return describe(c)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func snippet(text string) string {
	const max = 160
	if len(text) <= max {
		return text
	}
	return text[:max] + "…"
}

func dedupe(in []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
