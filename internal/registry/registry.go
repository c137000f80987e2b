// Package registry extracts defined terms from a clause tree and answers
// term-resolution queries for the conflict detector, the assertion
// verifier and the scenario engine. A registry is built once per document
// and is read-only afterwards.
package registry

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/axiomlogic/axiom/internal/model"
	"github.com/axiomlogic/axiom/internal/tree"
)

// Quoted-term patterns: `"Good Reason" shall mean ...`, `"Cause" means ...`
var definitionPattern = regexp.MustCompile(`"([^"]{2,60})"\s+(?:shall mean|shall have the meaning|means|is defined as)[:,]?\s*(.+)`)

// Registry maps defined terms to their governing definitions. Resolution
// is case-insensitive; original casing is preserved for display.
type Registry struct {
	defs    map[string]model.Definition // lowercased term -> definition
	order   []string                    // lowercased terms in document order
	sources map[string]string           // lowercased term -> defining node id
	tree    *tree.Tree
	defects []model.ConflictFinding
}

// Build scans the tree for definitional clauses and assembles the
// registry. Duplicate and circular definitions are recorded as defects
// for the conflict detector, never returned as errors.
func Build(t *tree.Tree) *Registry {
	r := &Registry{
		defs:    make(map[string]model.Definition),
		sources: make(map[string]string),
		tree:    t,
	}

	for _, n := range t.Nodes() {
		matches := definitionPattern.FindAllStringSubmatch(n.Text, -1)
		if len(matches) == 0 && n.ClauseType == model.ClauseDefinition {
			if term, meaning, ok := unquotedDefinition(n.Text); ok {
				matches = [][]string{{"", term, meaning}}
			}
		}
		for _, m := range matches {
			term := strings.TrimSpace(m[1])
			meaning := trimSentence(m[2])
			key := strings.ToLower(term)

			if prior, dup := r.defs[key]; dup {
				r.defects = append(r.defects, model.ConflictFinding{
					ConflictType:     model.ConflictDuplicateDefinition,
					AffectedSections: sectionSet(prior.SourceSection, t.SectionOf(n)),
					Severity:         model.SeverityMedium,
					Details: fmt.Sprintf("%q is defined in section %s and again in section %s; one governing definition per term is required",
						term, prior.SourceSection, t.SectionOf(n)),
				})
				continue // first definition governs
			}

			r.defs[key] = model.Definition{
				Term:          term,
				Meaning:       meaning,
				SourceSection: t.SectionOf(n),
				Category:      categorize(term, meaning),
			}
			r.order = append(r.order, key)
			r.sources[key] = n.ID
		}
	}

	r.detectCircular()
	return r
}

// Resolve returns the governing definition for a term, matching
// case-insensitively.
func (r *Registry) Resolve(term string) (model.Definition, bool) {
	d, ok := r.defs[strings.ToLower(strings.TrimSpace(term))]
	return d, ok
}

// Terms returns all definitions in document order
func (r *Registry) Terms() []model.Definition {
	out := make([]model.Definition, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.defs[key])
	}
	return out
}

// Defects returns duplicate and circular definition findings
func (r *Registry) Defects() []model.ConflictFinding {
	return r.defects
}

// FindReferencingClauses returns the clauses whose text contains the term
// as a case-insensitive whole-word match, in document order. The defining
// clause itself is excluded.
func (r *Registry) FindReferencingClauses(term string) []*model.ClauseNode {
	key := strings.ToLower(strings.TrimSpace(term))
	pattern, err := wholeWord(term)
	if err != nil {
		return nil
	}

	var out []*model.ClauseNode
	for _, n := range r.tree.Nodes() {
		if n.ID == r.sources[key] {
			continue
		}
		if pattern.MatchString(n.Text) {
			out = append(out, n)
		}
	}
	return out
}

// DefiningNode returns the clause node that introduces a term
func (r *Registry) DefiningNode(term string) (*model.ClauseNode, bool) {
	id, ok := r.sources[strings.ToLower(strings.TrimSpace(term))]
	if !ok {
		return nil, false
	}
	return r.tree.ByID(id)
}

// detectCircular walks term -> term dependencies (term A's meaning uses
// term B) and records each dependency cycle once.
func (r *Registry) detectCircular() {
	deps := make(map[string][]string)
	for _, key := range r.order {
		meaning := r.defs[key].Meaning
		for _, other := range r.order {
			if other == key {
				continue
			}
			p, err := wholeWord(r.defs[other].Term)
			if err != nil {
				continue
			}
			if p.MatchString(meaning) {
				deps[key] = append(deps[key], other)
			}
		}
	}

	reported := make(map[string]bool)
	for _, start := range r.order {
		cycle := findCycle(deps, start)
		if cycle == nil {
			continue
		}
		sig := cycleSignature(cycle)
		if reported[sig] {
			continue
		}
		reported[sig] = true

		var names, sections []string
		for _, key := range cycle {
			d := r.defs[key]
			names = append(names, fmt.Sprintf("%q", d.Term))
			sections = append(sections, d.SourceSection)
		}
		r.defects = append(r.defects, model.ConflictFinding{
			ConflictType:     model.ConflictCircularDefinition,
			AffectedSections: dedupe(sections),
			Severity:         model.SeverityMedium,
			Details:          fmt.Sprintf("definitions %s depend on each other in a cycle; no term resolves to ground text", strings.Join(names, " → ")),
		})
	}
}

// findCycle returns the cycle reachable from start that passes through
// start, or nil.
func findCycle(deps map[string][]string, start string) []string {
	var path []string
	onPath := make(map[string]bool)
	visited := make(map[string]bool)

	var walk func(key string) []string
	walk = func(key string) []string {
		if onPath[key] {
			// Trim the path down to the cycle itself
			for i, p := range path {
				if p == key {
					return append([]string(nil), path[i:]...)
				}
			}
			return nil
		}
		if visited[key] {
			return nil
		}
		visited[key] = true
		onPath[key] = true
		path = append(path, key)
		for _, next := range deps[key] {
			if c := walk(next); c != nil {
				return c
			}
		}
		path = path[:len(path)-1]
		onPath[key] = false
		return nil
	}

	return walk(start)
}

func cycleSignature(cycle []string) string {
	sorted := append([]string(nil), cycle...)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}

// categorize picks a grouping tag from term and meaning vocabulary
func categorize(term, meaning string) model.TermCategory {
	text := strings.ToLower(term + " " + meaning)
	switch {
	case containsAny(text, "shares", "vest", "equity", "option", "stock", "leaver"):
		return model.CategoryEquity
	case containsAny(text, "reason", "cause", "breach", "event", "trigger", "default", "misconduct"):
		return model.CategoryConditions
	case containsAny(text, "salary", "price", "payment", "fee", "valuation", "amount", "compensation"):
		return model.CategoryFinancial
	case containsAny(text, "date", "period", "deadline", "months", "days", "term of"):
		return model.CategoryTime
	case containsAny(text, "company", "founder", "board", "party", "employee", "corporation", "holder"):
		return model.CategoryParties
	default:
		return model.CategoryGeneral
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// wholeWord compiles a case-insensitive whole-word matcher for a term
func wholeWord(term string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)\b` + regexp.QuoteMeta(strings.TrimSpace(term)) + `\b`)
}

// unquotedDefinition handles definitional clauses without quoted terms,
// e.g. "Good Reason shall mean a material reduction in base salary".
var unquotedPattern = regexp.MustCompile(`^(?:\d[\d.]*[.)]?\s+)?([A-Z][\w -]{1,40}?)\s+(?:shall mean|means|is defined as)[:,]?\s*(.+)$`)

func unquotedDefinition(text string) (term, meaning string, ok bool) {
	m := unquotedPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), trimSentence(m[2]), true
}

func trimSentence(s string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "."))
}

func sectionSet(sections ...string) []string {
	return dedupe(sections)
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
