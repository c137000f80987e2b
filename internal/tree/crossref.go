package tree

import (
	"regexp"

	"github.com/axiomlogic/axiom/internal/model"
)

// Clause cross-citations form a graph overlaid on the display tree: a
// clause can cite any section regardless of nesting. The graph lives in a
// separate adjacency map so reference edges never turn the tree cyclic.
var citationPattern = regexp.MustCompile(`(?i)\b(?:section|clause|§)\s*(\d+(?:\.\d+)*)`)

func buildCrossRefs(t *Tree) map[string][]string {
	refs := make(map[string][]string)
	for _, n := range t.preorder() {
		for _, m := range citationPattern.FindAllStringSubmatch(n.Text, -1) {
			target := m[1]
			if target == n.Number {
				continue // a clause's own heading is not a citation
			}
			refs[target] = append(refs[target], n.ID)
		}
	}
	return refs
}

// CitingNodes returns the nodes whose text cites the given section
// number, in document order.
func (t *Tree) CitingNodes(section string) []*model.ClauseNode {
	ids := t.crossRef[section]
	if len(ids) == 0 {
		return nil
	}
	cited := make(map[string]bool, len(ids))
	for _, id := range ids {
		cited[id] = true
	}
	var out []*model.ClauseNode
	for _, n := range t.order {
		if cited[n.ID] {
			out = append(out, n)
		}
	}
	return out
}

// Cites reports whether the node or any of its ancestors cites the given
// section number. This is the "does the consequence clause honor the
// protection's source section" check.
func (t *Tree) Cites(n *model.ClauseNode, section string) bool {
	if citesDirect(n, section) {
		return true
	}
	for _, a := range t.Ancestors(n.ID) {
		if citesDirect(a, section) {
			return true
		}
	}
	return false
}

func citesDirect(n *model.ClauseNode, section string) bool {
	for _, m := range citationPattern.FindAllStringSubmatch(n.Text, -1) {
		if m[1] == section && section != n.Number {
			return true
		}
	}
	return false
}
