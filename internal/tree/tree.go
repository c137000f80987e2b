// Package tree builds and queries the canonical clause tree of a contract.
// A tree is constructed once per analysis run from a sequence of labelled
// blocks and is read-only afterwards; all lookups are safe for unlimited
// concurrent readers.
package tree

import (
	"fmt"
	"strings"

	"github.com/axiomlogic/axiom/internal/model"
	"github.com/google/uuid"
)

// Block is one unit of raw structured input: a labelled run of text with
// nesting hints. Level is the depth below the document root (0 = top).
// Parent optionally names the number of the block this one nests under,
// overriding Level-based attachment.
type Block struct {
	Kind       model.ClauseKind
	Number     string
	Text       string
	Level      int
	Parent     string
	ClauseType model.ClauseType
}

// MalformedStructureError reports nesting hints that imply an orphan,
// cycle or duplicate numbering. The partial tree remains usable: affected
// blocks are re-attached best-effort and the defects listed in Problems.
type MalformedStructureError struct {
	Problems []string
	Partial  *Tree
}

func (e *MalformedStructureError) Error() string {
	return fmt.Sprintf("malformed structure: %s", strings.Join(e.Problems, "; "))
}

// Tree wraps the root clause node with the indexes needed for resolution:
// lookup by id and number, pre-order traversal, and ancestry queries.
type Tree struct {
	root     *model.ClauseNode
	byID     map[string]*model.ClauseNode
	byNumber map[string]*model.ClauseNode
	parent   map[string]string // child id -> parent id
	order    []*model.ClauseNode
	crossRef map[string][]string // section number -> ids of nodes citing it
}

// Build assembles a single-rooted tree from blocks. When nesting hints are
// defective it returns both a usable partial tree and a
// *MalformedStructureError; it returns a nil tree only when no usable
// structure remains.
func Build(blocks []Block) (*Tree, error) {
	root := &model.ClauseNode{ID: uuid.NewString(), Kind: model.KindDocument}

	t := &Tree{
		root:     root,
		byID:     map[string]*model.ClauseNode{root.ID: root},
		byNumber: make(map[string]*model.ClauseNode),
		parent:   make(map[string]string),
	}

	var problems []string

	// stack[i] is the current open node at level i
	stack := []*model.ClauseNode{root}

	for i, b := range blocks {
		node := &model.ClauseNode{
			ID:         uuid.NewString(),
			Kind:       b.Kind,
			Number:     b.Number,
			Text:       b.Text,
			ClauseType: b.ClauseType,
		}

		level := b.Level
		if level < 0 {
			problems = append(problems, fmt.Sprintf("block %d (%q): negative level %d", i, b.Number, b.Level))
			level = 0
		}

		var par *model.ClauseNode
		switch {
		case b.Parent != "" && b.Parent == b.Number:
			problems = append(problems, fmt.Sprintf("block %d (%q): cycle, block nests under itself", i, b.Number))
			par = root
		case b.Parent != "":
			p, ok := t.byNumber[strings.TrimSpace(b.Parent)]
			if !ok {
				problems = append(problems, fmt.Sprintf("block %d (%q): orphan, parent %q not seen yet", i, b.Number, b.Parent))
				par = root
			} else {
				par = p
			}
		case level >= len(stack):
			if level > len(stack) {
				problems = append(problems, fmt.Sprintf("block %d (%q): level %d skips depth %d", i, b.Number, b.Level, len(stack)))
			}
			par = stack[len(stack)-1]
		default:
			par = stack[level]
		}

		if node.Number != "" {
			for _, sib := range par.Children {
				if sib.Number == node.Number {
					problems = append(problems, fmt.Sprintf("block %d: duplicate number %q under %q", i, node.Number, displayName(par)))
				}
			}
		}

		par.Children = append(par.Children, node)
		t.parent[node.ID] = par.ID
		t.byID[node.ID] = node
		if node.Number != "" {
			if _, exists := t.byNumber[node.Number]; !exists {
				t.byNumber[node.Number] = node
			}
		}

		// Re-anchor the stack so the next block's level hint resolves
		// relative to this node's actual depth.
		depth := t.depth(node)
		if depth < len(stack) {
			stack = stack[:depth]
		}
		stack = append(stack, node)
	}

	t.order = t.preorder()
	t.crossRef = buildCrossRefs(t)

	if len(problems) > 0 {
		if len(root.Children) == 0 {
			return nil, &MalformedStructureError{Problems: problems}
		}
		return t, &MalformedStructureError{Problems: problems, Partial: t}
	}
	if len(root.Children) == 0 {
		return nil, &MalformedStructureError{Problems: []string{"no usable blocks"}}
	}
	return t, nil
}

// Root returns the document node
func (t *Tree) Root() *model.ClauseNode {
	return t.root
}

// ByID looks a node up by its stable identifier
func (t *Tree) ByID(id string) (*model.ClauseNode, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// ByNumber looks a node up by its human-visible reference label. When a
// duplicate number exists the first in document order wins.
func (t *Tree) ByNumber(number string) (*model.ClauseNode, bool) {
	n, ok := t.byNumber[number]
	return n, ok
}

// Nodes returns all nodes (excluding the root) in pre-order, which is
// document-reading order.
func (t *Tree) Nodes() []*model.ClauseNode {
	return t.order
}

// Position returns the document-order index of a node, or -1 for unknown
// ids. Used to keep finding output deterministic.
func (t *Tree) Position(id string) int {
	for i, n := range t.order {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// Ancestors returns the chain from a node's parent up to the root
func (t *Tree) Ancestors(id string) []*model.ClauseNode {
	var out []*model.ClauseNode
	for {
		pid, ok := t.parent[id]
		if !ok {
			return out
		}
		p := t.byID[pid]
		out = append(out, p)
		id = pid
	}
}

// IsDescendant reports whether node id is nested inside (governed by)
// ancestorID.
func (t *Tree) IsDescendant(id, ancestorID string) bool {
	for {
		pid, ok := t.parent[id]
		if !ok {
			return false
		}
		if pid == ancestorID {
			return true
		}
		id = pid
	}
}

// SectionOf returns the nearest numbered label governing a node: its own
// number, or the closest numbered ancestor's.
func (t *Tree) SectionOf(n *model.ClauseNode) string {
	if n.Number != "" {
		return n.Number
	}
	for _, a := range t.Ancestors(n.ID) {
		if a.Number != "" {
			return a.Number
		}
	}
	return ""
}

func (t *Tree) depth(n *model.ClauseNode) int {
	return len(t.Ancestors(n.ID))
}

func (t *Tree) preorder() []*model.ClauseNode {
	var out []*model.ClauseNode
	var walk func(n *model.ClauseNode)
	walk = func(n *model.ClauseNode) {
		if n != t.root {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t.root)
	return out
}

func displayName(n *model.ClauseNode) string {
	if n.Number != "" {
		return n.Number
	}
	return string(n.Kind)
}
