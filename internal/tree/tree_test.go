package tree

import (
	"errors"
	"strings"
	"testing"

	"github.com/axiomlogic/axiom/internal/model"
)

const sampleContract = `FOUNDERS AGREEMENT

ARTICLE 1. Definitions

1.1 "Cause" shall mean willful misconduct, fraud, or material breach of this Agreement by the Founder.
1.2 "Bad Leaver" shall mean a Founder terminated for Cause or who resigns voluntarily.
1.3 "Good Reason" shall mean a material reduction in the Founder's base salary or duties without the Founder's written consent.
1.4 "Shares" shall mean the ordinary shares of the Company held by the Founder.

ARTICLE 2. Vesting

2.1 The Shares shall vest in equal monthly installments over forty-eight months.

ARTICLE 3. Leaver Provisions

3.1 If the Founder is terminated for Cause (as defined in Section 1.1), the Founder shall be deemed a Bad Leaver.
3.2 If the Founder resigns without Good Reason, the Founder shall be deemed a Bad Leaver and shall forfeit all Shares, whether vested or unvested.
3.3 A Founder terminated without Cause shall retain all vested Shares.
`

func TestParseBuildsHierarchy(t *testing.T) {
	tr, err := Parse(sampleContract)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	article, ok := tr.ByNumber("1")
	if !ok {
		t.Fatal("article 1 not found")
	}
	if article.Kind != model.KindArticle {
		t.Errorf("expected article kind, got %s", article.Kind)
	}

	section, ok := tr.ByNumber("3.2")
	if !ok {
		t.Fatal("section 3.2 not found")
	}
	if section.Kind != model.KindSection {
		t.Errorf("expected section kind, got %s", section.Kind)
	}

	// Sections nest under their article
	article3, _ := tr.ByNumber("3")
	if !tr.IsDescendant(section.ID, article3.ID) {
		t.Error("3.2 should be a descendant of article 3")
	}
}

func TestParsePreservesDocumentOrder(t *testing.T) {
	tr, err := Parse(sampleContract)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	n11, _ := tr.ByNumber("1.1")
	n32, _ := tr.ByNumber("3.2")

	if tr.Position(n11.ID) >= tr.Position(n32.ID) {
		t.Error("1.1 should come before 3.2 in document order")
	}
}

func TestSectionOfInheritsFromAncestor(t *testing.T) {
	blocks := []Block{
		{Kind: model.KindSection, Number: "2.1", Text: "2.1 Vesting schedule.", Level: 0},
		{Kind: model.KindParagraph, Text: "The schedule is monthly.", Level: 1},
	}
	tr, err := Build(blocks)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	nodes := tr.Nodes()
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if got := tr.SectionOf(nodes[1]); got != "2.1" {
		t.Errorf("paragraph should inherit section 2.1, got %q", got)
	}
}

func TestBuildDetectsDuplicateNumbers(t *testing.T) {
	blocks := []Block{
		{Kind: model.KindSection, Number: "1.1", Text: "1.1 First.", Level: 0},
		{Kind: model.KindSection, Number: "1.1", Text: "1.1 Second.", Level: 0},
	}

	tr, err := Build(blocks)
	if err == nil {
		t.Fatal("expected malformed structure error for duplicate numbers")
	}

	var malformed *MalformedStructureError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedStructureError, got %T", err)
	}
	if malformed.Partial == nil || tr == nil {
		t.Fatal("duplicate numbers should still yield a usable partial tree")
	}
	if len(malformed.Problems) != 1 {
		t.Errorf("expected 1 problem, got %d: %v", len(malformed.Problems), malformed.Problems)
	}

	// First definition wins number lookup
	n, ok := tr.ByNumber("1.1")
	if !ok || !strings.Contains(n.Text, "First") {
		t.Error("first occurrence should win ByNumber lookup")
	}
}

func TestBuildDetectsOrphan(t *testing.T) {
	blocks := []Block{
		{Kind: model.KindSection, Number: "2.1", Text: "2.1 Orphan.", Level: 0, Parent: "9.9"},
	}

	tr, err := Build(blocks)
	if err == nil {
		t.Fatal("expected error for orphan block")
	}
	var malformed *MalformedStructureError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedStructureError, got %T", err)
	}
	// Orphan is re-attached to the root
	if tr == nil || len(tr.Root().Children) != 1 {
		t.Fatal("orphan should be re-attached under the root")
	}
}

func TestBuildDetectsSelfCycle(t *testing.T) {
	blocks := []Block{
		{Kind: model.KindSection, Number: "1.1", Text: "1.1 Self.", Level: 0, Parent: "1.1"},
	}

	_, err := Build(blocks)
	var malformed *MalformedStructureError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedStructureError, got %T", err)
	}
	if !strings.Contains(malformed.Problems[0], "cycle") {
		t.Errorf("expected cycle problem, got %q", malformed.Problems[0])
	}
}

func TestBuildEmptyInput(t *testing.T) {
	tr, err := Build(nil)
	if err == nil {
		t.Fatal("expected error for empty input")
	}
	if tr != nil {
		t.Error("no usable blocks should yield a nil tree")
	}
}

func TestCitesResolvesThroughAncestors(t *testing.T) {
	tr, err := Parse(sampleContract)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	n31, _ := tr.ByNumber("3.1")
	if !tr.Cites(n31, "1.1") {
		t.Error("3.1 cites Section 1.1 directly")
	}

	n32, _ := tr.ByNumber("3.2")
	if tr.Cites(n32, "1.3") {
		t.Error("3.2 uses the term Good Reason but never cites section 1.3")
	}
}

func TestCitingNodes(t *testing.T) {
	tr, err := Parse(sampleContract)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	citing := tr.CitingNodes("1.1")
	if len(citing) != 1 {
		t.Fatalf("expected 1 node citing 1.1, got %d", len(citing))
	}
	if tr.SectionOf(citing[0]) != "3.1" {
		t.Errorf("expected 3.1 to cite 1.1, got %s", tr.SectionOf(citing[0]))
	}
}

func TestClassifyClause(t *testing.T) {
	tests := []struct {
		text string
		want model.ClauseType
	}{
		{`1.1 "Cause" shall mean willful misconduct.`, model.ClauseDefinition},
		{"If the Founder resigns, shares are forfeited.", model.ClauseCondition},
		{"The Founder shall devote full business time.", model.ClauseObligation},
		{"The Company may repurchase unvested shares.", model.ClauseRight},
		{"The Founder represents that no prior agreement conflicts.", model.ClauseRepresentation},
		{"Ordinary text.", ""},
	}

	for _, tt := range tests {
		if got := classifyClause(tt.text); got != tt.want {
			t.Errorf("classifyClause(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
