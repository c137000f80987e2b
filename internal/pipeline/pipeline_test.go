package pipeline

import (
	"context"
	"testing"

	"github.com/axiomlogic/axiom/internal/cache"
	"github.com/axiomlogic/axiom/internal/model"
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

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument(sampleContract)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	if doc.Subject != "FOUNDERS AGREEMENT" {
		t.Errorf("subject = %q", doc.Subject)
	}
	if got := len(doc.Registry.Terms()); got != 4 {
		t.Errorf("registered %d terms, want 4", got)
	}
	if len(doc.StructureProblems) != 0 {
		t.Errorf("unexpected structure problems: %v", doc.StructureProblems)
	}
}

func TestParseDocumentDegradesOnDuplicateNumbers(t *testing.T) {
	text := `SIDE LETTER

1.1 First clause imposes a forfeit obligation.
1.1 Second clause reuses the number.
`
	doc, err := ParseDocument(text)
	if err != nil {
		t.Fatalf("duplicate numbers should degrade, not fail: %v", err)
	}
	if doc.Tree == nil {
		t.Fatal("partial tree missing")
	}
	if len(doc.StructureProblems) == 0 {
		t.Error("duplicate numbering should be recorded as a problem")
	}
}

func TestParseDocumentRejectsUnstructuredText(t *testing.T) {
	if _, err := ParseDocument(""); err == nil {
		t.Error("expected error for empty document")
	}
}

func TestDetectSubject(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"title line", "FOUNDERS AGREEMENT\n1.1 Something.", "FOUNDERS AGREEMENT"},
		{"leading blank lines", "\n\nSIDE LETTER\n", "SIDE LETTER"},
		{"numbered first line", "1.1 No title here.", ""},
		{"article first line", "ARTICLE 1. Definitions", ""},
		{"overlong line", "THIS AGREEMENT IS MADE BETWEEN THE PARTIES LISTED IN SCHEDULE A AND THE COMPANY AS SET OUT BELOW IN FULL", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectSubject(tt.text); got != tt.want {
				t.Errorf("detectSubject = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnalyzeProducesReport(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	p := NewPipeline(cfg)

	report, err := p.Analyze(context.Background(), sampleContract)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if report.DocumentID != cache.DocumentKey(sampleContract) {
		t.Error("document ID should be the content hash key")
	}
	if len(report.Definitions) != 4 {
		t.Errorf("definitions = %d, want 4", len(report.Definitions))
	}
	if !report.HasConflict() {
		t.Error("the uncited Good Reason carve-out should yield a finding")
	}
	if len(report.Scenarios) == 0 {
		t.Error("scenario battery missing from report")
	}
	if report.Risk.Index < 0 || report.Risk.Index > 100 {
		t.Errorf("risk index out of range: %d", report.Risk.Index)
	}
	if report.Risk.Confidence == "" {
		t.Error("risk confidence missing")
	}
}

func TestAnalyzeServesCacheHit(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Cache.Dir = "" // memory layer only
	p := NewPipeline(cfg)

	first, err := p.Analyze(context.Background(), sampleContract)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	second, err := p.Analyze(context.Background(), sampleContract)
	if err != nil {
		t.Fatalf("Analyze (cached): %v", err)
	}

	// A cache hit returns the stored report verbatim, timestamp included
	if !first.AnalyzedAt.Equal(second.AnalyzedAt) {
		t.Error("second run should be served from cache")
	}
	if len(first.Findings) != len(second.Findings) {
		t.Error("cached report differs from original")
	}
}

func TestNewVerifierSharesDocument(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	p := NewPipeline(cfg)

	v, doc, err := p.NewVerifier(sampleContract)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	if v == nil || doc == nil {
		t.Fatal("verifier and document must both be returned")
	}
	if doc.Subject != "FOUNDERS AGREEMENT" {
		t.Errorf("subject = %q", doc.Subject)
	}
}
