package verify

import (
	"testing"
)

func TestHeuristicParseConditional(t *testing.T) {
	parsed := HeuristicParse("Founder keeps vested shares if resignation is for Good Reason")

	if parsed.AssertionType != "conditional" {
		t.Errorf("type = %q, want conditional", parsed.AssertionType)
	}
	if parsed.ExpectedOutcome != "Founder keeps vested shares" {
		t.Errorf("outcome = %q", parsed.ExpectedOutcome)
	}
	if parsed.Condition != "resignation is for Good Reason" {
		t.Errorf("condition = %q", parsed.Condition)
	}
	if parsed.Subject != "Founder" {
		t.Errorf("subject = %q, want Founder", parsed.Subject)
	}
}

func TestHeuristicParseAbsolute(t *testing.T) {
	parsed := HeuristicParse("The Company owns all intellectual property")

	if parsed.AssertionType != "absolute" {
		t.Errorf("type = %q, want absolute", parsed.AssertionType)
	}
	if parsed.Condition != "" {
		t.Errorf("condition = %q, want empty", parsed.Condition)
	}
}

func TestHeuristicParseProhibition(t *testing.T) {
	parsed := HeuristicParse("The Founder may not compete with the Company")

	if parsed.AssertionType != "prohibition" {
		t.Errorf("type = %q, want prohibition", parsed.AssertionType)
	}
}

func TestHeuristicParseRequirement(t *testing.T) {
	parsed := HeuristicParse("The Founder must assign all inventions to the Company")

	if parsed.AssertionType != "requirement" {
		t.Errorf("type = %q, want requirement", parsed.AssertionType)
	}
}

func TestHeuristicParseNeverFails(t *testing.T) {
	for _, text := range []string{"", "if", "???", "lowercase only words"} {
		parsed := HeuristicParse(text)
		if parsed == nil {
			t.Fatalf("HeuristicParse(%q) returned nil", text)
		}
	}
}

func TestExtractEntitiesQuotedAndCapitalized(t *testing.T) {
	entities := extractEntities(`Founder is deemed a "Bad Leaver" upon resignation without Good Reason`)

	want := map[string]bool{"Bad Leaver": false, "Founder": false, "Good Reason": false}
	for _, e := range entities {
		if _, ok := want[e]; ok {
			want[e] = true
		}
	}
	for term, found := range want {
		if !found {
			t.Errorf("entity %q not extracted, got %v", term, entities)
		}
	}

	// Quoted term must not be duplicated by the capitalized-run scan
	count := 0
	for _, e := range entities {
		if e == "Bad Leaver" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Bad Leaver extracted %d times", count)
	}
}

func TestSplitConditionWordBoundary(t *testing.T) {
	// "if" inside another word must not split
	outcome, condition := splitCondition("The parties shall clarify the terms")
	if condition != "" {
		t.Errorf("no condition expected, got %q (outcome %q)", condition, outcome)
	}
}
