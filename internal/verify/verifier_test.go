package verify

import (
	"context"
	"strings"
	"testing"

	"github.com/axiomlogic/axiom/internal/model"
	"github.com/axiomlogic/axiom/internal/registry"
	"github.com/axiomlogic/axiom/internal/tree"
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

func newVerifier(t *testing.T) *Verifier {
	t.Helper()
	tr, err := tree.Parse(sampleContract)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return New(tr, registry.Build(tr), nil)
}

func collect(t *testing.T, v *Verifier, assertion string) []model.Event {
	t.Helper()
	var events []model.Event
	for ev := range v.Stream(context.Background(), assertion) {
		events = append(events, ev)
	}
	return events
}

func TestStreamEndsWithExactlyOneTerminalEvent(t *testing.T) {
	v := newVerifier(t)
	events := collect(t, v, "Founder keeps vested shares if resignation is for Good Reason")

	if len(events) == 0 {
		t.Fatal("no events emitted")
	}

	terminals := 0
	for i, ev := range events {
		if ev.Terminal() {
			terminals++
			if i != len(events)-1 {
				t.Error("terminal event must be the last event")
			}
		}
	}
	if terminals != 1 {
		t.Errorf("expected exactly 1 terminal event, got %d", terminals)
	}
}

func TestVerifyBypassedProtectionYieldsWarning(t *testing.T) {
	v := newVerifier(t)
	events := collect(t, v, "Founder keeps vested shares if resignation is for Good Reason")

	var conflictSeen bool
	var result *model.VerificationResult
	for _, ev := range events {
		switch ev.Kind {
		case model.EventConflict:
			conflictSeen = true
			if !strings.Contains(ev.Details, "Good Reason") {
				t.Errorf("conflict should name the bypassed protection: %q", ev.Details)
			}
		case model.EventComplete:
			result = ev.Result
		}
	}

	if !conflictSeen {
		t.Error("the bypassed Good Reason protection should surface as a conflict event")
	}
	if result == nil {
		t.Fatal("no complete event")
	}
	// The contract as written forfeits, but only by ignoring the
	// carve-out the assertion relies on
	if result.Verdict != model.VerdictWarning {
		t.Errorf("verdict = %s, want %s (summary: %s)", result.Verdict, model.VerdictWarning, result.Summary)
	}
}

func TestVerifyPassWhenOutcomeMatches(t *testing.T) {
	v := newVerifier(t)
	result, err := v.Verify(context.Background(), "Founder retains vested shares when terminated without Cause")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if result.Verdict != model.VerdictPass {
		t.Errorf("verdict = %s, want %s (summary: %s)", result.Verdict, model.VerdictPass, result.Summary)
	}
}

func TestVerifyAmbiguousWhenEntityUngrounded(t *testing.T) {
	v := newVerifier(t)
	result, err := v.Verify(context.Background(), "The Advisor keeps shares if an Acceleration Event occurs")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if result.Verdict != model.VerdictAmbiguous {
		t.Errorf("verdict = %s, want %s", result.Verdict, model.VerdictAmbiguous)
	}
	if !strings.Contains(result.Summary, "not found") {
		t.Errorf("summary should say what was not found: %q", result.Summary)
	}
}

func TestStreamEmitsEntityEvents(t *testing.T) {
	v := newVerifier(t)
	events := collect(t, v, `Founder loses everything if deemed a "Bad Leaver"`)

	var grounded []string
	for _, ev := range events {
		if ev.Kind == model.EventEntityFound {
			grounded = append(grounded, ev.Entity)
		}
	}

	found := false
	for _, e := range grounded {
		if e == "Bad Leaver" {
			found = true
			if loc := eventLocation(events, e); !strings.Contains(loc, "1.2") {
				t.Errorf("Bad Leaver should ground to its definition in 1.2, got %q", loc)
			}
		}
	}
	if !found {
		t.Errorf("Bad Leaver should be grounded, got %v", grounded)
	}
}

func eventLocation(events []model.Event, entity string) string {
	for _, ev := range events {
		if ev.Kind == model.EventEntityFound && ev.Entity == entity {
			return ev.Location
		}
	}
	return ""
}

func TestStreamIncludesLogicTrace(t *testing.T) {
	v := newVerifier(t)
	events := collect(t, v, "Founder keeps vested shares if resignation is for Good Reason")

	var chain []model.TraceStep
	for _, ev := range events {
		if ev.Kind == model.EventTrace {
			chain = ev.Chain
		}
	}

	if len(chain) < 3 {
		t.Fatalf("expected a multi-step trace, got %d steps", len(chain))
	}
	if chain[0].Kind != "input" {
		t.Errorf("trace should start with the assertion, got %q", chain[0].Kind)
	}
	if chain[len(chain)-1].Kind != "outcome" {
		t.Errorf("trace should end with the verdict, got %q", chain[len(chain)-1].Kind)
	}
}

func TestStreamStopsOnCancelledContext(t *testing.T) {
	v := newVerifier(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count := 0
	for range v.Stream(ctx, "Founder keeps shares") {
		count++
	}
	// A cancelled consumer gets at most the events already in flight
	if count > 1 {
		t.Errorf("expected stream to stop quickly after cancel, got %d events", count)
	}
}

func TestVerifyResultRecordsOutcomes(t *testing.T) {
	v := newVerifier(t)
	result, err := v.Verify(context.Background(), "Founder keeps vested shares if resignation is for Good Reason")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if result.AssertionText == "" || result.ActualOutcome == "" || result.ExpectedOutcome == "" {
		t.Error("result should record assertion and both outcomes")
	}
	if result.Parsed.Condition == "" {
		t.Error("parsed condition should be populated")
	}
}
