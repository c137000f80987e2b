// Package verify evaluates natural-language assertions against an
// analyzed contract and reports the result as an ordered event stream.
// The stream narrates the resolution (thinking, grounded entities,
// surfaced conflicts, causal trace) and always ends with exactly one
// terminal event.
package verify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/axiomlogic/axiom/internal/llm"
	"github.com/axiomlogic/axiom/internal/logic"
	"github.com/axiomlogic/axiom/internal/model"
	"github.com/axiomlogic/axiom/internal/registry"
	"github.com/axiomlogic/axiom/internal/tree"
)

// Verifier checks assertions against a single analyzed document
type Verifier struct {
	tree     *tree.Tree
	registry *registry.Registry
	provider llm.Provider // nil means heuristic parsing only
}

// New creates a verifier for one document. Provider may be nil.
func New(t *tree.Tree, reg *registry.Registry, provider llm.Provider) *Verifier {
	return &Verifier{tree: t, registry: reg, provider: provider}
}

// Stream verifies one assertion and emits the resolution as events on
// the returned channel. The channel is closed after the single terminal
// event, or early when ctx is cancelled.
func (v *Verifier) Stream(ctx context.Context, assertion string) <-chan model.Event {
	events := make(chan model.Event)
	go func() {
		defer close(events)
		v.run(ctx, assertion, events)
	}()
	return events
}

// Verify runs the stream to completion and returns the terminal result
func (v *Verifier) Verify(ctx context.Context, assertion string) (*model.VerificationResult, error) {
	for ev := range v.Stream(ctx, assertion) {
		switch ev.Kind {
		case model.EventComplete:
			return ev.Result, nil
		case model.EventError:
			return nil, fmt.Errorf("verification failed: %s", ev.Message)
		}
	}
	return nil, ctx.Err()
}

func (v *Verifier) run(ctx context.Context, assertion string, events chan<- model.Event) {
	start := time.Now()

	send := func(ev model.Event) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !send(model.Event{Kind: model.EventThinking, Message: "Parsing assertion into structured form"}) {
		return
	}

	parsed, err := v.parse(ctx, assertion)
	if err != nil {
		send(model.Event{Kind: model.EventError, Message: err.Error()})
		return
	}

	if !send(model.Event{Kind: model.EventThinking, Message: "Grounding asserted entities in the document"}) {
		return
	}

	trace := []model.TraceStep{{
		Label:   "Assertion",
		Kind:    "input",
		Snippet: assertion,
	}}

	ungrounded := []string{}
	for _, entity := range parsed.Entities {
		location, step, ok := v.ground(entity)
		if !ok {
			ungrounded = append(ungrounded, entity)
			continue
		}
		if step != nil {
			trace = append(trace, *step)
		}
		if !send(model.Event{Kind: model.EventEntityFound, Entity: entity, Location: location}) {
			return
		}
	}

	trigger := parsed.Condition
	if trigger == "" {
		trigger = assertion
	}

	if !send(model.Event{Kind: model.EventThinking, Message: fmt.Sprintf("Deriving contractual outcome for: %s", trigger)}) {
		return
	}

	actual := logic.DeriveOutcome(v.tree, v.registry, trigger)
	if actual.GoverningID != "" {
		trace = append(trace, model.TraceStep{
			NodeID:  actual.GoverningID,
			Section: v.sectionOfID(actual.GoverningID),
			Label:   fmt.Sprintf("Governing clause %s", v.sectionOfID(actual.GoverningID)),
			Kind:    "clause",
			Snippet: actual.Snippet,
		})
	}

	bypassed := actual.BypassedProtections()
	for _, p := range bypassed {
		severity := model.SeverityLow
		if p.Material {
			severity = model.SeverityHigh
		}
		if !send(model.Event{
			Kind:     model.EventConflict,
			Severity: severity,
			Details: fmt.Sprintf("clause %s imposes its consequence without referencing the %q protection defined in section %s",
				v.sectionOfID(actual.GoverningID), p.Term, p.SourceSection),
		}) {
			return
		}
		trace = append(trace, model.TraceStep{
			Section: p.SourceSection,
			Label:   fmt.Sprintf("Bypassed protection: %s", p.Term),
			Kind:    "definition",
		})
	}

	expected := logic.ClassifyOutcome(parsed.ExpectedOutcome)
	verdict, summary := v.judge(parsed, actual, expected, bypassed, ungrounded)

	trace = append(trace, model.TraceStep{
		Label:   fmt.Sprintf("Verdict: %s", verdict),
		Kind:    "outcome",
		Snippet: summary,
	})

	if !send(model.Event{Kind: model.EventTrace, Chain: trace}) {
		return
	}

	send(model.Event{
		Kind: model.EventComplete,
		Result: &model.VerificationResult{
			AssertionText:   assertion,
			Parsed:          *parsed,
			Verdict:         verdict,
			Summary:         summary,
			ActualOutcome:   logic.DescribeCategory(actual.Category),
			ExpectedOutcome: logic.DescribeCategory(expected),
			LogicTrace:      trace,
			DurationMS:      time.Since(start).Milliseconds(),
		},
	})
}

// parse resolves the assertion through the configured provider, falling
// back to the heuristic parser only when no provider is set. A
// configured provider that fails is a hard error, surfaced as the
// stream's terminal error event.
func (v *Verifier) parse(ctx context.Context, assertion string) (*model.ParsedAssertion, error) {
	if v.provider == nil {
		return HeuristicParse(assertion), nil
	}
	parsed, err := v.provider.ParseAssertion(ctx, assertion)
	if err != nil {
		return nil, fmt.Errorf("%s provider: %w", v.provider.Name(), err)
	}
	if len(parsed.Entities) == 0 {
		parsed.Entities = extractEntities(assertion)
	}
	return parsed, nil
}

// ground locates one asserted entity in the document. Defined terms
// resolve through the registry; everything else must appear verbatim in
// some clause.
func (v *Verifier) ground(entity string) (location string, step *model.TraceStep, ok bool) {
	if def, found := v.registry.Resolve(entity); found {
		return fmt.Sprintf("defined in section %s", def.SourceSection), &model.TraceStep{
			Section: def.SourceSection,
			Label:   fmt.Sprintf("Definition: %s", def.Term),
			Kind:    "definition",
			Snippet: def.Meaning,
		}, true
	}

	lower := strings.ToLower(entity)
	for _, n := range v.tree.Nodes() {
		if strings.Contains(strings.ToLower(n.Text), lower) {
			section := v.tree.SectionOf(n)
			loc := "document text"
			if section != "" {
				loc = fmt.Sprintf("section %s", section)
			}
			return loc, nil, true
		}
	}
	return "", nil, false
}

// judge maps the derived outcome against the asserted one. An uncited
// material protection softens a contradiction to a warning: the contract
// text does forfeit, but honoring the protection it ignores would not.
func (v *Verifier) judge(parsed *model.ParsedAssertion, actual logic.Outcome, expected logic.OutcomeCategory, bypassed []logic.Protection, ungrounded []string) (model.Verdict, string) {
	if len(ungrounded) > 0 {
		return model.VerdictAmbiguous, fmt.Sprintf("cannot verify: %s not found in the document",
			strings.Join(quoteAll(ungrounded), ", "))
	}

	matches := logic.Matches(actual.Category, expected)

	switch {
	case matches && len(bypassed) == 0:
		return model.VerdictPass, fmt.Sprintf("the contract agrees: %s", actual.Description)
	case matches:
		return model.VerdictWarning, fmt.Sprintf("the contract agrees, but the governing clause bypasses %s", protectionList(bypassed))
	case bypassRelevant(parsed, bypassed):
		return model.VerdictWarning, fmt.Sprintf("%s, but it does so by ignoring %s, which the assertion relies on",
			actual.Description, protectionList(bypassed))
	case logic.Related(actual.Category, expected):
		return model.VerdictWarning, fmt.Sprintf("partially holds: asserted %q, derived %q",
			logic.DescribeCategory(expected), logic.DescribeCategory(actual.Category))
	default:
		return model.VerdictFail, fmt.Sprintf("the contract contradicts the assertion: %s", actual.Description)
	}
}

// bypassRelevant reports whether any bypassed protection is the one the
// assertion itself invokes
func bypassRelevant(parsed *model.ParsedAssertion, bypassed []logic.Protection) bool {
	text := strings.ToLower(parsed.Condition + " " + parsed.ExpectedOutcome)
	for _, e := range parsed.Entities {
		text += " " + strings.ToLower(e)
	}
	for _, p := range bypassed {
		if strings.Contains(text, strings.ToLower(p.Term)) {
			return true
		}
	}
	return false
}

func protectionList(ps []logic.Protection) string {
	var parts []string
	for _, p := range ps {
		parts = append(parts, fmt.Sprintf("the %q protection (section %s)", p.Term, p.SourceSection))
	}
	return strings.Join(parts, ", ")
}

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}

func (v *Verifier) sectionOfID(id string) string {
	if n, ok := v.tree.ByID(id); ok {
		return v.tree.SectionOf(n)
	}
	return ""
}
