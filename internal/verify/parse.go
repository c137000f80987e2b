package verify

import (
	"regexp"
	"strings"

	"github.com/axiomlogic/axiom/internal/model"
)

// Condition introducers, longest-first so "only if" wins over "if"
var conditionMarkers = []string{"only if", "if", "when", "whenever", "upon", "unless", "in the event"}

var quotedPhrase = regexp.MustCompile(`"([^"]{2,60})"`)

// Capitalized runs of up to four words, mid-sentence. Used to guess
// defined terms and parties in assertions without an LLM.
var capitalizedRun = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,3})\b`)

// HeuristicParse converts an assertion into its structured form without
// any external capability. It is the fallback used whenever no LLM
// provider is configured, so it must never fail: worst case it returns
// the whole assertion as the expected outcome.
func HeuristicParse(assertion string) *model.ParsedAssertion {
	text := strings.TrimSpace(assertion)

	parsed := &model.ParsedAssertion{
		ExpectedOutcome: text,
		AssertionType:   "absolute",
	}

	outcome, condition := splitCondition(text)
	if condition != "" {
		parsed.ExpectedOutcome = outcome
		parsed.Condition = condition
		parsed.AssertionType = "conditional"
	}

	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "must not", "may not", "cannot", "shall not", "is prohibited"):
		parsed.AssertionType = "prohibition"
	case parsed.AssertionType != "conditional" && containsAny(lower, "must ", "shall ", "is required"):
		parsed.AssertionType = "requirement"
	}

	parsed.Entities = extractEntities(text)
	if len(parsed.Entities) > 0 {
		parsed.Subject = parsed.Entities[0]
	}

	return parsed
}

// splitCondition divides an assertion at its first condition marker.
// "Founder keeps shares if resignation is for Good Reason" becomes
// ("Founder keeps shares", "resignation is for Good Reason").
func splitCondition(text string) (outcome, condition string) {
	lower := strings.ToLower(text)
	best := -1
	bestMarker := ""
	for _, marker := range conditionMarkers {
		idx := indexWord(lower, marker)
		if idx < 0 {
			continue
		}
		if best == -1 || idx < best || (idx == best && len(marker) > len(bestMarker)) {
			best = idx
			bestMarker = marker
		}
	}
	if best <= 0 {
		return text, ""
	}
	outcome = strings.TrimSpace(strings.TrimSuffix(text[:best], ","))
	condition = strings.TrimSpace(text[best+len(bestMarker):])
	condition = strings.TrimPrefix(condition, "of ")
	if outcome == "" || condition == "" {
		return text, ""
	}
	return outcome, condition
}

// indexWord finds a marker as a whole word, not inside another word
// ("if" must not match "clarify")
func indexWord(lower, marker string) int {
	offset := 0
	for {
		idx := strings.Index(lower[offset:], marker)
		if idx < 0 {
			return -1
		}
		abs := offset + idx
		beforeOK := abs == 0 || !isLetter(lower[abs-1])
		end := abs + len(marker)
		afterOK := end >= len(lower) || !isLetter(lower[end])
		if beforeOK && afterOK {
			return abs
		}
		offset = abs + len(marker)
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// extractEntities pulls quoted phrases and capitalized runs from the
// assertion text, deduplicated in order of appearance
func extractEntities(text string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, s)
	}

	for _, m := range quotedPhrase.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range capitalizedRun.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	return out
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
