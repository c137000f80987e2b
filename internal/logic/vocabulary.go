package logic

import "strings"

// Function words carry no trigger semantics and are excluded from
// vocabulary matching.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "to": true, "for": true,
	"in": true, "on": true, "by": true, "with": true, "without": true,
	"and": true, "or": true, "if": true, "is": true, "are": true, "be": true,
	"shall": true, "should": true, "any": true, "all": true, "no": true,
	"not": true, "that": true, "this": true, "his": true, "her": true,
	"their": true, "its": true, "as": true, "at": true, "from": true,
	"under": true, "upon": true, "within": true, "due": true, "such": true,
	"other": true, "will": true, "would": true, "has": true, "have": true,
	"what": true, "when": true, "who": true, "does": true, "do": true,
}

// TriggerVocabulary extracts the content words of a trigger description,
// lowercased and lightly stemmed so "resigns" and "resignation" compare
// equal.
func TriggerVocabulary(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	seen := make(map[string]bool)
	var out []string
	for _, w := range fields {
		if len(w) < 3 || stopwords[w] {
			continue
		}
		w = stem(w)
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

// SharedVocabulary counts the content words two texts have in common
func SharedVocabulary(a, b string) int {
	return overlap(TriggerVocabulary(a), b)
}

// overlap counts how many vocabulary words appear in the text
func overlap(vocab []string, text string) int {
	words := TriggerVocabulary(text)
	count := 0
	for _, v := range vocab {
		for _, w := range words {
			if looseMatch(v, w) {
				count++
				break
			}
		}
	}
	return count
}

// stem strips the most common inflectional suffixes. Crude but symmetric:
// both sides of every comparison pass through it.
func stem(w string) string {
	for _, suffix := range []string{"ing", "ed", "ly", "es", "s"} {
		if strings.HasSuffix(w, suffix) && len(w)-len(suffix) >= 4 {
			return strings.TrimSuffix(w, suffix)
		}
	}
	return w
}

// looseMatch treats long shared prefixes as equal so stemming artifacts
// ("voluntari" vs "voluntary") still compare true.
func looseMatch(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) >= 5 && len(b) >= 5 {
		return strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
	}
	return false
}
