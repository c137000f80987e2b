package tree

import (
	"regexp"
	"strings"

	"github.com/axiomlogic/axiom/internal/model"
)

// Plain-text structural recognition. Matches the common layout of share
// and employment agreements: ARTICLE headings, "Section 4.2" or bare
// "4.2" numbered clauses, and lettered points like "(a)".
var (
	articlePattern = regexp.MustCompile(`^(?:ARTICLE|CHAPTER)\s+([IVXLC]+|\d+)\b[.:]?\s*(.*)$`)
	sectionPattern = regexp.MustCompile(`(?i)^(?:section|clause|§)\s*(\d+(?:\.\d+)*)\b[.:]?\s*(.*)$`)
	numberPattern  = regexp.MustCompile(`^(\d+(?:\.\d+)*)[.)]?\s+(.*)$`)
	pointPattern   = regexp.MustCompile(`^\(([a-z0-9]{1,4})\)\s*(.*)$`)
)

// ParseText converts plain contract text into labelled blocks. Nesting is
// positional: sections open under the current article, points and prose
// under the current section.
func ParseText(text string) []Block {
	var blocks []Block

	articleOpen := false
	sectionLevel := -1 // level of the most recent section, -1 when none open

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		switch {
		case articlePattern.MatchString(line):
			m := articlePattern.FindStringSubmatch(line)
			blocks = append(blocks, Block{
				Kind:       model.KindArticle,
				Number:     m[1],
				Text:       line,
				Level:      0,
				ClauseType: classifyClause(line),
			})
			articleOpen = true
			sectionLevel = -1

		case sectionPattern.MatchString(line) || numberPattern.MatchString(line):
			m := sectionPattern.FindStringSubmatch(line)
			if m == nil {
				m = numberPattern.FindStringSubmatch(line)
			}
			level := 0
			if articleOpen {
				level = 1
			}
			blocks = append(blocks, Block{
				Kind:       model.KindSection,
				Number:     m[1],
				Text:       line,
				Level:      level,
				ClauseType: classifyClause(line),
			})
			sectionLevel = level

		case pointPattern.MatchString(line) && sectionLevel >= 0:
			m := pointPattern.FindStringSubmatch(line)
			blocks = append(blocks, Block{
				Kind:       model.KindPoint,
				Number:     m[1],
				Text:       line,
				Level:      sectionLevel + 1,
				ClauseType: classifyClause(line),
			})

		default:
			level := 0
			if sectionLevel >= 0 {
				level = sectionLevel + 1
			} else if articleOpen {
				level = 1
			}
			blocks = append(blocks, Block{
				Kind:       model.KindParagraph,
				Text:       line,
				Level:      level,
				ClauseType: classifyClause(line),
			})
		}
	}

	return blocks
}

// Parse is the one-call form: text in, tree out. The error, when present,
// is a *MalformedStructureError carrying the partial tree.
func Parse(text string) (*Tree, error) {
	return Build(ParseText(text))
}

var definitionCue = regexp.MustCompile(`(?i)(?:shall mean|shall have the meaning|is defined as|"\s*means\b|"\s+means\b)`)

// classifyClause assigns the optional semantic tag used to prioritize
// which clause pairs the conflict detector compares.
func classifyClause(text string) model.ClauseType {
	lower := strings.ToLower(text)

	switch {
	case definitionCue.MatchString(text) || strings.Contains(lower, `" means`):
		return model.ClauseDefinition
	case strings.Contains(lower, "if ") || strings.Contains(lower, "in the event") ||
		strings.Contains(lower, "upon ") || strings.Contains(lower, "where ") ||
		strings.Contains(lower, "unless "):
		return model.ClauseCondition
	case strings.Contains(lower, "represents") || strings.Contains(lower, "warrants"):
		return model.ClauseRepresentation
	case strings.Contains(lower, "shall ") || strings.Contains(lower, "must ") ||
		strings.Contains(lower, "is required"):
		return model.ClauseObligation
	case strings.Contains(lower, "may ") || strings.Contains(lower, "is entitled") ||
		strings.Contains(lower, "has the right"):
		return model.ClauseRight
	default:
		return ""
	}
}
