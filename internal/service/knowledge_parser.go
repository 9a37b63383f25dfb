package service

import (
	"regexp"
	"strings"

	"agent-kb/internal/models"

	"github.com/google/uuid"
)

// headingPattern matches "## Label" lines. "###" is not a heading here.
var headingPattern = regexp.MustCompile(`(?m)^##[ \t]+(\S.*?)[ \t]*$`)

type rawSection struct {
	label string
	body  string
}

// ParseRawText rebuilds sections from a flat document that predates the
// structured form. Text before the first heading is dropped; a document with
// no headings at all is kept whole under misc.
func ParseRawText(raw string) models.KnowledgeBaseSections {
	sections := models.NewKnowledgeBaseSections()

	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	found := splitHeadings(text)
	if len(found) == 0 {
		sections.Builtins[models.BuiltinMisc] = strings.TrimSpace(text)
		return sections
	}

	for _, section := range found {
		body := strings.TrimSpace(section.body)
		if key, ok := models.BuiltinKeyForLabel(section.label); ok {
			// A repeated builtin heading replaces the earlier one.
			sections.Builtins[key] = body
			continue
		}
		sections.Customs = append(sections.Customs, models.CustomSection{
			ID:      uuid.NewString(),
			Title:   section.label,
			Content: body,
		})
	}

	return sections
}

func splitHeadings(text string) []rawSection {
	matches := headingPattern.FindAllStringSubmatchIndex(text, -1)
	sections := make([]rawSection, 0, len(matches))
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections = append(sections, rawSection{
			label: text[m[2]:m[3]],
			body:  text[m[1]:end],
		})
	}
	return sections
}
