package service

import (
	"encoding/json"
	"strconv"
	"strings"

	"agent-kb/internal/models"

	"github.com/google/uuid"
)

const untitledCustomSection = "Untitled"

// textRule describes how one untrusted field becomes stored text.
type textRule struct {
	maxRunes int
	fallback func() string
}

func constant(s string) func() string {
	return func() string { return s }
}

var (
	titleRule         = textRule{maxRunes: 200, fallback: constant(models.DefaultKnowledgeBaseTitle)}
	builtinRule       = textRule{maxRunes: 50_000}
	customIDRule      = textRule{maxRunes: 120, fallback: uuid.NewString}
	customTitleRule   = textRule{maxRunes: 160, fallback: constant(untitledCustomSection)}
	customContentRule = textRule{maxRunes: 80_000}
)

// clean coerces, trims and truncates without applying the fallback.
func (r textRule) clean(v any) string {
	s := strings.TrimSpace(coerceText(v))
	return strings.TrimSpace(truncateRunes(s, r.maxRunes))
}

func (r textRule) orFallback(s string) string {
	if s == "" && r.fallback != nil {
		return r.fallback()
	}
	return s
}

func (r textRule) apply(v any) string {
	return r.orFallback(r.clean(v))
}

// coerceText turns a decoded JSON value into text. Values that have no
// sensible text form (null, objects, arrays) become "".
func coerceText(v any) string {
	switch t := v.(type) {
	case string:
		return sanitizeUTF8(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// NormalizeTitle returns the stored form of a knowledge base title.
func NormalizeTitle(input any) string {
	return titleRule.apply(input)
}

// NormalizeSections converts arbitrary input into a well-formed sections
// value. It never fails: anything it cannot read is treated as empty.
func NormalizeSections(input any) models.KnowledgeBaseSections {
	input = genericSections(input)

	sections := models.NewKnowledgeBaseSections()

	builtins := field(input, "builtins")
	for _, key := range models.BuiltinKeys() {
		sections.Builtins[key] = builtinRule.apply(field(builtins, string(key)))
	}

	items, _ := field(input, "customs").([]any)
	for _, item := range items {
		title := customTitleRule.clean(field(item, "title"))
		content := customContentRule.clean(field(item, "content"))
		if title == "" && content == "" {
			continue
		}
		sections.Customs = append(sections.Customs, models.CustomSection{
			ID:      customIDRule.apply(field(item, "id")),
			Title:   customTitleRule.orFallback(title),
			Content: content,
		})
	}

	return sections
}

// field reads key from a decoded JSON object; anything else yields nil.
func field(container any, key string) any {
	switch m := container.(type) {
	case map[string]any:
		return m[key]
	case map[string]string:
		if v, ok := m[key]; ok {
			return v
		}
	}
	return nil
}

// genericSections lets typed callers (the importer, stored rows) go through the
// same decode path as request bodies.
func genericSections(input any) any {
	var sections models.KnowledgeBaseSections
	switch t := input.(type) {
	case models.KnowledgeBaseSections:
		sections = t
	case *models.KnowledgeBaseSections:
		if t == nil {
			return nil
		}
		sections = *t
	default:
		return input
	}

	builtins := make(map[string]any, len(sections.Builtins))
	for key, text := range sections.Builtins {
		builtins[string(key)] = text
	}
	customs := make([]any, 0, len(sections.Customs))
	for _, section := range sections.Customs {
		customs = append(customs, map[string]any{
			"id":      section.ID,
			"title":   section.Title,
			"content": section.Content,
		})
	}
	return map[string]any{
		"builtins": builtins,
		"customs":  customs,
	}
}
