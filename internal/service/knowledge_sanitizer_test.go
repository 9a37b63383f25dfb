package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"agent-kb/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSectionsAlwaysHasEveryBuiltin(t *testing.T) {
	inputs := map[string]any{
		"nil":                nil,
		"string":             "garbage",
		"number":             42.0,
		"array":              []any{"a", "b"},
		"builtins not a map": map[string]any{"builtins": "services"},
		"partial builtins":   map[string]any{"builtins": map[string]any{"services": "Haircuts"}},
		"unknown keys":       map[string]any{"builtins": map[string]any{"parking": "rear", "hours": 9.0}},
		"oversized": map[string]any{"builtins": map[string]any{
			"misc": strings.Repeat("x", 70_000),
		}},
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			sections := NormalizeSections(input)

			require.Len(t, sections.Builtins, len(models.BuiltinKeys()))
			for _, key := range models.BuiltinKeys() {
				text, ok := sections.Builtins[key]
				assert.True(t, ok, "missing builtin %s", key)
				assert.LessOrEqual(t, utf8.RuneCountInString(text), 50_000)
			}
			assert.NotNil(t, sections.Customs)
		})
	}
}

func TestNormalizeSectionsCoercesBuiltins(t *testing.T) {
	sections := NormalizeSections(map[string]any{
		"builtins": map[string]any{
			"services": "  Haircuts $30 \n",
			"pricing":  30.0,
			"policies": true,
			"hours":    map[string]any{"mon": "9-5"},
			"faq":      nil,
		},
	})

	assert.Equal(t, "Haircuts $30", sections.Builtins[models.BuiltinServices])
	assert.Equal(t, "30", sections.Builtins[models.BuiltinPricing])
	assert.Equal(t, "true", sections.Builtins[models.BuiltinPolicies])
	assert.Equal(t, "", sections.Builtins[models.BuiltinHours])
	assert.Equal(t, "", sections.Builtins[models.BuiltinFAQ])
}

func TestNormalizeSectionsLengthCaps(t *testing.T) {
	sections := NormalizeSections(map[string]any{
		"builtins": map[string]any{"services": strings.Repeat("s", 60_000)},
		"customs": []any{
			map[string]any{
				"id":      strings.Repeat("i", 130),
				"title":   strings.Repeat("t", 200),
				"content": strings.Repeat("c", 90_000),
			},
		},
	})

	assert.Equal(t, 50_000, utf8.RuneCountInString(sections.Builtins[models.BuiltinServices]))
	require.Len(t, sections.Customs, 1)
	assert.Equal(t, 120, utf8.RuneCountInString(sections.Customs[0].ID))
	assert.Equal(t, 160, utf8.RuneCountInString(sections.Customs[0].Title))
	assert.Equal(t, 80_000, utf8.RuneCountInString(sections.Customs[0].Content))
}

func TestNormalizeSectionsCapsCountCharactersNotBytes(t *testing.T) {
	sections := NormalizeSections(map[string]any{
		"builtins": map[string]any{"faq": strings.Repeat("é", 50_010)},
	})

	faq := sections.Builtins[models.BuiltinFAQ]
	assert.Equal(t, 50_000, utf8.RuneCountInString(faq))
	assert.True(t, utf8.ValidString(faq))
}

func TestNormalizeSectionsPrunesEmptyCustoms(t *testing.T) {
	sections := NormalizeSections(map[string]any{
		"customs": []any{
			map[string]any{"id": "keep-1", "title": "Parking", "content": "Free lot in rear"},
			map[string]any{"id": "drop-1", "title": "   ", "content": "\n\t"},
			map[string]any{"title": nil, "content": nil},
			"not an object",
			map[string]any{"content": "Cash only"},
		},
	})

	require.Len(t, sections.Customs, 2)
	assert.Equal(t, models.CustomSection{ID: "keep-1", Title: "Parking", Content: "Free lot in rear"}, sections.Customs[0])

	untitled := sections.Customs[1]
	assert.Equal(t, "Untitled", untitled.Title)
	assert.Equal(t, "Cash only", untitled.Content)
	assert.NotEmpty(t, untitled.ID)
}

func TestNormalizeSectionsKeepsIDsAndOrder(t *testing.T) {
	sections := NormalizeSections(map[string]any{
		"customs": []any{
			map[string]any{"id": " a ", "title": "A"},
			map[string]any{"id": "b", "title": "B"},
			map[string]any{"id": "c", "title": "C"},
		},
	})

	require.Len(t, sections.Customs, 3)
	assert.Equal(t, "a", sections.Customs[0].ID)
	assert.Equal(t, []string{"A", "B", "C"}, customTitles(sections.Customs))
}

func TestNormalizeSectionsCustomsMustBeASequence(t *testing.T) {
	sections := NormalizeSections(map[string]any{
		"customs": map[string]any{"title": "Parking"},
	})

	assert.Empty(t, sections.Customs)
}

func TestNormalizeSectionsIsIdempotent(t *testing.T) {
	once := NormalizeSections(map[string]any{
		"builtins": map[string]any{"services": "  Cuts  ", "misc": strings.Repeat("m ", 30_000)},
		"customs":  []any{map[string]any{"title": "Parking", "content": " rear "}},
	})
	twice := NormalizeSections(once)

	assert.Equal(t, once, twice)
}

func TestNormalizeSectionsDropsInvalidUTF8(t *testing.T) {
	sections := NormalizeSections(map[string]any{
		"builtins": map[string]any{"hours": "Open\xff 9-5"},
	})

	assert.Equal(t, "Open 9-5", sections.Builtins[models.BuiltinHours])
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "missing", input: nil, want: "Main Knowledge Base"},
		{name: "blank", input: "   ", want: "Main Knowledge Base"},
		{name: "wrong type", input: map[string]any{}, want: "Main Knowledge Base"},
		{name: "trimmed", input: "  Joe's Barbers ", want: "Joe's Barbers"},
		{name: "capped", input: strings.Repeat("t", 250), want: strings.Repeat("t", 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.input))
		})
	}
}

func customTitles(customs []models.CustomSection) []string {
	titles := make([]string, 0, len(customs))
	for _, section := range customs {
		titles = append(titles, section.Title)
	}
	return titles
}

func TestCoerceTextFormatsNumbersWithoutExponent(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{30.0, "30"},
		{2.5, "2.5"},
		{1e21, "1000000000000000000000"},
		{1.5e-7, "0.00000015"},
		{-0.1, "-0.1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, coerceText(tt.in), "%v", tt.in)
	}
}
