package models

import (
	"strings"
	"time"
)

const DefaultKnowledgeBaseTitle = "Main Knowledge Base"

type BuiltinKey string

const (
	BuiltinServices BuiltinKey = "services"
	BuiltinPricing  BuiltinKey = "pricing"
	BuiltinPolicies BuiltinKey = "policies"
	BuiltinHours    BuiltinKey = "hours"
	BuiltinFAQ      BuiltinKey = "faq"
	BuiltinIntake   BuiltinKey = "intake"
	BuiltinMisc     BuiltinKey = "misc"
)

type builtinDef struct {
	key   BuiltinKey
	label string
}

// builtinTable is the canonical order and the heading label of every builtin
// section. Compiling and parsing both go through it.
var builtinTable = [...]builtinDef{
	{BuiltinServices, "Services"},
	{BuiltinPricing, "Pricing"},
	{BuiltinPolicies, "Policies"},
	{BuiltinHours, "Hours"},
	{BuiltinFAQ, "FAQ"},
	{BuiltinIntake, "Intake"},
	{BuiltinMisc, "Misc"},
}

// BuiltinKeys returns every builtin key in canonical order.
func BuiltinKeys() []BuiltinKey {
	keys := make([]BuiltinKey, len(builtinTable))
	for i, def := range builtinTable {
		keys[i] = def.key
	}
	return keys
}

// Label returns the heading label of a builtin key, or "" for unknown keys.
func (k BuiltinKey) Label() string {
	for _, def := range builtinTable {
		if def.key == k {
			return def.label
		}
	}
	return ""
}

// BuiltinKeyForLabel matches a heading label against the builtin labels,
// ignoring case and surrounding whitespace.
func BuiltinKeyForLabel(label string) (BuiltinKey, bool) {
	label = strings.TrimSpace(label)
	for _, def := range builtinTable {
		if strings.EqualFold(def.label, label) {
			return def.key, true
		}
	}
	return "", false
}

type BuiltinSections map[BuiltinKey]string

// NewBuiltinSections returns a map holding every builtin key with empty text.
func NewBuiltinSections() BuiltinSections {
	sections := make(BuiltinSections, len(builtinTable))
	for _, def := range builtinTable {
		sections[def.key] = ""
	}
	return sections
}

type CustomSection struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type KnowledgeBaseSections struct {
	Builtins BuiltinSections `json:"builtins"`
	Customs  []CustomSection `json:"customs"`
}

func NewKnowledgeBaseSections() KnowledgeBaseSections {
	return KnowledgeBaseSections{
		Builtins: NewBuiltinSections(),
		Customs:  []CustomSection{},
	}
}

type KnowledgeBase struct {
	BusinessID string                `json:"businessId"`
	Title      string                `json:"title"`
	Sections   KnowledgeBaseSections `json:"sections"`
	RawText    string                `json:"rawText"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
}

// KnowledgeBaseRow is a knowledge_bases row as stored. Sections is the raw
// JSONB value and is nil for legacy rows that only carry raw_text.
type KnowledgeBaseRow struct {
	BusinessID string    `db:"business_id"`
	Title      string    `db:"title"`
	Sections   []byte    `db:"sections"`
	RawText    string    `db:"raw_text"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
