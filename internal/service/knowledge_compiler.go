package service

import (
	"strings"
	"time"

	"agent-kb/internal/models"
)

const (
	compiledTitleFallback   = "Knowledge Base"
	compiledUntitledSection = "Untitled Section"
	lastUpdatedLayout       = "2006-01-02 15:04 MST"
)

// CompileRawText renders sections as the flat document the calling agent reads.
func CompileRawText(title string, builtins models.BuiltinSections, customs []models.CustomSection) string {
	return compileAt(title, builtins, customs, time.Now())
}

func compileAt(title string, builtins models.BuiltinSections, customs []models.CustomSection, now time.Time) string {
	title = headingText(title)
	if title == "" {
		title = compiledTitleFallback
	}

	lines := []string{
		"# " + title,
		"Last updated: " + now.Local().Format(lastUpdatedLayout),
		"",
	}

	for _, key := range models.BuiltinKeys() {
		text := strings.TrimSpace(builtins[key])
		if text == "" {
			continue
		}
		lines = append(lines, "## "+key.Label(), text, "")
	}

	for _, section := range customs {
		heading := headingText(section.Title)
		content := strings.TrimSpace(section.Content)
		if heading == "" && content == "" {
			continue
		}
		if heading == "" {
			heading = compiledUntitledSection
		}
		lines = append(lines, "## "+heading)
		if content != "" {
			lines = append(lines, content)
		}
		lines = append(lines, "")
	}

	return strings.TrimRight(strings.Join(lines, "\n"), " \t\r\n")
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// headingText keeps a heading on one line.
func headingText(s string) string {
	return strings.TrimSpace(lineBreaks.Replace(s))
}
