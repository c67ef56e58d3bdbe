// Package parser extracts declared relationships from ADR Markdown content.
package parser

import (
	"strings"

	"github.com/starford/adrgraph/internal/models"
)

// Parser turns one document's text into a relationship record.
type Parser struct {
	refs *Matcher
}

// New returns a Parser that recognises references through m.
func New(m *Matcher) *Parser {
	return &Parser{refs: m}
}

// Matcher returns the reference matcher used by p.
func (p *Parser) Matcher() *Matcher {
	return p.refs
}

// Parse extracts the relationships declared in data. It never fails: a
// document without a relationship section or front matter yields an empty
// record.
func (p *Parser) Parse(id models.ID, path string, data []byte) *models.Record {
	rec := models.NewRecord(id, path)
	lines := splitLines(string(data))

	section, ok := relationshipSection(lines)
	if !ok {
		p.parseFrontmatter(rec, data)
		return rec
	}
	p.scanSection(rec, section)
	return rec
}

type lineClass int

const (
	lineBlank lineClass = iota
	lineHeading
	lineLabel
	lineItem
	lineText
)

// classify assigns a line to one scanner input class. For lineLabel the
// recognised kind is returned as well.
func classify(line string) (lineClass, models.RelationKind) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return lineBlank, ""
	}
	if headingLevel(line) > 0 {
		return lineHeading, ""
	}
	if kind, ok := matchLabel(trimmed); ok {
		return lineLabel, kind
	}
	if isListItem(trimmed) {
		return lineItem, ""
	}
	return lineText, ""
}

// scanSection walks the section lines keeping a current-kind cursor.
// Labels set the cursor, list items add to it, blank lines keep it and any
// other text clears it.
func (p *Parser) scanSection(rec *models.Record, section []string) {
	var cursor models.RelationKind
	for _, line := range section {
		class, kind := classify(line)
		switch class {
		case lineBlank:
		case lineLabel:
			cursor = kind
			p.addRefs(rec, cursor, line)
		case lineItem:
			if cursor != "" {
				p.addRefs(rec, cursor, line)
			}
		default:
			cursor = ""
		}
	}
}

func (p *Parser) addRefs(rec *models.Record, kind models.RelationKind, line string) {
	for _, ref := range p.refs.Refs(line) {
		rec.Add(kind, ref)
	}
}

// relationshipSection returns the lines between a relationship heading and
// the next heading of the same or a higher level. ok is false when there is
// no such heading or the section holds nothing but blank lines.
func relationshipSection(lines []string) ([]string, bool) {
	start, level := -1, 0
	for i, line := range lines {
		l := headingLevel(line)
		if l < 2 {
			continue
		}
		if isSectionTitle(strings.TrimLeft(line, "#")) {
			start, level = i+1, l
			break
		}
	}
	if start < 0 {
		return nil, false
	}

	end := len(lines)
	for i := start; i < len(lines); i++ {
		if l := headingLevel(lines[i]); l > 0 && l <= level {
			end = i
			break
		}
	}

	section := lines[start:end]
	for _, line := range section {
		if strings.TrimSpace(line) != "" {
			return section, true
		}
	}
	return nil, false
}

// headingLevel returns the ATX heading level of line (1-6), or 0.
func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return 0
	}
	if n < len(line) && line[n] != ' ' && line[n] != '\t' {
		return 0
	}
	return n
}

func isListItem(trimmed string) bool {
	if len(trimmed) < 2 {
		return trimmed == "-" || trimmed == "*" || trimmed == "+"
	}
	switch trimmed[0] {
	case '-', '*', '+':
		return trimmed[1] == ' ' || trimmed[1] == '\t'
	}
	return false
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}
