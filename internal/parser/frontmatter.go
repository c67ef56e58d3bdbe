package parser

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/adrgraph/internal/models"
)

// frontmatterFields lists the only front-matter keys read for relations.
var frontmatterFields = map[string]models.RelationKind{
	"supersedes":    models.Supersedes,
	"superseded_by": models.SupersededBy,
	"superseded-by": models.SupersededBy,
}

// parseFrontmatter reads supersedes/superseded_by from a leading YAML
// block. Values may be scalars or lists; null and empty mean no relation.
func (p *Parser) parseFrontmatter(rec *models.Record, data []byte) {
	block, ok := splitFrontmatter(data)
	if !ok {
		return
	}

	var fm map[string]any
	if err := yaml.Unmarshal(block, &fm); err != nil {
		// Invalid YAML: fall back to reading the two fields line by line.
		p.scanFrontmatterLines(rec, block)
		return
	}
	for key, kind := range frontmatterFields {
		for _, value := range scalarValues(fm[key]) {
			p.addRefs(rec, kind, value)
		}
	}
}

func (p *Parser) scanFrontmatterLines(rec *models.Record, block []byte) {
	for _, line := range splitLines(string(block)) {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		kind, ok := frontmatterFields[strings.TrimSpace(key)]
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" || value == "null" {
			continue
		}
		p.addRefs(rec, kind, value)
	}
}

// splitFrontmatter returns the YAML between leading --- delimiters.
func splitFrontmatter(data []byte) ([]byte, bool) {
	const delim = "---"
	trimmed := bytes.ReplaceAll(bytes.TrimLeft(data, "\n\r"), []byte("\r\n"), []byte("\n"))

	if !bytes.HasPrefix(trimmed, []byte(delim+"\n")) {
		return nil, false
	}

	rest := trimmed[len(delim)+1:]
	if bytes.HasPrefix(rest, []byte(delim)) {
		return nil, true
	}
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, false
	}
	return rest[:idx], true
}

func scalarValues(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		if v == "" || v == "null" {
			return nil
		}
		return []string{v}
	case []any:
		var out []string
		for _, item := range v {
			out = append(out, scalarValues(item)...)
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}
