package parser

import (
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// companionTypes are front-matter types of documents kept next to decision
// records that are not records themselves.
var companionTypes = map[string]bool{
	"checklist": true,
	"guide":     true,
	"template":  true,
	"proposal":  true,
}

// companionNameHints mark companion documents that carry no front matter.
var companionNameHints = []string{"checklist", "guide"}

type docHeader struct {
	Type string `yaml:"type"`
	ADR  any    `yaml:"adr"`
}

// IsDecisionRecord reports whether the document at rel is a decision record
// rather than a companion (guide, checklist, template, proposal).
//
// With front matter, an explicit companion type excludes the document, an
// "adr" field includes it, and otherwise only type "adr" or no type is
// accepted. Without front matter, file names mentioning a checklist or a
// guide are excluded.
func IsDecisionRecord(rel string, data []byte) bool {
	block, ok := splitFrontmatter(data)
	if !ok {
		name := strings.ToLower(path.Base(rel))
		for _, hint := range companionNameHints {
			if strings.Contains(name, hint) {
				return false
			}
		}
		return true
	}

	var h docHeader
	if err := yaml.Unmarshal(block, &h); err != nil {
		return true
	}
	typ := strings.ToLower(strings.TrimSpace(h.Type))
	if companionTypes[typ] {
		return false
	}
	if h.ADR != nil && h.ADR != "" {
		return true
	}
	return typ == "" || typ == "adr"
}
