package parser

import (
	"sort"
	"strings"

	"github.com/starford/adrgraph/internal/models"
)

// kindLabels maps every recognised label spelling to its kind. Extend this
// table to support another language.
var kindLabels = map[string]models.RelationKind{
	"依赖":  models.DependsOn,
	"被依赖": models.DependedBy,
	"替代":  models.Supersedes,
	"被替代": models.SupersededBy,
	"相关":  models.Related,
	"继承":  models.Inherits,
	"被继承": models.InheritedBy,

	"Depends On":    models.DependsOn,
	"Depended By":   models.DependedBy,
	"Supersedes":    models.Supersedes,
	"Superseded By": models.SupersededBy,
	"Related":       models.Related,
	"Inherits":      models.Inherits,
	"Inherited By":  models.InheritedBy,
}

// sectionTitles are the heading texts that open a relationship section.
var sectionTitles = []string{"关系", "Relationships"}

// labelsByLength is kindLabels' keys, longest first, so a label never
// shadows a longer one sharing its prefix.
var labelsByLength = func() []string {
	out := make([]string, 0, len(kindLabels))
	for label := range kindLabels {
		out = append(out, label)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}()

// matchLabel reports the kind named by an emphasised label at the start of
// a trimmed line ("**Depends On**: ..." or "__依赖__").
func matchLabel(trimmed string) (models.RelationKind, bool) {
	var rest string
	switch {
	case strings.HasPrefix(trimmed, "**"):
		rest = trimmed[2:]
	case strings.HasPrefix(trimmed, "__"):
		rest = trimmed[2:]
	default:
		return "", false
	}
	for _, label := range labelsByLength {
		if strings.HasPrefix(rest, label) {
			return kindLabels[label], true
		}
	}
	return "", false
}

// isSectionTitle reports whether heading text names a relationship
// section, with or without a leading "ADR".
func isSectionTitle(text string) bool {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "ADR") {
		text = strings.TrimSpace(text[len("ADR"):])
	}
	for _, title := range sectionTitles {
		if strings.HasPrefix(text, title) {
			return true
		}
	}
	return false
}
