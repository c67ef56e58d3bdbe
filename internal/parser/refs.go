package parser

import (
	"path/filepath"
	"regexp"

	"github.com/starford/adrgraph/internal/models"
)

// DefaultMarker is the reference prefix used by ADR corpora.
const DefaultMarker = "ADR"

// Matcher recognises "<marker>-<digits>" references.
type Matcher struct {
	marker string
	re     *regexp.Regexp
}

// NewMatcher returns a Matcher for the given marker. An empty marker
// selects DefaultMarker.
func NewMatcher(marker string) *Matcher {
	if marker == "" {
		marker = DefaultMarker
	}
	return &Matcher{
		marker: marker,
		re:     regexp.MustCompile(regexp.QuoteMeta(marker) + `-(\d+)`),
	}
}

// Marker returns the reference prefix.
func (m *Matcher) Marker() string {
	return m.marker
}

// Refs returns every identifier referenced in s, in order of appearance.
func (m *Matcher) Refs(s string) []models.ID {
	matches := m.re.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]models.ID, 0, len(matches))
	for _, match := range matches {
		out = append(out, models.ID(match[1]))
	}
	return out
}

// FromFilename extracts the identifier from the base name of path.
func (m *Matcher) FromFilename(path string) (models.ID, bool) {
	match := m.re.FindStringSubmatch(filepath.Base(path))
	if match == nil {
		return "", false
	}
	return models.ID(match[1]), true
}

// Label formats id for display, e.g. "ADR-0001".
func (m *Matcher) Label(id models.ID) string {
	return m.marker + "-" + string(id)
}
