package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/adrgraph/internal/models"
)

func parse(t *testing.T, input string) *models.Record {
	t.Helper()
	return New(NewMatcher("ADR")).Parse("0001", "ADR-0001.md", []byte(input))
}

func TestParse_EnglishSection(t *testing.T) {
	input := `# ADR-0001: Layering

## Relationships

**Depends On**:
- ADR-0002 (module boundaries)
- ADR-0003

**Supersedes**: ADR-0009

**Related**:
* ADR-0004 and ADR-0005

## Consequences

- ADR-0099 must not be picked up
`
	rec := parse(t, input)
	assert.Equal(t, []models.ID{"0002", "0003"}, rec.Targets(models.DependsOn))
	assert.Equal(t, []models.ID{"0009"}, rec.Targets(models.Supersedes))
	assert.Equal(t, []models.ID{"0004", "0005"}, rec.Targets(models.Related))
	assert.False(t, rec.Has(models.DependsOn, "0099"))
}

func TestParse_ChineseSection(t *testing.T) {
	input := `# ADR-0005

## ADR 关系

**依赖（Depends On）**：
- [ADR-0001](ADR-0001.md)

**被依赖（Depended By）**：
- ADR-0007
- ADR-0008

**被替代（Superseded By）**：无

**继承（Inherits）**：
- ADR-0002
`
	rec := parse(t, input)
	assert.Equal(t, []models.ID{"0001"}, rec.Targets(models.DependsOn))
	assert.Equal(t, []models.ID{"0007", "0008"}, rec.Targets(models.DependedBy))
	assert.Empty(t, rec.Targets(models.SupersededBy))
	assert.Equal(t, []models.ID{"0002"}, rec.Targets(models.Inherits))
}

func TestParse_PlainTextClearsCursor(t *testing.T) {
	input := `## Relationships

**Depends On**:
- ADR-0002

This paragraph mentions ADR-0003 in passing.
- ADR-0004
`
	rec := parse(t, input)
	assert.Equal(t, []models.ID{"0002"}, rec.Targets(models.DependsOn))
}

func TestParse_BlankLinesKeepCursor(t *testing.T) {
	input := "## Relationships\n\n**Depends On**:\n\n- ADR-0002\n\n\n- ADR-0003\n"
	rec := parse(t, input)
	assert.Equal(t, []models.ID{"0002", "0003"}, rec.Targets(models.DependsOn))
}

func TestParse_ListItemWithoutCursorIgnored(t *testing.T) {
	input := "## Relationships\n\n- ADR-0002\n"
	rec := parse(t, input)
	assert.True(t, rec.Empty())
}

func TestParse_UnknownBoldLabelClearsCursor(t *testing.T) {
	input := "## Relationships\n\n**Depends On**:\n- ADR-0002\n**Notes**:\n- ADR-0003\n"
	rec := parse(t, input)
	assert.Equal(t, []models.ID{"0002"}, rec.Targets(models.DependsOn))
}

func TestParse_SectionEndsAtSameLevelHeading(t *testing.T) {
	input := "## Relationships\n**Related**:\n### Details\n- ADR-0004\n## Next\n- ADR-0005\n"
	rec := parse(t, input)
	// The deeper heading is plain text and clears the cursor.
	assert.Empty(t, rec.Targets(models.Related))
}

func TestParse_DuplicatesCollapse(t *testing.T) {
	input := "## Relationships\n**Depends On**: ADR-0002\n- ADR-0002\n- ADR-0002 again\n"
	rec := parse(t, input)
	assert.Equal(t, 1, rec.Count(models.DependsOn))
}

func TestParse_FrontmatterFallback(t *testing.T) {
	input := "---\nstatus: accepted\nsupersedes: ADR-0003\nsuperseded_by: null\n---\n# ADR-0001\n"
	rec := parse(t, input)
	assert.Equal(t, []models.ID{"0003"}, rec.Targets(models.Supersedes))
	assert.Empty(t, rec.Targets(models.SupersededBy))
}

func TestParse_FrontmatterList(t *testing.T) {
	input := "---\nsuperseded_by:\n  - ADR-0010\n  - ADR-0011\n---\nbody\n"
	rec := parse(t, input)
	assert.Equal(t, []models.ID{"0010", "0011"}, rec.Targets(models.SupersededBy))
}

func TestParse_FrontmatterInvalidYAML(t *testing.T) {
	input := "---\nsupersedes: ADR-0003\n: bad: {{{\n---\nbody\n"
	rec := parse(t, input)
	assert.Equal(t, []models.ID{"0003"}, rec.Targets(models.Supersedes))
}

func TestParse_FrontmatterIgnoredWhenSectionPresent(t *testing.T) {
	input := "---\nsupersedes: ADR-0003\n---\n## Relationships\n**Related**: ADR-0004\n"
	rec := parse(t, input)
	assert.Empty(t, rec.Targets(models.Supersedes))
	assert.Equal(t, []models.ID{"0004"}, rec.Targets(models.Related))
}

func TestParse_EmptyDocument(t *testing.T) {
	rec := parse(t, "")
	require.NotNil(t, rec)
	assert.True(t, rec.Empty())
}

func TestParse_CRLF(t *testing.T) {
	input := "## Relationships\r\n**Depends On**:\r\n- ADR-0002\r\n"
	rec := parse(t, input)
	assert.Equal(t, []models.ID{"0002"}, rec.Targets(models.DependsOn))
}

func TestParse_SelfReferenceDetectedNotRejected(t *testing.T) {
	// Documented gap: a record may name itself; it is kept and exposed
	// through SelfReferences without any finding being raised.
	input := "## Relationships\n**Related**: ADR-0001\n"
	rec := parse(t, input)
	assert.Equal(t, []models.RelationKind{models.Related}, rec.SelfReferences())
}

func TestMatcher_FromFilename(t *testing.T) {
	m := NewMatcher("X")
	id, ok := m.FromFilename("docs/adr/X-001-first.md")
	require.True(t, ok)
	assert.Equal(t, models.ID("001"), id)

	_, ok = m.FromFilename("docs/adr/README.md")
	assert.False(t, ok)

	assert.Equal(t, "X-001", m.Label(id))
}

func TestMatcher_DefaultMarker(t *testing.T) {
	m := NewMatcher("")
	assert.Equal(t, DefaultMarker, m.Marker())
	assert.Equal(t, []models.ID{"12", "7"}, m.Refs("see ADR-12, then ADR-7"))
}

func TestHeadingLevel(t *testing.T) {
	cases := map[string]int{
		"# Title":     1,
		"## Sub":      2,
		"###### Deep": 6,
		"####### Too": 0,
		"#hashtag":    0,
		"text":        0,
	}
	for line, want := range cases {
		assert.Equal(t, want, headingLevel(line), line)
	}
}

func TestIsSectionTitle(t *testing.T) {
	assert.True(t, isSectionTitle(" Relationships"))
	assert.True(t, isSectionTitle(" ADR 关系"))
	assert.True(t, isSectionTitle(" ADR关系声明"))
	assert.True(t, isSectionTitle(" 关系"))
	assert.False(t, isSectionTitle(" Context"))
}

func TestIsDecisionRecord(t *testing.T) {
	tests := []struct {
		name string
		path string
		data string
		want bool
	}{
		{"plain record", "ADR-0001-logging.md", "# ADR-0001\n", true},
		{"guide by name", "guides/ADR-0001-Guide.md", "# guide\n", false},
		{"checklist by name", "ADR-0002-checklist.md", "# list\n", false},
		{"front matter without type", "ADR-0003.md", "---\nsupersedes: ADR-0001\n---\n", true},
		{"front matter type adr overrides name", "ADR-0004-guide.md", "---\ntype: ADR\n---\n", true},
		{"companion type", "ADR-0005.md", "---\ntype: Proposal\n---\n", false},
		{"adr field", "ADR-0006.md", "---\nadr: ADR-0006\ntype: decision\n---\n", true},
		{"other type", "ADR-0007.md", "---\ntype: note\n---\n", false},
		{"empty front matter", "ADR-0008.md", "---\n---\n# body\n", true},
		{"invalid yaml", "ADR-0009.md", "---\ntype: [unclosed\n---\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDecisionRecord(tt.path, []byte(tt.data)))
		})
	}
}
