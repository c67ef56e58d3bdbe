package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInverse_Involution(t *testing.T) {
	for _, k := range Kinds {
		inv, ok := k.Inverse()
		if k == Related {
			assert.False(t, ok)
			continue
		}
		require.True(t, ok, k)
		back, _ := inv.Inverse()
		assert.Equal(t, k, back)
	}
}

func TestInversePairs_Severity(t *testing.T) {
	severity := make(map[RelationKind]Severity)
	for _, p := range InversePairs {
		severity[p.Kind] = p.Severity
	}
	assert.Equal(t, SeverityError, severity[DependsOn])
	assert.Equal(t, SeverityError, severity[SupersededBy])
	assert.Equal(t, SeverityWarning, severity[Inherits])
	assert.NotContains(t, severity, Related)
}

func TestRelationKind_IsValid(t *testing.T) {
	assert.True(t, DependsOn.IsValid())
	assert.False(t, RelationKind("blocks").IsValid())
	assert.Equal(t, "Superseded By", SupersededBy.Title())
}

func TestRecord(t *testing.T) {
	r := NewRecord("0002", "ADR-0002.md")
	assert.True(t, r.Empty())

	r.Add(DependsOn, "0010")
	r.Add(DependsOn, "0001")
	r.Add(DependsOn, "0010")
	r.Add(Related, "0002")

	assert.False(t, r.Empty())
	assert.Equal(t, []ID{"0001", "0010"}, r.Targets(DependsOn))
	assert.Equal(t, 2, r.Count(DependsOn))
	assert.True(t, r.Has(Related, "0002"))
	assert.Empty(t, r.Targets(Supersedes))
	assert.Equal(t, []RelationKind{Related}, r.SelfReferences())
}
