package check

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/adrgraph/internal/graph"
	"github.com/starford/adrgraph/internal/models"
)

type edge struct {
	from models.ID
	kind models.RelationKind
	to   models.ID
}

// build creates a graph containing ids plus the given edges.
func build(ids []models.ID, edges ...edge) *graph.Graph {
	recs := make(map[models.ID]*models.Record, len(ids))
	var ordered []*models.Record
	for _, id := range ids {
		r := models.NewRecord(id, "")
		recs[id] = r
		ordered = append(ordered, r)
	}
	for _, e := range edges {
		recs[e.from].Add(e.kind, e.to)
	}
	return graph.New(ordered)
}

func xLabel(id models.ID) string { return "X-" + string(id) }

func TestConsistency_MissingInverseIsError(t *testing.T) {
	g := build([]models.ID{"001", "002", "003"}, edge{"001", models.DependsOn, "002"})

	got := Consistency(g, xLabel)
	require.Len(t, got, 1)
	f := got[0]
	assert.Equal(t, models.SeverityError, f.Severity)
	assert.Equal(t, models.CheckConsistency, f.Check)
	assert.Equal(t, models.ID("001"), f.Source)
	assert.Equal(t, models.DependsOn, f.Kind)
	assert.Equal(t, models.ID("002"), f.Target)
	assert.Equal(t, "X-001 depends on X-002 but X-002 does not declare being depended on by X-001", f.Message)
}

func TestConsistency_MirroredPairsAreSilent(t *testing.T) {
	g := build([]models.ID{"001", "002"},
		edge{"001", models.DependsOn, "002"},
		edge{"002", models.DependedBy, "001"},
		edge{"002", models.Supersedes, "001"},
		edge{"001", models.SupersededBy, "002"},
		edge{"001", models.Inherits, "002"},
		edge{"002", models.InheritedBy, "001"},
	)
	assert.Empty(t, Consistency(g, xLabel))
}

func TestConsistency_EachDirectionChecked(t *testing.T) {
	cases := []struct {
		kind     models.RelationKind
		severity models.Severity
		message  string
	}{
		{models.DependedBy, models.SeverityError, "X-001 is depended on by X-002 but X-002 does not declare depending on X-001"},
		{models.Supersedes, models.SeverityError, "X-001 supersedes X-002 but X-002 does not declare being superseded by X-001"},
		{models.SupersededBy, models.SeverityError, "X-001 is superseded by X-002 but X-002 does not declare superseding X-001"},
		{models.Inherits, models.SeverityWarning, "X-001 inherits X-002 but X-002 does not declare being inherited by X-001"},
		{models.InheritedBy, models.SeverityWarning, "X-001 is inherited by X-002 but X-002 does not declare inheriting X-001"},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			g := build([]models.ID{"001", "002"}, edge{"001", tc.kind, "002"})
			got := Consistency(g, xLabel)
			require.Len(t, got, 1)
			assert.Equal(t, tc.severity, got[0].Severity)
			assert.Equal(t, tc.message, got[0].Message)
		})
	}
}

func TestConsistency_RelatedNotEnforced(t *testing.T) {
	g := build([]models.ID{"001", "002"}, edge{"001", models.Related, "002"})
	assert.Empty(t, Consistency(g, xLabel))
}

func TestConsistency_AbsentTargetLeftToOrphans(t *testing.T) {
	g := build([]models.ID{"010"}, edge{"010", models.Supersedes, "999"})
	assert.Empty(t, Consistency(g, xLabel))
}

func TestConsistency_ExactlyOnePerEdge(t *testing.T) {
	// Both endpoints declare something, but neither mirrors the other.
	g := build([]models.ID{"001", "002"},
		edge{"001", models.DependsOn, "002"},
		edge{"002", models.DependsOn, "001"},
	)
	got := Consistency(g, xLabel)
	require.Len(t, got, 2)
	assert.Equal(t, models.ID("001"), got[0].Source)
	assert.Equal(t, models.ID("002"), got[1].Source)
}

func TestCycles_Triangle(t *testing.T) {
	g := build([]models.ID{"A", "B", "C"},
		edge{"A", models.DependsOn, "B"},
		edge{"B", models.DependsOn, "C"},
		edge{"C", models.DependsOn, "A"},
	)

	got := Cycles(g, xLabel, false)
	require.Len(t, got, 3, "one report per start node")
	assert.Equal(t, []models.ID{"A", "B", "C", "A"}, got[0].Path)
	assert.Equal(t, []models.ID{"B", "C", "A", "B"}, got[1].Path)
	assert.Equal(t, "dependency cycle detected: X-A → X-B → X-C → X-A", got[0].Message)
	for _, f := range got {
		assert.Equal(t, models.SeverityWarning, f.Severity)
	}
}

func TestCycles_Dedupe(t *testing.T) {
	g := build([]models.ID{"A", "B", "C"},
		edge{"C", models.DependsOn, "A"},
		edge{"A", models.DependsOn, "B"},
		edge{"B", models.DependsOn, "C"},
	)
	got := Cycles(g, xLabel, true)
	require.Len(t, got, 1)
	assert.Equal(t, []models.ID{"A", "B", "C", "A"}, got[0].Path)
}

func TestCycles_DiamondIsNotACycle(t *testing.T) {
	g := build([]models.ID{"A", "B", "C", "D"},
		edge{"A", models.DependsOn, "B"},
		edge{"A", models.DependsOn, "C"},
		edge{"B", models.DependsOn, "D"},
		edge{"C", models.DependsOn, "D"},
	)
	assert.Empty(t, Cycles(g, xLabel, false))
}

func TestCycles_SelfLoop(t *testing.T) {
	g := build([]models.ID{"A"}, edge{"A", models.DependsOn, "A"})
	got := Cycles(g, xLabel, false)
	require.Len(t, got, 1)
	assert.Equal(t, []models.ID{"A", "A"}, got[0].Path)
}

func TestCycles_InnerCycleNotReportedForOutsideStart(t *testing.T) {
	// S leads into the B<->C loop but never returns to S.
	g := build([]models.ID{"B", "C", "S"},
		edge{"S", models.DependsOn, "B"},
		edge{"B", models.DependsOn, "C"},
		edge{"C", models.DependsOn, "B"},
	)
	got := Cycles(g, xLabel, false)
	require.Len(t, got, 2)
	assert.Equal(t, models.ID("B"), got[0].Source)
	assert.Equal(t, models.ID("C"), got[1].Source)
}

func TestCycles_OnlyDependsOnEdges(t *testing.T) {
	g := build([]models.ID{"A", "B"},
		edge{"A", models.Supersedes, "B"},
		edge{"B", models.Supersedes, "A"},
	)
	assert.Empty(t, Cycles(g, xLabel, false))
}

func TestCycles_MissingNodesIgnored(t *testing.T) {
	g := build([]models.ID{"A"}, edge{"A", models.DependsOn, "Z"})
	assert.Empty(t, Cycles(g, xLabel, false))
}

func TestOrphans_OneWarningPerMissingTarget(t *testing.T) {
	g := build([]models.ID{"010"},
		edge{"010", models.Supersedes, "999"},
		edge{"010", models.Related, "999"},
		edge{"010", models.DependsOn, "500"},
	)
	got := Orphans(g, xLabel)
	require.Len(t, got, 2)

	assert.Equal(t, models.ID("500"), got[0].Target)
	assert.Equal(t, models.ID("999"), got[1].Target)
	assert.Equal(t, []models.RelationKind{models.Supersedes, models.Related}, got[1].Kinds)
	assert.Equal(t, "X-010 references missing X-999 (supersedes, related)", got[1].Message)
	assert.Equal(t, models.SeverityWarning, got[1].Severity)
}

func TestOrphans_AnyKind(t *testing.T) {
	for _, kind := range models.Kinds {
		g := build([]models.ID{"A"}, edge{"A", kind, "Z"})
		got := Orphans(g, xLabel)
		require.Len(t, got, 1, kind)
		assert.Equal(t, models.ID("A"), got[0].Source)
		assert.Equal(t, models.ID("Z"), got[0].Target)
	}
}

func TestRun(t *testing.T) {
	g := build([]models.ID{"001", "002"},
		edge{"001", models.DependsOn, "002"},
		edge{"002", models.DependsOn, "001"},
		edge{"002", models.Related, "404"},
	)
	res, err := Run(context.Background(), g, Options{Label: xLabel})
	require.NoError(t, err)
	assert.Len(t, res.Consistency, 2)
	assert.Len(t, res.Cycles, 2)
	assert.Len(t, res.Orphans, 1)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, build(nil), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
