package index

import (
	"github.com/starford/adrgraph/internal/graph"
	"github.com/starford/adrgraph/internal/models"
	"github.com/starford/adrgraph/internal/report"
)

// SnapshotStore persists the outcome of validation runs.
// Consumers should depend on this interface rather than the concrete *DB type.
type SnapshotStore interface {
	ReplaceSnapshot(rep *report.Report, g *graph.Graph) error
	Documents() ([]DocumentRow, error)
	Relations(source models.ID) ([]graph.Edge, error)
	Referrers(target models.ID) ([]graph.Edge, error)
	Findings() ([]models.Finding, error)
	Verdict() (report.Verdict, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies SnapshotStore at compile time.
var _ SnapshotStore = (*DB)(nil)
