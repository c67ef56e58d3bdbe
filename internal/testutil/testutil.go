// Package testutil provides shared test helpers for setting up corpora and databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/adrgraph/internal/index"
	"github.com/starford/adrgraph/internal/storage"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "adrgraph-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestCorpus writes files (relative path → content) into a temporary
// directory and returns it together with a storage.Provider rooted there.
func TestCorpus(t *testing.T, files map[string]string) (string, storage.Provider) {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// SampleCorpus is a small consistent corpus: 0002 depends on 0001 and
// 0003 supersedes 0002, with every inverse declared.
var SampleCorpus = map[string]string{
	"ADR-0001-logging.md": `# ADR-0001: Logging

## Relationships

**Depended By**:
- ADR-0002
`,
	"ADR-0002-tracing.md": `# ADR-0002: Tracing

## Relationships

**Depends On**:
- ADR-0001

**Superseded By**:
- ADR-0003
`,
	"runtime/ADR-0003-otel.md": `# ADR-0003: OpenTelemetry

## Relationships

**Supersedes**:
- ADR-0002

**Related**:
- ADR-0001
`,
}
