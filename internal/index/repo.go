package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/starford/adrgraph/internal/apperr"
	"github.com/starford/adrgraph/internal/graph"
	"github.com/starford/adrgraph/internal/models"
	"github.com/starford/adrgraph/internal/report"
)

// DocumentRow represents a row in the documents table.
type DocumentRow struct {
	ID       models.ID
	Label    string
	Path     string
	Checksum string
}

// ReplaceSnapshot discards the previous snapshot and stores rep and g
// within a single transaction.
func (db *DB) ReplaceSnapshot(rep *report.Report, g *graph.Graph) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	for _, table := range []string{"documents", "relations", "findings", "summary"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("index: clear %s: %w", table, err)
		}
	}

	// Later documents replace earlier ones with the same ID, as in the graph.
	docStmt, err := tx.Prepare(`
		INSERT INTO documents (id, label, path, checksum) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			label    = excluded.label,
			path     = excluded.path,
			checksum = excluded.checksum
	`)
	if err != nil {
		return fmt.Errorf("index: prepare document insert: %w", err)
	}
	defer docStmt.Close()
	for _, d := range rep.Documents {
		if _, err := docStmt.Exec(string(d.ID), d.Label, d.Path, d.Checksum); err != nil {
			return fmt.Errorf("index: insert document: %w", err)
		}
	}

	if g != nil {
		relStmt, err := tx.Prepare(`INSERT OR IGNORE INTO relations (source, target, kind) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare relation insert: %w", err)
		}
		defer relStmt.Close()
		for _, e := range g.Edges() {
			if _, err := relStmt.Exec(string(e.Source), string(e.Target), string(e.Kind)); err != nil {
				return fmt.Errorf("index: insert relation: %w", err)
			}
		}
	}

	findStmt, err := tx.Prepare(`
		INSERT INTO findings (seq, severity, check_name, source, kind, target, cycle, file, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("index: prepare finding insert: %w", err)
	}
	defer findStmt.Close()
	seq := 0
	for _, group := range [][]models.Finding{rep.Errors, rep.Warnings} {
		for _, f := range group {
			seq++
			cycle, _ := json.Marshal(nonNilIDs(f.Path))
			if _, err := findStmt.Exec(seq, string(f.Severity), string(f.Check), string(f.Source),
				string(f.Kind), string(f.Target), string(cycle), f.File, f.Message); err != nil {
				return fmt.Errorf("index: insert finding: %w", err)
			}
		}
	}

	summary := map[string]string{
		"root":          rep.Root,
		"marker":        rep.Marker,
		"verdict":       string(rep.Verdict),
		"error_count":   strconv.Itoa(rep.ErrorCount),
		"warning_count": strconv.Itoa(rep.WarningCount),
	}
	for k, v := range summary {
		if _, err := tx.Exec(`INSERT INTO summary (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("index: insert summary: %w", err)
		}
	}

	return tx.Commit()
}

// Documents returns every stored document ordered by ID.
func (db *DB) Documents() ([]DocumentRow, error) {
	rows, err := db.conn.Query(`SELECT id, label, path, checksum FROM documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("index: documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentRow
	for rows.Next() {
		var d DocumentRow
		var id string
		if err := rows.Scan(&id, &d.Label, &d.Path, &d.Checksum); err != nil {
			return nil, err
		}
		d.ID = models.ID(id)
		out = append(out, d)
	}
	return out, rows.Err()
}

// Relations returns the outgoing edges of source.
func (db *DB) Relations(source models.ID) ([]graph.Edge, error) {
	return db.edges(`SELECT source, target, kind FROM relations WHERE source = ? ORDER BY kind, target`, source)
}

// Referrers returns every edge that points at target, including edges
// whose target has no document.
func (db *DB) Referrers(target models.ID) ([]graph.Edge, error) {
	return db.edges(`SELECT source, target, kind FROM relations WHERE target = ? ORDER BY source, kind`, target)
}

func (db *DB) edges(query string, id models.ID) ([]graph.Edge, error) {
	rows, err := db.conn.Query(query, string(id))
	if err != nil {
		return nil, fmt.Errorf("index: edges: %w", err)
	}
	defer rows.Close()

	var out []graph.Edge
	for rows.Next() {
		var src, dst, kind string
		if err := rows.Scan(&src, &dst, &kind); err != nil {
			return nil, err
		}
		out = append(out, graph.Edge{Source: models.ID(src), Target: models.ID(dst), Kind: models.RelationKind(kind)})
	}
	return out, rows.Err()
}

// Findings returns stored findings, errors first, in report order.
func (db *DB) Findings() ([]models.Finding, error) {
	rows, err := db.conn.Query(`
		SELECT severity, check_name, source, kind, target, cycle, file, message
		FROM findings ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("index: findings: %w", err)
	}
	defer rows.Close()

	var out []models.Finding
	for rows.Next() {
		var severity, check, source, kind, target, cycle string
		var f models.Finding
		if err := rows.Scan(&severity, &check, &source, &kind, &target, &cycle, &f.File, &f.Message); err != nil {
			return nil, err
		}
		f.Severity = models.Severity(severity)
		f.Check = models.Check(check)
		f.Source = models.ID(source)
		f.Kind = models.RelationKind(kind)
		f.Target = models.ID(target)
		_ = json.Unmarshal([]byte(cycle), &f.Path)
		if len(f.Path) == 0 {
			f.Path = nil
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Verdict returns the verdict of the stored snapshot.
func (db *DB) Verdict() (report.Verdict, error) {
	var v string
	err := db.conn.QueryRow(`SELECT value FROM summary WHERE key = 'verdict'`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("index: verdict: %w", err)
	}
	return report.Verdict(v), nil
}

// AllChecksums returns path → checksum for every stored document.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

func nonNilIDs(ids []models.ID) []models.ID {
	if ids == nil {
		return []models.ID{}
	}
	return ids
}
