package index

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/adrgraph/internal/validator"
)

// Sync runs v and replaces the stored snapshot with the result. Documents
// whose checksum differs from the previous snapshot are logged as changed.
func Sync(ctx context.Context, db SnapshotStore, v *validator.Validator, logger *slog.Logger) (*validator.Result, error) {
	res, err := v.Run(ctx)
	if err != nil {
		return nil, err
	}

	previous, err := db.AllChecksums()
	if err != nil {
		return nil, err
	}

	changed := 0
	current := make(map[string]struct{}, len(res.Report.Documents))
	for _, d := range res.Report.Documents {
		current[d.Path] = struct{}{}
		if previous[d.Path] != d.Checksum {
			changed++
			logger.Debug("sync: changed", slog.String("path", d.Path))
		}
	}
	removed := 0
	for p := range previous {
		if _, ok := current[p]; !ok {
			removed++
			logger.Debug("sync: removed", slog.String("path", p))
		}
	}

	if err := db.ReplaceSnapshot(res.Report, res.Graph); err != nil {
		return nil, fmt.Errorf("index: sync: %w", err)
	}

	logger.Info("sync: snapshot stored",
		slog.Int("documents", len(res.Report.Documents)),
		slog.Int("changed", changed),
		slog.Int("removed", removed),
		slog.String("verdict", string(res.Report.Verdict)))
	return res, nil
}
