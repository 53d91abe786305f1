package analytics

import (
	"context"
	"fmt"
	"strings"
)

// quotePath embeds a filesystem path in a SQL string literal. COPY and
// read_parquet take the path as a literal, not a bind parameter.
func quotePath(path string) string {
	return "'" + strings.ReplaceAll(path, "'", "''") + "'"
}

// ExportParquet writes the engagements table to a parquet file.
func (e *Engine) ExportParquet(ctx context.Context, path string) error {
	query := fmt.Sprintf("COPY engagements TO %s (FORMAT PARQUET)", quotePath(path))
	if _, err := e.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("parquet export failed: %w", err)
	}
	return nil
}

// ImportParquet loads engagement rows from a parquet file. Rows whose
// engagement_id already exists are skipped, matching live ingestion.
func (e *Engine) ImportParquet(ctx context.Context, path string) (int, error) {
	query := fmt.Sprintf(
		"INSERT OR IGNORE INTO engagements SELECT * FROM read_parquet(%s)",
		quotePath(path))
	res, err := e.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("parquet import failed: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(count), nil
}
