package ingest

import (
	"context"
	"fmt"
	"os"

	"censorcheck/internal/logging"
	"censorcheck/internal/snapshot"
	"censorcheck/internal/store/sqlite"
)

// ImportFile decodes a capture file and stores it as a search run.
func ImportFile(ctx context.Context, db *sqlite.DB, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	run, err := snapshot.Decode(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	id, err := db.PutSearchRun(ctx, run)
	if err != nil {
		return 0, fmt.Errorf("store run: %w", err)
	}
	logging.Info("import_ok", map[string]any{
		"run_id":  id,
		"handle":  run.InitiatingUser.Handle,
		"tweets":  run.Timeline.Len(),
		"replies": len(run.OriginalReplyIDs()),
	})
	return id, nil
}
