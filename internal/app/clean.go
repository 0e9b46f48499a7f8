package app

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Clean removes snapshots older than the retention window. When a database is
// configured the matching alert rows are pruned as well.
func (a *App) Clean(ctx context.Context, opts CleanOptions) error {
	retention := a.Config.Storage.RetentionDays
	if opts.RetentionDays > 0 {
		retention = opts.RetentionDays
	}
	if retention <= 0 {
		return fmt.Errorf("retention must be positive, got %d days", retention)
	}

	snapshots, err := a.newSnapshotStore()
	if err != nil {
		return err
	}

	removed, err := snapshots.CleanOldSnapshots(retention)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "removed %d snapshot file(s) older than %d days\n", removed, retention)

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return nil
	}
	defer closeStore()

	cutoff := time.Now().AddDate(0, 0, -retention)
	pruned, err := store.DeleteAlertsBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "removed %d alert row(s) older than %d days\n", pruned, retention)
	return nil
}
