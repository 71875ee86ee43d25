package storage

import (
	"context"
	"fmt"
)

// PurgeResult reports how many rows the player purge removed per table.
type PurgeResult struct {
	Choices int64
	Logs    int64
	Players int64
}

// PurgePlayerData deletes all player accounts together with their
// reservations and the per-week history mirror. Reference data (raids,
// bosses, classes, loot) and the audit trail are untouched. Runs as a
// single transaction so a partial purge never survives.
func PurgePlayerData(ctx context.Context, db SQLDB) (PurgeResult, error) {
	var result PurgeResult
	err := RunInTx(ctx, db, func(q Querier) error {
		// Children first; player rows are referenced by both tables.
		res, err := q.ExecContext(ctx, "DELETE FROM sr_log")
		if err != nil {
			return fmt.Errorf("purge sr_log: %w", err)
		}
		result.Logs, _ = res.RowsAffected()

		res, err = q.ExecContext(ctx, "DELETE FROM sr_choice")
		if err != nil {
			return fmt.Errorf("purge sr_choice: %w", err)
		}
		result.Choices, _ = res.RowsAffected()

		res, err = q.ExecContext(ctx, "DELETE FROM player")
		if err != nil {
			return fmt.Errorf("purge player: %w", err)
		}
		result.Players, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return PurgeResult{}, err
	}
	return result, nil
}
