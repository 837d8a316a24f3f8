package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CommandCursor returns the highest inbound message identifier already
// processed, or zero when no commands have been seen.
func (s *Store) CommandCursor(ctx context.Context) (int64, error) {
	var cursor int64
	row := s.db.QueryRowContext(ctx, `SELECT last_update_id FROM command_cursor WHERE id = 1`)
	err := row.Scan(&cursor)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read command cursor: %w", err)
	}
	return cursor, nil
}

// SetCommandCursor advances the persisted cursor. The cursor is monotonic:
// attempts to move it backwards are ignored.
func (s *Store) SetCommandCursor(ctx context.Context, cursor int64) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO command_cursor (id, last_update_id) VALUES (1, ?)
         ON CONFLICT (id) DO UPDATE SET last_update_id = excluded.last_update_id
         WHERE excluded.last_update_id > command_cursor.last_update_id`,
		cursor,
	)
	if err != nil {
		return fmt.Errorf("set command cursor: %w", err)
	}
	return nil
}
