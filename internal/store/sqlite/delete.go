package sqlite

import (
	"context"
	"fmt"
)

// DeleteWorld removes every entity belonging to the named world, including
// the world entity itself. Edges go with their endpoints via cascade.
func (c *Client) DeleteWorld(ctx context.Context, world string) (int64, error) {
	result, err := c.db.ExecContext(ctx,
		"DELETE FROM entities WHERE world = ? COLLATE NOCASE", world,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting world entities: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}

	return affected, nil
}
