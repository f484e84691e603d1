package postgres

import (
	"context"
	"fmt"
)

func (c *Client) DeleteWorld(ctx context.Context, world string) (int64, error) {
	tag, err := c.pool.Exec(ctx,
		"DELETE FROM entities WHERE lower(world) = lower($1)", world,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting world entities: %w", err)
	}
	return tag.RowsAffected(), nil
}
