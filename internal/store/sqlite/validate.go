package sqlite

import (
	"context"
	"encoding/json"

	"campaignsmith/internal/store"
)

func (c *Client) ListDanglingPlaceholders(ctx context.Context) ([]store.EntitySummary, error) {
	query := `SELECT name, entity_type, world, tags FROM entities WHERE is_placeholder = 1`
	return c.listSummaries(ctx, query)
}

// ListOrphanedEntities reports non-placeholder entities with no edges at all.
// World entities are exempt since a fresh world legitimately has no edges of
// its own until locations are attached.
func (c *Client) ListOrphanedEntities(ctx context.Context) ([]store.EntitySummary, error) {
	query := `
	SELECT e.name, e.entity_type, e.world, e.tags FROM entities e
	WHERE NOT EXISTS (SELECT 1 FROM edges WHERE src_id = e.id OR dst_id = e.id)
	  AND e.is_placeholder = 0
	  AND e.entity_type <> 'world'
	`
	return c.listSummaries(ctx, query)
}

func (c *Client) listSummaries(ctx context.Context, query string, args ...any) ([]store.EntitySummary, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []store.EntitySummary
	for rows.Next() {
		var s store.EntitySummary
		var tagsBytes []byte
		if err := rows.Scan(&s.Name, &s.EntityType, &s.World, &tagsBytes); err != nil {
			return nil, err
		}
		if len(tagsBytes) > 0 {
			if err := json.Unmarshal(tagsBytes, &s.Tags); err != nil {
				return nil, err
			}
		}
		if s.Tags == nil {
			s.Tags = []string{}
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if summaries == nil {
		summaries = []store.EntitySummary{}
	}
	return summaries, nil
}
