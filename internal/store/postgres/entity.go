package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"campaignsmith/internal/store"
)

func (c *Client) UpsertEntity(ctx context.Context, e store.EntityInput) error {
	nameNormalized := strings.ToLower(e.Name)

	propsJSON, err := json.Marshal(e.Properties)
	if err != nil {
		return fmt.Errorf("marshaling properties: %w", err)
	}

	tags := e.Tags
	if len(tags) == 0 {
		tags = nil
	}

	query := `
INSERT INTO entities (name, name_normalized, entity_type, world, tags, properties, description, is_placeholder, created_at, search_vector)
VALUES ($1, $2, $3, $4, COALESCE($5, '{}'::text[]), $6, $7, FALSE, now(),
    setweight(to_tsvector('simple', coalesce($1, '')), 'A') ||
    setweight(to_tsvector('english', coalesce(array_to_string(COALESCE($5, '{}'::text[]), ' '), '')), 'B') ||
    setweight(to_tsvector('english', coalesce($7, '')), 'C')
)
ON CONFLICT (name_normalized, world) DO UPDATE SET
    name = EXCLUDED.name,
    entity_type = EXCLUDED.entity_type,
    tags = EXCLUDED.tags,
    properties = EXCLUDED.properties,
    description = EXCLUDED.description,
    is_placeholder = FALSE,
    search_vector = EXCLUDED.search_vector
`

	_, err = c.pool.Exec(ctx, query,
		e.Name,
		nameNormalized,
		e.EntityType,
		e.World,
		tags,
		propsJSON,
		e.Description,
	)
	if err != nil {
		return fmt.Errorf("upserting entity: %w", err)
	}
	return nil
}

// GetEntity looks an entity up by name. Names are only unique per world, so
// an empty world matches any world and fails when that leaves the lookup
// ambiguous.
func (c *Client) GetEntity(ctx context.Context, name, entityType, world string) (*store.Entity, error) {
	nameNormalized := strings.ToLower(name)

	query := `
SELECT id, name, entity_type, world, tags, properties, description
FROM entities
WHERE name_normalized = $1
  AND ($2 = '' OR entity_type = $2)
  AND ($3 = '' OR lower(world) = lower($3))
  AND is_placeholder = FALSE
`

	rows, err := c.pool.Query(ctx, query, nameNormalized, entityType, world)
	if err != nil {
		return nil, fmt.Errorf("getting entity: %w", err)
	}
	defer rows.Close()

	var entities []store.Entity
	for rows.Next() {
		var e store.Entity
		var propsBytes []byte
		err := rows.Scan(
			new(int64),
			&e.Name,
			&e.EntityType,
			&e.World,
			&e.Tags,
			&propsBytes,
			&e.Description,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		if len(propsBytes) > 0 {
			if err := json.Unmarshal(propsBytes, &e.Properties); err != nil {
				return nil, fmt.Errorf("unmarshaling properties: %w", err)
			}
		}
		if e.Properties == nil {
			e.Properties = map[string]any{}
		}
		if e.Tags == nil {
			e.Tags = []string{}
		}
		entities = append(entities, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entity rows: %w", err)
	}

	if len(entities) == 0 {
		return nil, nil
	}
	if len(entities) > 1 {
		return nil, fmt.Errorf("%d entities named %q exist across worlds; specify a world", len(entities), name)
	}

	return &entities[0], nil
}

func (c *Client) ListEntities(ctx context.Context, entityType, world, tag string) ([]store.EntitySummary, error) {
	query := `
SELECT name, entity_type, world, tags
FROM entities
WHERE ($1 = '' OR entity_type = $1)
  AND ($2 = '' OR lower(world) = lower($2))
  AND ($3 = '' OR $3 = ANY(tags))
  AND is_placeholder = FALSE
ORDER BY name
`

	rows, err := c.pool.Query(ctx, query, entityType, world, tag)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	defer rows.Close()

	var summaries []store.EntitySummary
	for rows.Next() {
		var s store.EntitySummary
		err := rows.Scan(&s.Name, &s.EntityType, &s.World, &s.Tags)
		if err != nil {
			return nil, fmt.Errorf("scanning entity summary: %w", err)
		}
		if s.Tags == nil {
			s.Tags = []string{}
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entity summaries: %w", err)
	}

	if summaries == nil {
		summaries = []store.EntitySummary{}
	}

	return summaries, nil
}
