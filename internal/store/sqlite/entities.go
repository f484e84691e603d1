package sqlite

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

	tagsJSON, err := json.Marshal(e.Tags)
	if err != nil {
		return fmt.Errorf("marshaling tags: %w", err)
	}

	query := `
	INSERT INTO entities (name, name_normalized, entity_type, world, tags, properties, description, is_placeholder, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, 0, datetime('now'))
	ON CONFLICT (name_normalized, world) DO UPDATE SET
		name = excluded.name,
		entity_type = excluded.entity_type,
		tags = excluded.tags,
		properties = excluded.properties,
		description = excluded.description,
		is_placeholder = 0
	`

	_, err = c.db.ExecContext(ctx, query,
		e.Name,
		nameNormalized,
		e.EntityType,
		e.World,
		tagsJSON,
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
	WHERE name_normalized = ?
	  AND (? = '' OR entity_type = ?)
	  AND (? = '' OR world = ? COLLATE NOCASE)
	  AND is_placeholder = 0
	`

	rows, err := c.db.QueryContext(ctx, query, nameNormalized, entityType, entityType, world, world)
	if err != nil {
		return nil, fmt.Errorf("getting entity: %w", err)
	}
	defer rows.Close()

	var entities []store.Entity
	for rows.Next() {
		var e store.Entity
		var propsBytes []byte
		var tagsBytes []byte
		err := rows.Scan(
			new(int64),
			&e.Name,
			&e.EntityType,
			&e.World,
			&tagsBytes,
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
		if len(tagsBytes) > 0 {
			if err := json.Unmarshal(tagsBytes, &e.Tags); err != nil {
				return nil, fmt.Errorf("unmarshaling tags: %w", err)
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
	WHERE (? = '' OR entity_type = ?)
	  AND (? = '' OR world = ? COLLATE NOCASE)
	  AND is_placeholder = 0
	ORDER BY name
	`

	rows, err := c.db.QueryContext(ctx, query, entityType, entityType, world, world)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	defer rows.Close()

	var summaries []store.EntitySummary
	for rows.Next() {
		var s store.EntitySummary
		var tagsBytes []byte
		err := rows.Scan(&s.Name, &s.EntityType, &s.World, &tagsBytes)
		if err != nil {
			return nil, fmt.Errorf("scanning entity summary: %w", err)
		}
		if len(tagsBytes) > 0 {
			if err := json.Unmarshal(tagsBytes, &s.Tags); err != nil {
				return nil, fmt.Errorf("unmarshaling tags: %w", err)
			}
		}
		if s.Tags == nil {
			s.Tags = []string{}
		}

		if tag != "" && !containsTag(s.Tags, tag) {
			continue
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

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
