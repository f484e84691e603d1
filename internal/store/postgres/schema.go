package postgres

import (
	"context"
	"fmt"

	"campaignsmith/internal/config"
)

func (c *Client) EnsureSchema(ctx context.Context, schema *config.Schema) error {
	// All DDL runs in a single call inside PostgreSQL's implicit transaction,
	// and "IF NOT EXISTS" keeps it idempotent. If the schema ever needs a
	// destructive migration, switch to a migration tool with a version table.
	ddl := `
CREATE TABLE IF NOT EXISTS entities (
    id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    name            TEXT NOT NULL,
    name_normalized TEXT NOT NULL,
    entity_type     TEXT NOT NULL,
    world           TEXT NOT NULL,
    tags            TEXT[] DEFAULT '{}',
    properties      JSONB DEFAULT '{}',
    description     TEXT DEFAULT '',
    is_placeholder  BOOLEAN DEFAULT FALSE,
    created_at      TIMESTAMPTZ DEFAULT now(),
    CONSTRAINT uq_entity_name_world UNIQUE (name_normalized, world)
);

ALTER TABLE entities ADD COLUMN IF NOT EXISTS search_vector TSVECTOR;

CREATE TABLE IF NOT EXISTS edges (
    id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    src_id       BIGINT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
    dst_id       BIGINT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
    rel_type     TEXT NOT NULL,
    forward_desc TEXT DEFAULT '',
    reverse_desc TEXT DEFAULT '',
    CONSTRAINT uq_edge UNIQUE (src_id, dst_id, rel_type)
);

CREATE INDEX IF NOT EXISTS idx_entities_search ON entities USING GIN (search_vector);
CREATE INDEX IF NOT EXISTS idx_entities_world ON entities (world);
CREATE INDEX IF NOT EXISTS idx_entities_type ON entities (entity_type);
CREATE INDEX IF NOT EXISTS idx_entities_type_world ON entities (entity_type, world);
CREATE INDEX IF NOT EXISTS idx_entities_name_norm ON entities (name_normalized);
CREATE INDEX IF NOT EXISTS idx_entities_placeholder ON entities (is_placeholder) WHERE is_placeholder = TRUE;
CREATE INDEX IF NOT EXISTS idx_entities_tags ON entities USING GIN (tags);
CREATE INDEX IF NOT EXISTS idx_edges_src ON edges (src_id);
CREATE INDEX IF NOT EXISTS idx_edges_dst ON edges (dst_id);
CREATE INDEX IF NOT EXISTS idx_edges_type ON edges (rel_type);
CREATE INDEX IF NOT EXISTS idx_edges_src_type ON edges (src_id, rel_type);
CREATE INDEX IF NOT EXISTS idx_edges_dst_type ON edges (dst_id, rel_type);
`
	_, err := c.pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
