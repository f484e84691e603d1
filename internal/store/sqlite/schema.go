package sqlite

import (
	"context"
	"fmt"

	"campaignsmith/internal/config"
)

func (c *Client) EnsureSchema(ctx context.Context, schema *config.Schema) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS entities (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		name            TEXT NOT NULL,
		name_normalized TEXT NOT NULL,
		entity_type     TEXT NOT NULL,
		world           TEXT NOT NULL,
		tags            TEXT DEFAULT '[]',
		properties      TEXT DEFAULT '{}',
		description     TEXT DEFAULT '',
		is_placeholder  INTEGER DEFAULT 0,
		created_at      TEXT DEFAULT (datetime('now')),
		CONSTRAINT uq_entity_name_world UNIQUE (name_normalized, world)
	);

	CREATE TABLE IF NOT EXISTS edges (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		src_id       INTEGER NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
		dst_id       INTEGER NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
		rel_type     TEXT NOT NULL,
		forward_desc TEXT DEFAULT '',
		reverse_desc TEXT DEFAULT '',
		CONSTRAINT uq_edge UNIQUE (src_id, dst_id, rel_type)
	);

	CREATE INDEX IF NOT EXISTS idx_entities_world ON entities (world);
	CREATE INDEX IF NOT EXISTS idx_entities_type ON entities (entity_type);
	CREATE INDEX IF NOT EXISTS idx_entities_type_world ON entities (entity_type, world);
	CREATE INDEX IF NOT EXISTS idx_entities_name_norm ON entities (name_normalized);
	CREATE INDEX IF NOT EXISTS idx_entities_placeholder ON entities (is_placeholder) WHERE is_placeholder = 1;
	CREATE INDEX IF NOT EXISTS idx_edges_src ON edges (src_id);
	CREATE INDEX IF NOT EXISTS idx_edges_dst ON edges (dst_id);
	CREATE INDEX IF NOT EXISTS idx_edges_type ON edges (rel_type);
	CREATE INDEX IF NOT EXISTS idx_edges_src_type ON edges (src_id, rel_type);
	CREATE INDEX IF NOT EXISTS idx_edges_dst_type ON edges (dst_id, rel_type);

	CREATE VIRTUAL TABLE IF NOT EXISTS entities_fts USING fts5(
		name,
		tags,
		description,
		content=entities,
		content_rowid=id
	);

	CREATE TRIGGER IF NOT EXISTS entities_ai AFTER INSERT ON entities BEGIN
		INSERT INTO entities_fts(rowid, name, tags, description)
		VALUES (new.id, new.name, new.tags, new.description);
	END;

	CREATE TRIGGER IF NOT EXISTS entities_ad AFTER DELETE ON entities BEGIN
		INSERT INTO entities_fts(entities_fts, rowid, name, tags, description)
		VALUES ('delete', old.id, old.name, old.tags, old.description);
	END;

	CREATE TRIGGER IF NOT EXISTS entities_au AFTER UPDATE ON entities BEGIN
		INSERT INTO entities_fts(entities_fts, rowid, name, tags, description)
		VALUES ('delete', old.id, old.name, old.tags, old.description);
		INSERT INTO entities_fts(rowid, name, tags, description)
		VALUES (new.id, new.name, new.tags, new.description);
	END;
	`

	// Trigger bodies contain semicolons, so the DDL is executed as one
	// multi-statement script rather than split per statement.
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
