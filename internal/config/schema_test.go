package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSchema(t *testing.T) {
	t.Run("valid schema loads", func(t *testing.T) {
		path := writeTempSchema(t, `
version: 1
entity_types:
  - name: world
    max_reply_tokens: 500
  - name: character
    properties:
      - name: description
        type: text
        required: true
relationship_types:
  - name: RELATES_TO
    symmetric: true
  - name: RULES
    inverse: RULED_BY
  - name: RULED_BY
    inverse: RULES
`)
		schema, err := LoadSchema(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !schema.IsValidEntityType("World") {
			t.Fatalf("expected case-insensitive entity type lookup")
		}
		rel, ok := schema.RelationshipTypeByName("relates_to")
		if !ok || !rel.Symmetric {
			t.Fatalf("expected symmetric RELATES_TO, got %+v", rel)
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		path := writeTempSchema(t, "version: 2\nentity_types:\n  - name: world\n")
		if _, err := LoadSchema(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("no entity types", func(t *testing.T) {
		path := writeTempSchema(t, "version: 1\n")
		if _, err := LoadSchema(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("duplicate entity type", func(t *testing.T) {
		path := writeTempSchema(t, "version: 1\nentity_types:\n  - name: world\n  - name: World\n")
		if _, err := LoadSchema(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("enum without values", func(t *testing.T) {
		path := writeTempSchema(t, `
version: 1
entity_types:
  - name: item
    properties:
      - name: size
        type: enum
`)
		if _, err := LoadSchema(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown inverse", func(t *testing.T) {
		path := writeTempSchema(t, `
version: 1
entity_types:
  - name: world
relationship_types:
  - name: RULES
    inverse: RULED_BY
`)
		if _, err := LoadSchema(path); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestDefaultSchema(t *testing.T) {
	schema := DefaultSchema()
	for _, name := range []string{"world", "location", "character", "item"} {
		if !schema.IsValidEntityType(name) {
			t.Fatalf("expected default schema to include %q", name)
		}
	}
	if !schema.IsValidRelationshipType("RELATES_TO") {
		t.Fatalf("expected RELATES_TO relationship type")
	}
	world, _ := schema.EntityTypeByName("world")
	if world.MaxReplyTokens != 500 {
		t.Fatalf("expected world reply budget of 500, got %d", world.MaxReplyTokens)
	}
}

func writeTempSchema(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp schema: %v", err)
	}
	return path
}
