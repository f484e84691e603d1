package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"campaignsmith/internal/config"
	"campaignsmith/internal/store"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	ctx := context.Background()
	dsn := "sqlite://" + filepath.Join(t.TempDir(), "test.db")

	c, err := New(ctx, dsn)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { c.Close(ctx) })

	if err := c.EnsureSchema(ctx, config.DefaultSchema()); err != nil {
		t.Fatalf("ensuring schema: %v", err)
	}
	return c
}

func TestEntityRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	in := store.EntityInput{
		Name:        "The Gilded Flagon",
		EntityType:  "location",
		World:       "Eldoria",
		Tags:        []string{"tavern"},
		Properties:  map[string]any{"mood": "rowdy"},
		Description: "A tavern where mercenaries trade rumors over spiced ale.",
	}
	if err := c.UpsertEntity(ctx, in); err != nil {
		t.Fatalf("upserting entity: %v", err)
	}

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		e, err := c.GetEntity(ctx, "the gilded flagon", "", "")
		if err != nil {
			t.Fatalf("getting entity: %v", err)
		}
		if e == nil {
			t.Fatal("expected entity, got nil")
		}
		if e.Name != "The Gilded Flagon" {
			t.Errorf("name = %q, want original casing", e.Name)
		}
		if e.Description != in.Description {
			t.Errorf("description = %q, want %q", e.Description, in.Description)
		}
	})

	t.Run("type filter excludes mismatches", func(t *testing.T) {
		e, err := c.GetEntity(ctx, "The Gilded Flagon", "character", "")
		if err != nil {
			t.Fatalf("getting entity: %v", err)
		}
		if e != nil {
			t.Errorf("expected nil for wrong type, got %q", e.Name)
		}
	})

	t.Run("upsert overwrites in place", func(t *testing.T) {
		in.Description = "Burned down last winter."
		if err := c.UpsertEntity(ctx, in); err != nil {
			t.Fatalf("re-upserting entity: %v", err)
		}
		e, err := c.GetEntity(ctx, "The Gilded Flagon", "location", "")
		if err != nil {
			t.Fatalf("getting entity: %v", err)
		}
		if e == nil || e.Description != "Burned down last winter." {
			t.Errorf("expected updated description, got %+v", e)
		}
	})
}

func TestGetEntitySharedNameAcrossWorlds(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	for _, e := range []store.EntityInput{
		{Name: "Mira", EntityType: "character", World: "Eldoria", Description: "A priestess of the tide."},
		{Name: "Mira", EntityType: "character", World: "Duskmoor", Description: "A smuggler queen."},
	} {
		if err := c.UpsertEntity(ctx, e); err != nil {
			t.Fatalf("seeding %s in %s: %v", e.Name, e.World, err)
		}
	}

	t.Run("world filter picks the right one", func(t *testing.T) {
		e, err := c.GetEntity(ctx, "Mira", "character", "duskmoor")
		if err != nil {
			t.Fatalf("getting entity: %v", err)
		}
		if e == nil || e.World != "Duskmoor" {
			t.Fatalf("expected the Duskmoor Mira, got %+v", e)
		}
		if e.Description != "A smuggler queen." {
			t.Errorf("description = %q", e.Description)
		}
	})

	t.Run("unscoped lookup reports the ambiguity", func(t *testing.T) {
		_, err := c.GetEntity(ctx, "Mira", "character", "")
		if err == nil {
			t.Fatal("expected error for ambiguous name")
		}
		if !strings.Contains(err.Error(), "specify a world") {
			t.Errorf("error = %v, want a hint to scope by world", err)
		}
	})

	t.Run("wrong world finds nothing", func(t *testing.T) {
		e, err := c.GetEntity(ctx, "Mira", "character", "Hollowfen")
		if err != nil {
			t.Fatalf("getting entity: %v", err)
		}
		if e != nil {
			t.Errorf("expected nil for unknown world, got %+v", e)
		}
	})
}

func TestListEntities(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	seed := []store.EntityInput{
		{Name: "Eldoria", EntityType: "world", World: "Eldoria"},
		{Name: "Mira", EntityType: "character", World: "Eldoria", Tags: []string{"hero"}},
		{Name: "Tobias", EntityType: "character", World: "Eldoria"},
		{Name: "Vex", EntityType: "character", World: "Duskmoor"},
	}
	for _, e := range seed {
		if err := c.UpsertEntity(ctx, e); err != nil {
			t.Fatalf("seeding %s: %v", e.Name, err)
		}
	}

	t.Run("filter by type and world", func(t *testing.T) {
		got, err := c.ListEntities(ctx, "character", "eldoria", "")
		if err != nil {
			t.Fatalf("listing entities: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 characters in Eldoria, got %d", len(got))
		}
		if got[0].Name != "Mira" || got[1].Name != "Tobias" {
			t.Errorf("expected alphabetical order, got %q then %q", got[0].Name, got[1].Name)
		}
	})

	t.Run("filter by tag", func(t *testing.T) {
		got, err := c.ListEntities(ctx, "", "", "hero")
		if err != nil {
			t.Fatalf("listing entities: %v", err)
		}
		if len(got) != 1 || got[0].Name != "Mira" {
			t.Errorf("expected only Mira, got %+v", got)
		}
	})
}

func TestRelationships(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	for _, e := range []store.EntityInput{
		{Name: "Mira", EntityType: "character", World: "Eldoria"},
		{Name: "Tobias", EntityType: "character", World: "Eldoria"},
	} {
		if err := c.UpsertEntity(ctx, e); err != nil {
			t.Fatalf("seeding %s: %v", e.Name, err)
		}
	}

	err := c.UpsertRelationship(ctx, store.RelationshipInput{
		FromName:           "Mira",
		ToName:             "Tobias",
		World:              "Eldoria",
		Type:               "RELATES_TO",
		ForwardDescription: "Mira trusts Tobias with her life.",
		ReverseDescription: "Tobias resents being trusted.",
	})
	if err != nil {
		t.Fatalf("upserting relationship: %v", err)
	}

	t.Run("outgoing edge carries both descriptions", func(t *testing.T) {
		rels, err := c.GetRelationships(ctx, "Mira", "", "outgoing", 1)
		if err != nil {
			t.Fatalf("getting relationships: %v", err)
		}
		if len(rels) != 1 {
			t.Fatalf("expected 1 relationship, got %d", len(rels))
		}
		r := rels[0]
		if r.From.Name != "Mira" || r.To.Name != "Tobias" {
			t.Errorf("endpoints = %q -> %q", r.From.Name, r.To.Name)
		}
		if r.ForwardDescription == "" || r.ReverseDescription == "" {
			t.Errorf("descriptions missing: %+v", r)
		}
	})

	t.Run("incoming direction flips endpoints", func(t *testing.T) {
		rels, err := c.GetRelationships(ctx, "Tobias", "", "incoming", 1)
		if err != nil {
			t.Fatalf("getting relationships: %v", err)
		}
		if len(rels) != 1 {
			t.Fatalf("expected 1 relationship, got %d", len(rels))
		}
		if rels[0].From.Name != "Tobias" || rels[0].Direction != "incoming" {
			t.Errorf("unexpected relationship: %+v", rels[0])
		}
	})

	t.Run("missing target becomes placeholder", func(t *testing.T) {
		err := c.UpsertRelationship(ctx, store.RelationshipInput{
			FromName: "Mira",
			ToName:   "The Hollow King",
			World:    "Eldoria",
			Type:     "RELATES_TO",
		})
		if err != nil {
			t.Fatalf("upserting relationship: %v", err)
		}
		placeholders, err := c.ListDanglingPlaceholders(ctx)
		if err != nil {
			t.Fatalf("listing placeholders: %v", err)
		}
		if len(placeholders) != 1 || placeholders[0].Name != "The Hollow King" {
			t.Errorf("expected placeholder for The Hollow King, got %+v", placeholders)
		}
	})

	t.Run("invalid depth rejected", func(t *testing.T) {
		if _, err := c.GetRelationships(ctx, "Mira", "", "both", 0); err == nil {
			t.Error("expected error for depth 0")
		}
	})

	t.Run("invalid rel type rejected", func(t *testing.T) {
		err := c.UpsertRelationship(ctx, store.RelationshipInput{
			FromName: "Mira", ToName: "Tobias", World: "Eldoria", Type: "lives in",
		})
		if err == nil {
			t.Error("expected error for lowercase relationship type")
		}
	})
}

func TestRelationshipTraversalDepth(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	for _, e := range []store.EntityInput{
		{Name: "Eldoria", EntityType: "world", World: "Eldoria"},
		{Name: "Duskhaven", EntityType: "location", World: "Eldoria"},
		{Name: "Mira", EntityType: "character", World: "Eldoria"},
	} {
		if err := c.UpsertEntity(ctx, e); err != nil {
			t.Fatalf("seeding %s: %v", e.Name, err)
		}
	}

	chain := []store.RelationshipInput{
		{FromName: "Duskhaven", ToName: "Eldoria", World: "Eldoria", Type: "PART_OF"},
		{FromName: "Mira", ToName: "Duskhaven", World: "Eldoria", Type: "LIVES_IN"},
	}
	for _, r := range chain {
		if err := c.UpsertRelationship(ctx, r); err != nil {
			t.Fatalf("seeding edge %s -> %s: %v", r.FromName, r.ToName, err)
		}
	}

	rels, err := c.GetRelationships(ctx, "Mira", "", "both", 2)
	if err != nil {
		t.Fatalf("getting relationships: %v", err)
	}
	if len(rels) != 2 {
		t.Fatalf("expected 2 relationships at depth 2, got %d", len(rels))
	}
	if rels[0].Depth != 1 || rels[1].Depth != 2 {
		t.Errorf("depths = %d, %d, want 1, 2", rels[0].Depth, rels[1].Depth)
	}
	if rels[1].To.Name != "Eldoria" {
		t.Errorf("second hop should reach Eldoria, got %q", rels[1].To.Name)
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	seed := []store.EntityInput{
		{Name: "Ashen Crypt", EntityType: "location", World: "Eldoria", Description: "A crypt full of restless dead beneath the old chapel."},
		{Name: "Gilded Flagon", EntityType: "location", World: "Eldoria", Description: "A rowdy tavern near the docks."},
		{Name: "Mira", EntityType: "character", World: "Eldoria", Description: "A priestess who tends the chapel crypt."},
	}
	for _, e := range seed {
		if err := c.UpsertEntity(ctx, e); err != nil {
			t.Fatalf("seeding %s: %v", e.Name, err)
		}
	}

	t.Run("matches description text", func(t *testing.T) {
		results, err := c.Search(ctx, "crypt", "", "")
		if err != nil {
			t.Fatalf("searching: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
	})

	t.Run("best match ranks first", func(t *testing.T) {
		results, err := c.Search(ctx, "crypt", "", "")
		if err != nil {
			t.Fatalf("searching: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if results[0].Name != "Ashen Crypt" {
			t.Errorf("top result = %q, want the name match first", results[0].Name)
		}
		if results[0].Score < results[1].Score {
			t.Errorf("scores not descending: %f then %f", results[0].Score, results[1].Score)
		}
	})

	t.Run("entity type filter", func(t *testing.T) {
		results, err := c.Search(ctx, "crypt", "", "character")
		if err != nil {
			t.Fatalf("searching: %v", err)
		}
		if len(results) != 1 || results[0].Name != "Mira" {
			t.Errorf("expected only Mira, got %+v", results)
		}
	})

	t.Run("empty query rejected", func(t *testing.T) {
		if _, err := c.Search(ctx, "  ", "", ""); err == nil {
			t.Error("expected error for blank query")
		}
	})
}

func TestDeleteWorld(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	for _, e := range []store.EntityInput{
		{Name: "Eldoria", EntityType: "world", World: "Eldoria"},
		{Name: "Mira", EntityType: "character", World: "Eldoria"},
		{Name: "Vex", EntityType: "character", World: "Duskmoor"},
	} {
		if err := c.UpsertEntity(ctx, e); err != nil {
			t.Fatalf("seeding %s: %v", e.Name, err)
		}
	}

	deleted, err := c.DeleteWorld(ctx, "eldoria")
	if err != nil {
		t.Fatalf("deleting world: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	remaining, err := c.ListEntities(ctx, "", "", "")
	if err != nil {
		t.Fatalf("listing entities: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Name != "Vex" {
		t.Errorf("expected only Vex to survive, got %+v", remaining)
	}
}

func TestListOrphanedEntities(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	for _, e := range []store.EntityInput{
		{Name: "Eldoria", EntityType: "world", World: "Eldoria"},
		{Name: "Duskhaven", EntityType: "location", World: "Eldoria"},
		{Name: "Mira", EntityType: "character", World: "Eldoria"},
	} {
		if err := c.UpsertEntity(ctx, e); err != nil {
			t.Fatalf("seeding %s: %v", e.Name, err)
		}
	}

	err := c.UpsertRelationship(ctx, store.RelationshipInput{
		FromName: "Duskhaven", ToName: "Eldoria", World: "Eldoria", Type: "PART_OF",
	})
	if err != nil {
		t.Fatalf("seeding edge: %v", err)
	}

	orphans, err := c.ListOrphanedEntities(ctx)
	if err != nil {
		t.Fatalf("listing orphans: %v", err)
	}
	if len(orphans) != 1 || orphans[0].Name != "Mira" {
		t.Errorf("expected only Mira as orphan, got %+v", orphans)
	}
}
