package generate

import (
	"context"
	"fmt"

	"campaignsmith/internal/campaign"
	"campaignsmith/internal/store"
)

// Persist writes a generated world into the store: one entity per world,
// location, character, and item, plus the structural and character edges.
// Returns the number of entities and edges written.
func Persist(ctx context.Context, db store.Store, world *campaign.World) (int, int, error) {
	var entities, edges int

	err := db.UpsertEntity(ctx, store.EntityInput{
		Name:        world.Name,
		EntityType:  "world",
		World:       world.Name,
		Description: world.Description,
	})
	if err != nil {
		return entities, edges, fmt.Errorf("persisting world %s: %w", world.Name, err)
	}
	entities++

	for _, loc := range world.Locations {
		err := db.UpsertEntity(ctx, store.EntityInput{
			Name:        loc.Name,
			EntityType:  "location",
			World:       world.Name,
			Properties:  traitProperties(locationTraits(loc)),
			Description: loc.Description,
		})
		if err != nil {
			return entities, edges, fmt.Errorf("persisting location %s: %w", loc.Name, err)
		}
		entities++

		err = db.UpsertRelationship(ctx, store.RelationshipInput{
			FromName: loc.Name,
			ToName:   world.Name,
			World:    world.Name,
			Type:     "PART_OF",
		})
		if err != nil {
			return entities, edges, fmt.Errorf("linking location %s: %w", loc.Name, err)
		}
		edges++

		for _, item := range loc.Inventory {
			if err := persistItem(ctx, db, world.Name, item, loc.Name); err != nil {
				return entities, edges, err
			}
			entities++
			edges++
		}
	}

	for _, ch := range world.Characters {
		props := traitProperties(ch.Traits)
		err := db.UpsertEntity(ctx, store.EntityInput{
			Name:        ch.Name,
			EntityType:  "character",
			World:       world.Name,
			Properties:  props,
			Description: ch.Description,
		})
		if err != nil {
			return entities, edges, fmt.Errorf("persisting character %s: %w", ch.Name, err)
		}
		entities++

		err = db.UpsertRelationship(ctx, store.RelationshipInput{
			FromName: ch.Name,
			ToName:   world.Name,
			World:    world.Name,
			Type:     "LIVES_IN",
		})
		if err != nil {
			return entities, edges, fmt.Errorf("linking character %s: %w", ch.Name, err)
		}
		edges++

		for _, item := range ch.Inventory {
			if err := persistItem(ctx, db, world.Name, item, ch.Name); err != nil {
				return entities, edges, err
			}
			entities++
			edges++
		}
	}

	for _, rel := range world.Relationships {
		err := db.UpsertRelationship(ctx, store.RelationshipInput{
			FromName:           rel.CharacterA,
			ToName:             rel.CharacterB,
			World:              world.Name,
			Type:               "RELATES_TO",
			ForwardDescription: rel.AToB,
			ReverseDescription: rel.BToA,
		})
		if err != nil {
			return entities, edges, fmt.Errorf("linking %s and %s: %w", rel.CharacterA, rel.CharacterB, err)
		}
		edges++
	}

	return entities, edges, nil
}

func persistItem(ctx context.Context, db store.Store, worldName string, item *campaign.Item, holderName string) error {
	props := traitProperties(item.Traits)
	if props == nil {
		props = make(map[string]any)
	}
	props["size"] = item.Size.String()

	err := db.UpsertEntity(ctx, store.EntityInput{
		Name:        item.Name,
		EntityType:  "item",
		World:       worldName,
		Properties:  props,
		Description: item.Description,
	})
	if err != nil {
		return fmt.Errorf("persisting item %s: %w", item.Name, err)
	}

	err = db.UpsertRelationship(ctx, store.RelationshipInput{
		FromName: item.Name,
		ToName:   holderName,
		World:    worldName,
		Type:     "FOUND_IN",
	})
	if err != nil {
		return fmt.Errorf("linking item %s: %w", item.Name, err)
	}
	return nil
}

func traitProperties(traits map[string]string) map[string]any {
	if len(traits) == 0 {
		return nil
	}
	props := make(map[string]any, len(traits))
	for k, v := range traits {
		props[k] = v
	}
	return props
}

func locationTraits(loc *campaign.Location) map[string]string {
	if len(loc.Traits) == 0 {
		return nil
	}
	traits := make(map[string]string, len(loc.Traits))
	for _, t := range loc.Traits {
		traits[t.Quality] = t.Description
	}
	return traits
}
