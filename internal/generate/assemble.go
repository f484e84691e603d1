package generate

import (
	"context"
	"fmt"

	"campaignsmith/internal/campaign"
	"campaignsmith/internal/store"
)

// Assemble rebuilds a campaign document from the store, the inverse of
// Persist. Items are reattached to whoever holds their FOUND_IN edge.
func Assemble(ctx context.Context, db store.Store, worldName string) (*campaign.World, error) {
	worldEntity, err := db.GetEntity(ctx, worldName, "world", worldName)
	if err != nil {
		return nil, fmt.Errorf("loading world %s: %w", worldName, err)
	}
	if worldEntity == nil {
		return nil, fmt.Errorf("world %q not found", worldName)
	}

	world := campaign.NewWorld(worldEntity.Name, worldEntity.Description)

	locations, err := db.ListEntities(ctx, "location", worldEntity.World, "")
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	for _, summary := range locations {
		entity, err := db.GetEntity(ctx, summary.Name, "location", summary.World)
		if err != nil {
			return nil, fmt.Errorf("loading location %s: %w", summary.Name, err)
		}
		if entity == nil {
			continue
		}
		loc := &campaign.Location{Name: entity.Name, Description: entity.Description}
		for quality, value := range entity.Properties {
			if text, ok := value.(string); ok {
				loc.AddTrait(quality, text)
			}
		}
		if err := world.AddLocation(loc); err != nil {
			return nil, err
		}
	}

	characters, err := db.ListEntities(ctx, "character", worldEntity.World, "")
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	for _, summary := range characters {
		entity, err := db.GetEntity(ctx, summary.Name, "character", summary.World)
		if err != nil {
			return nil, fmt.Errorf("loading character %s: %w", summary.Name, err)
		}
		if entity == nil {
			continue
		}
		ch := &campaign.Character{Name: entity.Name, Description: entity.Description}
		for quality, value := range entity.Properties {
			if text, ok := value.(string); ok {
				ch.AddTrait(quality, text)
			}
		}
		if err := world.AddCharacter(ch); err != nil {
			return nil, err
		}
	}

	if err := assembleItems(ctx, db, world, worldEntity.World); err != nil {
		return nil, err
	}

	if err := assembleRelationships(ctx, db, world); err != nil {
		return nil, err
	}

	return world, nil
}

func assembleItems(ctx context.Context, db store.Store, world *campaign.World, worldKey string) error {
	items, err := db.ListEntities(ctx, "item", worldKey, "")
	if err != nil {
		return fmt.Errorf("listing items: %w", err)
	}
	for _, summary := range items {
		entity, err := db.GetEntity(ctx, summary.Name, "item", summary.World)
		if err != nil {
			return fmt.Errorf("loading item %s: %w", summary.Name, err)
		}
		if entity == nil {
			continue
		}

		item := &campaign.Item{Name: entity.Name, Description: entity.Description, Size: campaign.SizeMedium}
		for quality, value := range entity.Properties {
			text, ok := value.(string)
			if !ok {
				continue
			}
			if quality == "size" {
				if size, err := campaign.ParseSize(text); err == nil {
					item.Size = size
				}
				continue
			}
			item.AddTrait(quality, text)
		}

		holders, err := db.GetRelationships(ctx, entity.Name, "FOUND_IN", "outgoing", 1)
		if err != nil {
			return fmt.Errorf("loading holder of %s: %w", entity.Name, err)
		}
		for _, edge := range holders {
			if loc := world.LocationByName(edge.To.Name); loc != nil {
				loc.AddItem(item)
				break
			}
			if ch := world.CharacterByName(edge.To.Name); ch != nil {
				ch.AddItem(item)
				break
			}
		}
	}
	return nil
}

func assembleRelationships(ctx context.Context, db store.Store, world *campaign.World) error {
	for _, ch := range world.Characters {
		edges, err := db.GetRelationships(ctx, ch.Name, "RELATES_TO", "outgoing", 1)
		if err != nil {
			return fmt.Errorf("loading relationships of %s: %w", ch.Name, err)
		}
		for _, edge := range edges {
			if world.CharacterByName(edge.To.Name) == nil {
				continue
			}
			if world.RelationshipBetween(edge.From.Name, edge.To.Name) != nil {
				continue
			}
			rel := &campaign.Relationship{
				CharacterA: edge.From.Name,
				CharacterB: edge.To.Name,
				AToB:       edge.ForwardDescription,
				BToA:       edge.ReverseDescription,
			}
			if err := world.AddRelationship(rel); err != nil {
				return err
			}
		}
	}
	return nil
}
