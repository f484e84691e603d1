package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"campaignsmith/internal/campaign"
	"campaignsmith/internal/config"
	"campaignsmith/internal/generate"
	"campaignsmith/internal/store"
)

func generateItemCmd() *cobra.Command {
	var worldName string
	var locationName string
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Generate an item found at a location in an existing world",
		RunE: func(cmd *cobra.Command, args []string) error {
			if worldName == "" {
				return fmt.Errorf("--world is required")
			}
			return runGenerateItem(worldName, locationName)
		},
	}
	cmd.Flags().StringVar(&worldName, "world", "", "World to add the item to")
	cmd.Flags().StringVar(&locationName, "location", "", "Location holding the item (random when omitted)")
	return cmd
}

func runGenerateItem(worldName, locationName string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig(config.ConfigPath())
	if err != nil {
		return err
	}
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	gen, err := newGenerator(cfg, schema, 0)
	if err != nil {
		return err
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	world, err := generate.Assemble(ctx, db, worldName)
	if err != nil {
		return err
	}
	if len(world.Locations) == 0 {
		return fmt.Errorf("world %q has no locations to hold an item", world.Name)
	}

	var loc *campaign.Location
	if locationName != "" {
		loc = world.LocationByName(locationName)
		if loc == nil {
			return fmt.Errorf("world %q has no location %q", world.Name, locationName)
		}
	} else {
		loc = world.Locations[rand.Intn(len(world.Locations))]
	}

	item, err := gen.NewItem(ctx, world, loc)
	if err != nil {
		return err
	}
	loc.AddItem(item)

	err = db.UpsertEntity(ctx, store.EntityInput{
		Name:        item.Name,
		EntityType:  "item",
		World:       world.Name,
		Properties:  map[string]any{"size": item.Size.String()},
		Description: item.Description,
	})
	if err != nil {
		return err
	}
	err = db.UpsertRelationship(ctx, store.RelationshipInput{
		FromName: item.Name,
		ToName:   loc.Name,
		World:    world.Name,
		Type:     "FOUND_IN",
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s (%s, found in %s)\n%s\n", item.Name, item.Size, loc.Name, item.Description)
	return nil
}
