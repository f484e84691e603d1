package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"campaignsmith/internal/config"
	"campaignsmith/internal/generate"
	"campaignsmith/internal/store"
)

func generateLocationCmd() *cobra.Command {
	var worldName string
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Generate a location for an existing world",
		RunE: func(cmd *cobra.Command, args []string) error {
			if worldName == "" {
				return fmt.Errorf("--world is required")
			}
			return runGenerateLocation(worldName)
		},
	}
	cmd.Flags().StringVar(&worldName, "world", "", "World to add the location to")
	return cmd
}

func runGenerateLocation(worldName string) error {
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

	loc, err := gen.NewLocation(ctx, world)
	if err != nil {
		return err
	}
	if err := world.AddLocation(loc); err != nil {
		return err
	}

	err = db.UpsertEntity(ctx, store.EntityInput{
		Name:        loc.Name,
		EntityType:  "location",
		World:       world.Name,
		Description: loc.Description,
	})
	if err != nil {
		return err
	}
	err = db.UpsertRelationship(ctx, store.RelationshipInput{
		FromName: loc.Name,
		ToName:   world.Name,
		World:    world.Name,
		Type:     "PART_OF",
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s\n%s\n", loc.Name, loc.Description)
	return nil
}
