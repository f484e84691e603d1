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

func generateCharacterCmd() *cobra.Command {
	var worldName string
	cmd := &cobra.Command{
		Use:   "character",
		Short: "Generate a character for an existing world",
		RunE: func(cmd *cobra.Command, args []string) error {
			if worldName == "" {
				return fmt.Errorf("--world is required")
			}
			return runGenerateCharacter(worldName)
		},
	}
	cmd.Flags().StringVar(&worldName, "world", "", "World to add the character to")
	return cmd
}

func runGenerateCharacter(worldName string) error {
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

	ch, err := gen.NewCharacter(ctx, world)
	if err != nil {
		return err
	}
	if err := world.AddCharacter(ch); err != nil {
		return err
	}

	err = db.UpsertEntity(ctx, store.EntityInput{
		Name:        ch.Name,
		EntityType:  "character",
		World:       world.Name,
		Description: ch.Description,
	})
	if err != nil {
		return err
	}
	err = db.UpsertRelationship(ctx, store.RelationshipInput{
		FromName: ch.Name,
		ToName:   world.Name,
		World:    world.Name,
		Type:     "LIVES_IN",
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s\n%s\n", ch.Name, ch.Description)
	return nil
}
