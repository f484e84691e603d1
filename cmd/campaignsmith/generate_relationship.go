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

func generateRelationshipCmd() *cobra.Command {
	var worldName string
	var asymmetric bool
	cmd := &cobra.Command{
		Use:   "relationship <character-a> <character-b>",
		Short: "Generate a relationship between two existing characters",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if worldName == "" {
				return fmt.Errorf("--world is required")
			}
			return runGenerateRelationship(worldName, args[0], args[1], asymmetric)
		},
	}
	cmd.Flags().StringVar(&worldName, "world", "", "World the characters belong to")
	cmd.Flags().BoolVar(&asymmetric, "asymmetric", false, "Generate a different description per direction")
	return cmd
}

func runGenerateRelationship(worldName, aName, bName string, asymmetric bool) error {
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

	rel, err := gen.NewRelationship(ctx, world, aName, bName, asymmetric)
	if err != nil {
		return err
	}
	if err := world.AddRelationship(rel); err != nil {
		return err
	}

	err = db.UpsertRelationship(ctx, store.RelationshipInput{
		FromName:           rel.CharacterA,
		ToName:             rel.CharacterB,
		World:              world.Name,
		Type:               "RELATES_TO",
		ForwardDescription: rel.AToB,
		ReverseDescription: rel.BToA,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s -> %s: %s\n", rel.CharacterA, rel.CharacterB, rel.AToB)
	if !rel.Symmetric() {
		fmt.Fprintf(os.Stdout, "%s -> %s: %s\n", rel.CharacterB, rel.CharacterA, rel.BToA)
	}
	return nil
}
