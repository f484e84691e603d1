package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"campaignsmith/internal/config"
)

func queryListCmd() *cobra.Command {
	var entityType string
	var world string
	var tag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entities in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryList(entityType, world, tag)
		},
	}
	cmd.Flags().StringVar(&entityType, "type", "", "Entity type to filter")
	cmd.Flags().StringVar(&world, "world", "", "World to filter")
	cmd.Flags().StringVar(&tag, "tag", "", "Tag to filter")
	return cmd
}

func runQueryList(entityType, world, tag string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig(config.ConfigPath())
	if err != nil {
		return err
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	entities, err := db.ListEntities(ctx, entityType, world, tag)
	if err != nil {
		return err
	}
	if len(entities) == 0 {
		fmt.Fprintln(os.Stdout, "No entities found.")
		return nil
	}

	for _, entity := range entities {
		fmt.Fprintf(os.Stdout, "%s (%s) [%s]\n", entity.Name, entity.EntityType, entity.World)
	}
	return nil
}
