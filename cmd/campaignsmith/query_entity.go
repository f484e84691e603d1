package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"campaignsmith/internal/config"
)

func queryEntityCmd() *cobra.Command {
	var entityType string
	var world string
	cmd := &cobra.Command{
		Use:   "entity <name>",
		Short: "Display an entity and its properties",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryEntity(args[0], entityType, world)
		},
	}
	cmd.Flags().StringVar(&entityType, "type", "", "Entity type to disambiguate")
	cmd.Flags().StringVar(&world, "world", "", "World to disambiguate entities that share a name")
	return cmd
}

func runQueryEntity(name, entityType, world string) error {
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

	entity, err := db.GetEntity(ctx, name, entityType, world)
	if err != nil {
		return err
	}
	if entity == nil {
		fmt.Fprintf(os.Stdout, "No entity found for %q.\n", name)
		return nil
	}

	fmt.Fprintf(os.Stdout, "Name: %s\n", entity.Name)
	fmt.Fprintf(os.Stdout, "Type: %s\n", entity.EntityType)
	fmt.Fprintf(os.Stdout, "World: %s\n", entity.World)
	if len(entity.Tags) > 0 {
		fmt.Fprintf(os.Stdout, "Tags: %s\n", strings.Join(entity.Tags, ", "))
	}
	if entity.Description != "" {
		fmt.Fprintf(os.Stdout, "Description: %s\n", entity.Description)
	}

	if len(entity.Properties) == 0 {
		return nil
	}

	keys := make([]string, 0, len(entity.Properties))
	for key := range entity.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintln(os.Stdout, "Properties:")
	for _, key := range keys {
		fmt.Fprintf(os.Stdout, "  %s: %v\n", key, entity.Properties[key])
	}
	return nil
}
