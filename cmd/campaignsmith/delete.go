package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"campaignsmith/internal/config"
)

func deleteCmd() *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "delete <world>",
		Short: "Delete a world and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("deleting a world is permanent; pass --yes to confirm")
			}
			return runDelete(args[0])
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm the deletion")
	return cmd
}

func runDelete(worldName string) error {
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

	deleted, err := db.DeleteWorld(ctx, worldName)
	if err != nil {
		return err
	}
	if deleted == 0 {
		fmt.Fprintf(os.Stdout, "No entities found for world %q.\n", worldName)
		return nil
	}

	fmt.Fprintf(os.Stdout, "Deleted %d entities.\n", deleted)
	return nil
}
