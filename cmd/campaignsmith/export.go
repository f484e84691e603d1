package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"campaignsmith/internal/config"
	"campaignsmith/internal/generate"
)

func exportCmd() *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "export <world>",
		Short: "Write a world and its contents to a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args[0], outFile)
		},
	}
	cmd.Flags().StringVar(&outFile, "out", "", "Output path (defaults to <world>.json)")
	return cmd
}

func runExport(worldName, outFile string) error {
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

	world, err := generate.Assemble(ctx, db, worldName)
	if err != nil {
		return err
	}

	data, err := world.EncodeJSON()
	if err != nil {
		return err
	}

	if outFile == "" {
		outFile = world.Name + ".json"
	}
	if err := os.WriteFile(outFile, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", outFile, err)
	}

	fmt.Fprintf(os.Stdout, "Wrote %s.\n", outFile)
	return nil
}
