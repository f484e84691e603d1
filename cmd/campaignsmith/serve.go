package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"campaignsmith/internal/config"
	"campaignsmith/internal/generate"
	"campaignsmith/internal/mcp"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig(config.ConfigPath())
	if err != nil {
		return err
	}
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	if err := db.EnsureSchema(ctx, schema); err != nil {
		return err
	}

	// Generation tools are only offered when a credential is available;
	// query tools work either way. Anything other than a missing key is a
	// real configuration problem.
	var gen *generate.Generator
	switch g, err := newGenerator(cfg, schema, 0); {
	case err == nil:
		gen = g
	case errors.Is(err, config.ErrAPIKeyMissing):
	default:
		return err
	}

	server := mcp.NewServer(schema, db, gen, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
