// Package mcp exposes the campaign store and generator as MCP tools over a
// stdio transport.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"campaignsmith/internal/config"
	"campaignsmith/internal/generate"
	"campaignsmith/internal/store"
)

type Server struct {
	schema *config.Schema
	db     store.Store
	// gen is nil when no API credential is available; query tools still work.
	gen *generate.Generator
	mcp *sdk.Server
}

func NewServer(schema *config.Schema, db store.Store, gen *generate.Generator, version string) *Server {
	s := &Server{
		schema: schema,
		db:     db,
		gen:    gen,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "campaignsmith",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
