package store

import (
	"context"

	"campaignsmith/internal/config"
)

type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context, schema *config.Schema) error

	UpsertEntity(ctx context.Context, e EntityInput) error
	UpsertRelationship(ctx context.Context, r RelationshipInput) error

	GetEntity(ctx context.Context, name, entityType, world string) (*Entity, error)
	GetRelationships(ctx context.Context, name, relType, direction string, depth int) ([]Relationship, error)
	ListEntities(ctx context.Context, entityType, world, tag string) ([]EntitySummary, error)
	Search(ctx context.Context, query, world, entityType string) ([]SearchResult, error)

	DeleteWorld(ctx context.Context, world string) (int64, error)
	ListDanglingPlaceholders(ctx context.Context) ([]EntitySummary, error)
	ListOrphanedEntities(ctx context.Context) ([]EntitySummary, error)
}
