package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"campaignsmith/internal/config"
	"campaignsmith/internal/generate"
	"campaignsmith/internal/store"
)

type SearchCampaignInput struct {
	Query string `json:"query" jsonschema:"search terms"`
	World string `json:"world,omitempty" jsonschema:"restrict to a specific world"`
	Type  string `json:"type,omitempty" jsonschema:"restrict to a specific entity type"`
}

type GetEntityInput struct {
	Name  string `json:"name" jsonschema:"entity name"`
	Type  string `json:"type,omitempty" jsonschema:"optional entity type"`
	World string `json:"world,omitempty" jsonschema:"world to disambiguate entities that share a name"`
}

type GetRelationshipsInput struct {
	Name      string `json:"name" jsonschema:"starting entity name"`
	Type      string `json:"type,omitempty" jsonschema:"relationship type filter"`
	Depth     int    `json:"depth,omitempty" jsonschema:"maximum traversal depth"`
	Direction string `json:"direction,omitempty" jsonschema:"outgoing, incoming, or both"`
}

type ListEntitiesInput struct {
	Type  string `json:"type,omitempty" jsonschema:"entity type filter"`
	World string `json:"world,omitempty" jsonschema:"world filter"`
	Tag   string `json:"tag,omitempty" jsonschema:"tag filter"`
}

type GetSchemaInput struct{}

type GenerateWorldInput struct {
	Locations  int `json:"locations,omitempty" jsonschema:"number of locations to generate"`
	Characters int `json:"characters,omitempty" jsonschema:"number of characters to generate"`
	Items      int `json:"items,omitempty" jsonschema:"number of items to generate"`
}

type GenerateCharacterInput struct {
	World string `json:"world" jsonschema:"name of the world to add the character to"`
}

type EntityOutput struct {
	Name        string         `json:"name"`
	EntityType  string         `json:"type"`
	World       string         `json:"world"`
	Tags        []string       `json:"tags"`
	Properties  map[string]any `json:"properties"`
	Description string         `json:"description"`
}

type EntitySummaryOutput struct {
	Name       string   `json:"name"`
	EntityType string   `json:"type"`
	World      string   `json:"world"`
	Tags       []string `json:"tags"`
}

type RelationshipOutput struct {
	From               EntityRefOutput `json:"from"`
	To                 EntityRefOutput `json:"to"`
	Type               string          `json:"type"`
	Direction          string          `json:"direction"`
	Depth              int             `json:"depth"`
	ForwardDescription string          `json:"forward_description,omitempty"`
	ReverseDescription string          `json:"reverse_description,omitempty"`
}

type EntityRefOutput struct {
	Name       string `json:"name"`
	EntityType string `json:"type"`
	World      string `json:"world"`
}

type SearchResultOutput struct {
	Name       string   `json:"name"`
	EntityType string   `json:"type"`
	World      string   `json:"world"`
	Tags       []string `json:"tags"`
	Score      float64  `json:"score"`
	Snippet    string   `json:"snippet,omitempty"`
}

type SearchCampaignOutput struct {
	Results []SearchResultOutput `json:"results"`
}

type SchemaOutput struct {
	Version           int                      `json:"version"`
	EntityTypes       []EntityTypeOutput       `json:"entity_types"`
	RelationshipTypes []RelationshipTypeOutput `json:"relationship_types"`
}

type EntityTypeOutput struct {
	Name           string           `json:"name"`
	Properties     []PropertyOutput `json:"properties"`
	PromptHint     string           `json:"prompt_hint,omitempty"`
	MaxReplyTokens int              `json:"max_reply_tokens,omitempty"`
}

type PropertyOutput struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Values  []string `json:"values,omitempty"`
	Default string   `json:"default,omitempty"`
}

type RelationshipTypeOutput struct {
	Name      string `json:"name"`
	Inverse   string `json:"inverse,omitempty"`
	Symmetric bool   `json:"symmetric,omitempty"`
}

type GetRelationshipsOutput struct {
	Relationships []RelationshipOutput `json:"relationships"`
}

type ListEntitiesOutput struct {
	Entities []EntitySummaryOutput `json:"entities"`
}

type GenerateWorldOutput struct {
	World                string   `json:"world"`
	LocationsCreated     int      `json:"locations_created"`
	CharactersCreated    int      `json:"characters_created"`
	ItemsCreated         int      `json:"items_created"`
	RelationshipsCreated int      `json:"relationships_created"`
	Errors               []string `json:"errors,omitempty"`
}

type GenerateCharacterOutput struct {
	Name        string `json:"name"`
	World       string `json:"world"`
	Description string `json:"description"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "search_campaign",
		Description: "Search campaign entities by name, tags, and text",
	}, s.handleSearchCampaign)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_entity",
		Description: "Retrieve a specific entity and its properties",
	}, s.handleGetEntity)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_relationships",
		Description: "Traverse relationships from an entity",
	}, s.handleGetRelationships)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_entities",
		Description: "List entities with optional filters",
	}, s.handleListEntities)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_schema",
		Description: "Return the current schema definition",
	}, s.handleGetSchema)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "generate_world",
		Description: "Generate a new campaign world and persist it",
	}, s.handleGenerateWorld)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "generate_character",
		Description: "Generate a character for an existing world and persist it",
	}, s.handleGenerateCharacter)
}

func (s *Server) handleSearchCampaign(ctx context.Context, req *sdk.CallToolRequest, input SearchCampaignInput) (*sdk.CallToolResult, SearchCampaignOutput, error) {
	if input.Query == "" {
		return nil, SearchCampaignOutput{}, fmt.Errorf("query is required")
	}
	results, err := s.db.Search(ctx, input.Query, input.World, input.Type)
	if err != nil {
		return nil, SearchCampaignOutput{}, err
	}

	output := make([]SearchResultOutput, 0, len(results))
	for _, result := range results {
		output = append(output, searchResultOutput(result))
	}
	return nil, SearchCampaignOutput{Results: output}, nil
}

func (s *Server) handleGetEntity(ctx context.Context, req *sdk.CallToolRequest, input GetEntityInput) (*sdk.CallToolResult, EntityOutput, error) {
	if input.Name == "" {
		return nil, EntityOutput{}, fmt.Errorf("name is required")
	}
	entity, err := s.db.GetEntity(ctx, input.Name, input.Type, input.World)
	if err != nil {
		return nil, EntityOutput{}, err
	}
	if entity == nil {
		return nil, EntityOutput{}, fmt.Errorf("entity not found")
	}
	return nil, entityOutput(entity), nil
}

func (s *Server) handleGetRelationships(ctx context.Context, req *sdk.CallToolRequest, input GetRelationshipsInput) (*sdk.CallToolResult, GetRelationshipsOutput, error) {
	if input.Name == "" {
		return nil, GetRelationshipsOutput{}, fmt.Errorf("name is required")
	}
	depth := input.Depth
	if depth == 0 {
		depth = 1
	}
	rels, err := s.db.GetRelationships(ctx, input.Name, input.Type, input.Direction, depth)
	if err != nil {
		return nil, GetRelationshipsOutput{}, err
	}

	output := make([]RelationshipOutput, 0, len(rels))
	for _, rel := range rels {
		output = append(output, relationshipOutput(rel))
	}
	return nil, GetRelationshipsOutput{Relationships: output}, nil
}

func (s *Server) handleListEntities(ctx context.Context, req *sdk.CallToolRequest, input ListEntitiesInput) (*sdk.CallToolResult, ListEntitiesOutput, error) {
	items, err := s.db.ListEntities(ctx, input.Type, input.World, input.Tag)
	if err != nil {
		return nil, ListEntitiesOutput{}, err
	}

	output := make([]EntitySummaryOutput, 0, len(items))
	for _, item := range items {
		output = append(output, entitySummaryOutput(item))
	}
	return nil, ListEntitiesOutput{Entities: output}, nil
}

func (s *Server) handleGetSchema(ctx context.Context, req *sdk.CallToolRequest, input GetSchemaInput) (*sdk.CallToolResult, SchemaOutput, error) {
	return nil, schemaOutput(s.schema), nil
}

func (s *Server) handleGenerateWorld(ctx context.Context, req *sdk.CallToolRequest, input GenerateWorldInput) (*sdk.CallToolResult, GenerateWorldOutput, error) {
	if s.gen == nil {
		return nil, GenerateWorldOutput{}, fmt.Errorf("generation is disabled; no API credential was provided")
	}

	world, result, err := s.gen.GenerateWorld(ctx, generate.Options{
		Locations:  input.Locations,
		Characters: input.Characters,
		Items:      input.Items,
	})
	if err != nil {
		return nil, GenerateWorldOutput{}, err
	}

	if _, _, err := generate.Persist(ctx, s.db, world); err != nil {
		return nil, GenerateWorldOutput{}, err
	}

	out := GenerateWorldOutput{
		World:                result.World,
		LocationsCreated:     result.LocationsCreated,
		CharactersCreated:    result.CharactersCreated,
		ItemsCreated:         result.ItemsCreated,
		RelationshipsCreated: result.RelationshipsCreated,
	}
	for _, genErr := range result.Errors {
		out.Errors = append(out.Errors, genErr.Error())
	}
	return nil, out, nil
}

func (s *Server) handleGenerateCharacter(ctx context.Context, req *sdk.CallToolRequest, input GenerateCharacterInput) (*sdk.CallToolResult, GenerateCharacterOutput, error) {
	if s.gen == nil {
		return nil, GenerateCharacterOutput{}, fmt.Errorf("generation is disabled; no API credential was provided")
	}
	if input.World == "" {
		return nil, GenerateCharacterOutput{}, fmt.Errorf("world is required")
	}

	world, err := generate.Assemble(ctx, s.db, input.World)
	if err != nil {
		return nil, GenerateCharacterOutput{}, err
	}

	ch, err := s.gen.NewCharacter(ctx, world)
	if err != nil {
		return nil, GenerateCharacterOutput{}, err
	}
	if err := world.AddCharacter(ch); err != nil {
		return nil, GenerateCharacterOutput{}, err
	}

	err = s.db.UpsertEntity(ctx, store.EntityInput{
		Name:        ch.Name,
		EntityType:  "character",
		World:       world.Name,
		Description: ch.Description,
	})
	if err != nil {
		return nil, GenerateCharacterOutput{}, err
	}
	err = s.db.UpsertRelationship(ctx, store.RelationshipInput{
		FromName: ch.Name,
		ToName:   world.Name,
		World:    world.Name,
		Type:     "LIVES_IN",
	})
	if err != nil {
		return nil, GenerateCharacterOutput{}, err
	}

	return nil, GenerateCharacterOutput{Name: ch.Name, World: world.Name, Description: ch.Description}, nil
}

func schemaOutput(schema *config.Schema) SchemaOutput {
	if schema == nil {
		return SchemaOutput{}
	}

	out := SchemaOutput{
		Version:           schema.Version,
		EntityTypes:       make([]EntityTypeOutput, 0, len(schema.EntityTypes)),
		RelationshipTypes: make([]RelationshipTypeOutput, 0, len(schema.RelationshipTypes)),
	}

	for _, entityType := range schema.EntityTypes {
		entityOut := EntityTypeOutput{
			Name:           entityType.Name,
			Properties:     make([]PropertyOutput, 0, len(entityType.Properties)),
			PromptHint:     entityType.PromptHint,
			MaxReplyTokens: entityType.MaxReplyTokens,
		}
		for _, prop := range entityType.Properties {
			entityOut.Properties = append(entityOut.Properties, PropertyOutput{
				Name:    prop.Name,
				Type:    prop.Type,
				Values:  prop.Values,
				Default: prop.Default,
			})
		}
		out.EntityTypes = append(out.EntityTypes, entityOut)
	}

	for _, rel := range schema.RelationshipTypes {
		out.RelationshipTypes = append(out.RelationshipTypes, RelationshipTypeOutput{
			Name:      rel.Name,
			Inverse:   rel.Inverse,
			Symmetric: rel.Symmetric,
		})
	}

	return out
}

func entityOutput(entity *store.Entity) EntityOutput {
	if entity == nil {
		return EntityOutput{}
	}
	properties := map[string]any{}
	for key, value := range entity.Properties {
		properties[key] = value
	}
	return EntityOutput{
		Name:        entity.Name,
		EntityType:  entity.EntityType,
		World:       entity.World,
		Tags:        append([]string{}, entity.Tags...),
		Properties:  properties,
		Description: entity.Description,
	}
}

func entitySummaryOutput(entity store.EntitySummary) EntitySummaryOutput {
	return EntitySummaryOutput{
		Name:       entity.Name,
		EntityType: entity.EntityType,
		World:      entity.World,
		Tags:       append([]string{}, entity.Tags...),
	}
}

func searchResultOutput(result store.SearchResult) SearchResultOutput {
	return SearchResultOutput{
		Name:       result.Name,
		EntityType: result.EntityType,
		World:      result.World,
		Tags:       append([]string{}, result.Tags...),
		Score:      result.Score,
		Snippet:    result.Snippet,
	}
}

func relationshipOutput(rel store.Relationship) RelationshipOutput {
	return RelationshipOutput{
		From: EntityRefOutput{
			Name:       rel.From.Name,
			EntityType: rel.From.EntityType,
			World:      rel.From.World,
		},
		To: EntityRefOutput{
			Name:       rel.To.Name,
			EntityType: rel.To.EntityType,
			World:      rel.To.World,
		},
		Type:               rel.Type,
		Direction:          rel.Direction,
		Depth:              rel.Depth,
		ForwardDescription: rel.ForwardDescription,
		ReverseDescription: rel.ReverseDescription,
	}
}
