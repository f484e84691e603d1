package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSchemaFile describes the campaign entity and relationship types.
const DefaultSchemaFile = "schema.yaml"

type Schema struct {
	Version           int                `yaml:"version"`
	EntityTypes       []EntityType       `yaml:"entity_types"`
	RelationshipTypes []RelationshipType `yaml:"relationship_types"`

	entityIndex map[string]*EntityType
	relIndex    map[string]*RelationshipType
}

type EntityType struct {
	Name       string     `yaml:"name"`
	Properties []Property `yaml:"properties"`
	// PromptHint is appended to the generation prompt for this type.
	PromptHint string `yaml:"prompt_hint"`
	// MaxReplyTokens bounds the completion budget when generating this type.
	MaxReplyTokens int `yaml:"max_reply_tokens"`
}

type Property struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"`
	Values   []string `yaml:"values"`
	Default  string   `yaml:"default"`
	Required bool     `yaml:"required"`
}

type RelationshipType struct {
	Name      string `yaml:"name"`
	Inverse   string `yaml:"inverse"`
	Symmetric bool   `yaml:"symmetric"`
}

func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var schema Schema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	if err := validateSchema(&schema); err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	schema.buildIndexes()
	return &schema, nil
}

func (s *Schema) buildIndexes() {
	s.entityIndex = make(map[string]*EntityType)
	for i := range s.EntityTypes {
		entity := &s.EntityTypes[i]
		s.entityIndex[strings.ToLower(entity.Name)] = entity
	}

	s.relIndex = make(map[string]*RelationshipType)
	for i := range s.RelationshipTypes {
		rel := &s.RelationshipTypes[i]
		s.relIndex[strings.ToLower(rel.Name)] = rel
	}
}

func validateSchema(s *Schema) error {
	if s.Version != 1 {
		return fmt.Errorf("unsupported version: %d", s.Version)
	}
	if len(s.EntityTypes) == 0 {
		return fmt.Errorf("at least one entity type is required")
	}

	entityNames := make(map[string]struct{})
	for i, entity := range s.EntityTypes {
		if strings.TrimSpace(entity.Name) == "" {
			return fmt.Errorf("entity type %d name is required", i)
		}
		key := strings.ToLower(entity.Name)
		if _, exists := entityNames[key]; exists {
			return fmt.Errorf("duplicate entity type name: %s", entity.Name)
		}
		entityNames[key] = struct{}{}

		if entity.MaxReplyTokens < 0 {
			return fmt.Errorf("entity type %s max_reply_tokens must not be negative", entity.Name)
		}

		propNames := make(map[string]struct{})
		for _, prop := range entity.Properties {
			name := strings.ToLower(strings.TrimSpace(prop.Name))
			if name == "" {
				return fmt.Errorf("entity type %s has property with empty name", entity.Name)
			}
			if _, exists := propNames[name]; exists {
				return fmt.Errorf("entity type %s has duplicate property: %s", entity.Name, prop.Name)
			}
			propNames[name] = struct{}{}
			if strings.EqualFold(prop.Type, "enum") && len(prop.Values) == 0 {
				return fmt.Errorf("entity type %s property %s enum has no values", entity.Name, prop.Name)
			}
		}
	}

	relNames := make(map[string]struct{})
	for i, rel := range s.RelationshipTypes {
		if strings.TrimSpace(rel.Name) == "" {
			return fmt.Errorf("relationship type %d name is required", i)
		}
		key := strings.ToLower(rel.Name)
		if _, exists := relNames[key]; exists {
			return fmt.Errorf("duplicate relationship type name: %s", rel.Name)
		}
		relNames[key] = struct{}{}
	}

	for _, rel := range s.RelationshipTypes {
		if rel.Inverse == "" {
			continue
		}
		if _, ok := relNames[strings.ToLower(rel.Inverse)]; !ok {
			return fmt.Errorf("relationship type %s references unknown inverse: %s", rel.Name, rel.Inverse)
		}
	}

	return nil
}

func (s *Schema) EntityTypeByName(name string) (*EntityType, bool) {
	if s == nil {
		return nil, false
	}
	entity, ok := s.entityIndex[strings.ToLower(name)]
	return entity, ok
}

func (s *Schema) RelationshipTypeByName(name string) (*RelationshipType, bool) {
	if s == nil {
		return nil, false
	}
	rel, ok := s.relIndex[strings.ToLower(name)]
	return rel, ok
}

func (s *Schema) IsValidEntityType(name string) bool {
	_, ok := s.EntityTypeByName(name)
	return ok
}

func (s *Schema) IsValidRelationshipType(name string) bool {
	_, ok := s.RelationshipTypeByName(name)
	return ok
}

// DefaultSchema returns the built-in campaign schema used by `init` and as
// a fallback when no schema.yaml is present.
func DefaultSchema() *Schema {
	schema := &Schema{
		Version: 1,
		EntityTypes: []EntityType{
			{
				Name:           "world",
				MaxReplyTokens: 500,
				PromptHint:     "a world for a 5e campaign",
				Properties: []Property{
					{Name: "description", Type: "text", Required: true},
				},
			},
			{
				Name:           "location",
				MaxReplyTokens: 300,
				PromptHint:     "a notable place within the world",
				Properties: []Property{
					{Name: "description", Type: "text", Required: true},
				},
			},
			{
				Name:           "character",
				MaxReplyTokens: 300,
				PromptHint:     "a memorable inhabitant of the world",
				Properties: []Property{
					{Name: "description", Type: "text", Required: true},
				},
			},
			{
				Name:           "item",
				MaxReplyTokens: 300,
				PromptHint:     "an object of interest found in the world",
				Properties: []Property{
					{Name: "description", Type: "text", Required: true},
					{Name: "size", Type: "enum", Default: "medium",
						Values: []string{"tiny", "small", "medium", "large", "huge", "gargantuan"}},
				},
			},
		},
		RelationshipTypes: []RelationshipType{
			{Name: "PART_OF"},
			{Name: "LIVES_IN"},
			{Name: "FOUND_IN"},
			{Name: "RELATES_TO", Symmetric: true},
		},
	}
	schema.buildIndexes()
	return schema
}
