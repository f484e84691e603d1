// Package validate checks stored campaign content against the schema and
// reports graph hygiene problems.
package validate

import (
	"context"
	"fmt"
	"strings"

	"campaignsmith/internal/config"
	"campaignsmith/internal/store"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeEnumInvalid         = "enum_value_invalid"
	codeMissingRequired     = "missing_required_property"
	codeUnknownEntityType   = "unknown_entity_type"
	codeDanglingPlaceholder = "dangling_placeholder"
	codeOrphanedEntity      = "orphaned_entity"
)

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	World    string
	Entity   string
}

type Report struct {
	Issues []Issue
}

// HasErrors reports whether any issue is severe enough to fail a run.
func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Checker is the slice of the store the validator reads from.
type Checker interface {
	ListEntities(ctx context.Context, entityType, world, tag string) ([]store.EntitySummary, error)
	GetEntity(ctx context.Context, name, entityType, world string) (*store.Entity, error)
	ListDanglingPlaceholders(ctx context.Context) ([]store.EntitySummary, error)
	ListOrphanedEntities(ctx context.Context) ([]store.EntitySummary, error)
}

func Run(ctx context.Context, schema *config.Schema, db Checker) (*Report, error) {
	if schema == nil {
		return nil, fmt.Errorf("schema is required")
	}
	if db == nil {
		return nil, fmt.Errorf("store is required")
	}

	issues := make([]Issue, 0)

	entities, err := db.ListEntities(ctx, "", "", "")
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}

	for _, summary := range entities {
		entity, err := db.GetEntity(ctx, summary.Name, summary.EntityType, summary.World)
		if err != nil {
			return nil, fmt.Errorf("get entity %s: %w", summary.Name, err)
		}
		if entity == nil {
			continue
		}
		entityType, ok := schema.EntityTypeByName(entity.EntityType)
		if !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeUnknownEntityType,
				Message:  fmt.Sprintf("entity type not in schema: %s", entity.EntityType),
				World:    entity.World,
				Entity:   entity.Name,
			})
			continue
		}
		issues = append(issues, validateEnumValues(entity, entityType)...)
		issues = append(issues, validateRequiredProperties(entity, entityType)...)
	}

	placeholders, err := db.ListDanglingPlaceholders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dangling placeholders: %w", err)
	}
	for _, summary := range placeholders {
		issues = append(issues, issueFromSummary(summary, SeverityError, codeDanglingPlaceholder, "dangling placeholder entity"))
	}

	orphans, err := db.ListOrphanedEntities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orphaned entities: %w", err)
	}
	for _, summary := range orphans {
		issues = append(issues, issueFromSummary(summary, SeverityWarn, codeOrphanedEntity, "orphaned entity"))
	}

	return &Report{Issues: issues}, nil
}

func validateEnumValues(entity *store.Entity, entityType *config.EntityType) []Issue {
	if entity == nil || entityType == nil {
		return nil
	}

	var issues []Issue
	for _, prop := range entityType.Properties {
		if !strings.EqualFold(prop.Type, "enum") || len(prop.Values) == 0 {
			continue
		}
		value, ok := propertyValue(entity, prop.Name)
		if !ok {
			continue
		}
		valueStr, ok := value.(string)
		if !ok {
			continue
		}
		if !containsString(prop.Values, valueStr) {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     codeEnumInvalid,
				Message:  fmt.Sprintf("invalid enum value for %s: %s", prop.Name, valueStr),
				World:    entity.World,
				Entity:   entity.Name,
			})
		}
	}

	return issues
}

func validateRequiredProperties(entity *store.Entity, entityType *config.EntityType) []Issue {
	if entity == nil || entityType == nil {
		return nil
	}

	var issues []Issue
	for _, prop := range entityType.Properties {
		if !prop.Required {
			continue
		}
		value, ok := propertyValue(entity, prop.Name)
		if !ok || value == nil {
			issues = append(issues, missingRequired(entity, prop.Name))
			continue
		}
		if valueStr, ok := value.(string); ok && strings.TrimSpace(valueStr) == "" {
			issues = append(issues, missingRequired(entity, prop.Name))
		}
	}

	return issues
}

// propertyValue resolves a schema property against an entity. The
// description lives in its own column rather than the properties map.
func propertyValue(entity *store.Entity, name string) (any, bool) {
	if strings.EqualFold(name, "description") {
		return entity.Description, true
	}
	value, ok := entity.Properties[name]
	return value, ok
}

func missingRequired(entity *store.Entity, propName string) Issue {
	return Issue{
		Severity: SeverityError,
		Code:     codeMissingRequired,
		Message:  fmt.Sprintf("missing required property: %s", propName),
		World:    entity.World,
		Entity:   entity.Name,
	}
}

func issueFromSummary(summary store.EntitySummary, severity Severity, code, message string) Issue {
	return Issue{
		Severity: severity,
		Code:     code,
		Message:  message,
		World:    summary.World,
		Entity:   summary.Name,
	}
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
