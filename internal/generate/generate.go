// Package generate drives the campaign generation pipeline: it prompts the
// completion API for a world and its contents, sanitizes the replies, and
// assembles the campaign document.
package generate

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"

	"campaignsmith/internal/campaign"
	"campaignsmith/internal/config"
	"campaignsmith/internal/prompt"
)

var log = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

const defaultReplyTokens = 300

// Completer is the slice of the llm client the pipeline needs. Tests swap in
// a scripted fake.
type Completer interface {
	Complete(ctx context.Context, messages []prompt.Message, maxReplyTokens int) (string, error)
}

type Options struct {
	Locations  int
	Characters int
	Items      int
	// Seed fixes the relationship dice for reproducible runs; 0 means seed
	// from the clock.
	Seed int64
}

type Result struct {
	World                string
	LocationsCreated     int
	CharactersCreated    int
	ItemsCreated         int
	RelationshipsCreated int
	Errors               []error
}

type Generator struct {
	cfg    *config.ProjectConfig
	schema *config.Schema
	llm    Completer
	rng    *rand.Rand
}

func New(cfg *config.ProjectConfig, schema *config.Schema, completer Completer, seed int64) *Generator {
	if seed == 0 {
		seed = rand.Int63()
	}
	return &Generator{
		cfg:    cfg,
		schema: schema,
		llm:    completer,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (g *Generator) validateOptions(opts Options) error {
	gen := g.cfg.Generation
	if opts.Locations < 0 || opts.Locations > gen.MaxLocations {
		return fmt.Errorf("locations must be between 0 and %d", gen.MaxLocations)
	}
	if opts.Characters < 0 || opts.Characters > gen.MaxCharacters {
		return fmt.Errorf("characters must be between 0 and %d", gen.MaxCharacters)
	}
	if opts.Items < 0 || opts.Items > gen.MaxItems {
		return fmt.Errorf("items must be between 0 and %d", gen.MaxItems)
	}
	return nil
}

// GenerateWorld runs the full pipeline: world first, then locations,
// characters, relationships between character pairs, and items scattered
// over the locations. Individual entity failures are collected in the result
// rather than aborting the run.
func (g *Generator) GenerateWorld(ctx context.Context, opts Options) (*campaign.World, *Result, error) {
	if err := g.validateOptions(opts); err != nil {
		return nil, nil, err
	}

	world, err := g.NewWorld(ctx)
	if err != nil {
		return nil, nil, err
	}

	result := &Result{World: world.Name}

	for i := 0; i < opts.Locations; i++ {
		loc, err := g.NewLocation(ctx, world)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("generating location %d: %w", i+1, err))
			continue
		}
		if err := world.AddLocation(loc); err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		result.LocationsCreated++
	}

	for i := 0; i < opts.Characters; i++ {
		ch, err := g.NewCharacter(ctx, world)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("generating character %d: %w", i+1, err))
			continue
		}
		if err := world.AddCharacter(ch); err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		result.CharactersCreated++
	}

	g.rollRelationships(ctx, world, result)

	for i := 0; i < opts.Items; i++ {
		if len(world.Locations) == 0 {
			result.Errors = append(result.Errors, fmt.Errorf("generating item %d: world has no locations", i+1))
			continue
		}
		loc := world.Locations[g.rng.Intn(len(world.Locations))]
		item, err := g.NewItem(ctx, world, loc)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("generating item %d: %w", i+1, err))
			continue
		}
		loc.AddItem(item)
		result.ItemsCreated++
	}

	log.Info().
		Str("world", world.Name).
		Int("locations", result.LocationsCreated).
		Int("characters", result.CharactersCreated).
		Int("items", result.ItemsCreated).
		Int("relationships", result.RelationshipsCreated).
		Int("errors", len(result.Errors)).
		Msg("world generated")

	return world, result, nil
}

// NewWorld generates the root world entity. The name has all whitespace
// squashed out so it can serve as a key and file name.
func (g *Generator) NewWorld(ctx context.Context) (*campaign.World, error) {
	var lastErr error
	for attempt := 1; attempt <= g.cfg.Generation.RetryLimit; attempt++ {
		reply, err := g.llm.Complete(ctx, prompt.World(g.promptHint("world")), g.replyBudget("world"))
		if err != nil {
			lastErr = err
			continue
		}
		name, description, err := prompt.ParseNameDescription(reply)
		if err != nil {
			lastErr = err
			log.Warn().Int("attempt", attempt).Msg("world reply failed to parse")
			continue
		}
		return campaign.NewWorld(prompt.CollapseWhitespace(name), description), nil
	}
	return nil, fmt.Errorf("generating world after %d attempts: %w", g.cfg.Generation.RetryLimit, lastErr)
}

// NewLocation generates one location, retrying on parse failures and names
// the world already holds.
func (g *Generator) NewLocation(ctx context.Context, world *campaign.World) (*campaign.Location, error) {
	messages, err := prompt.Location(world, g.promptHint("location"))
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= g.cfg.Generation.RetryLimit; attempt++ {
		reply, err := g.llm.Complete(ctx, messages, g.replyBudget("location"))
		if err != nil {
			lastErr = err
			continue
		}
		name, description, err := prompt.ParseNameDescription(reply)
		if err != nil {
			lastErr = err
			log.Warn().Int("attempt", attempt).Msg("location reply failed to parse")
			continue
		}
		if world.LocationByName(name) != nil {
			lastErr = fmt.Errorf("world already has location %q", name)
			continue
		}
		return &campaign.Location{Name: name, Description: description}, nil
	}
	return nil, fmt.Errorf("after %d attempts: %w", g.cfg.Generation.RetryLimit, lastErr)
}

func (g *Generator) NewCharacter(ctx context.Context, world *campaign.World) (*campaign.Character, error) {
	messages, err := prompt.Character(world, g.promptHint("character"))
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= g.cfg.Generation.RetryLimit; attempt++ {
		reply, err := g.llm.Complete(ctx, messages, g.replyBudget("character"))
		if err != nil {
			lastErr = err
			continue
		}
		name, description, err := prompt.ParseNameDescription(reply)
		if err != nil {
			lastErr = err
			log.Warn().Int("attempt", attempt).Msg("character reply failed to parse")
			continue
		}
		if world.CharacterByName(name) != nil {
			lastErr = fmt.Errorf("world already has character %q", name)
			continue
		}
		return &campaign.Character{Name: name, Description: description}, nil
	}
	return nil, fmt.Errorf("after %d attempts: %w", g.cfg.Generation.RetryLimit, lastErr)
}

// NewItem generates one item found at the given location. Size is rolled
// from the schema enum rather than asked of the model.
func (g *Generator) NewItem(ctx context.Context, world *campaign.World, loc *campaign.Location) (*campaign.Item, error) {
	messages, err := prompt.Item(world.Basics(), loc, g.promptHint("item"))
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= g.cfg.Generation.RetryLimit; attempt++ {
		reply, err := g.llm.Complete(ctx, messages, g.replyBudget("item"))
		if err != nil {
			lastErr = err
			continue
		}
		name, description, err := prompt.ParseNameDescription(reply)
		if err != nil {
			lastErr = err
			log.Warn().Int("attempt", attempt).Msg("item reply failed to parse")
			continue
		}
		return &campaign.Item{
			Name:        name,
			Description: description,
			Size:        g.rollSize(),
		}, nil
	}
	return nil, fmt.Errorf("after %d attempts: %w", g.cfg.Generation.RetryLimit, lastErr)
}

// NewRelationship generates a relationship between the two named characters.
// The asymmetric flag picks the two-sided prompt; a symmetric relationship
// carries the same description in both directions.
func (g *Generator) NewRelationship(ctx context.Context, world *campaign.World, aName, bName string, asymmetric bool) (*campaign.Relationship, error) {
	a := world.CharacterByName(aName)
	b := world.CharacterByName(bName)
	if a == nil || b == nil {
		return nil, fmt.Errorf("both characters must exist in the world")
	}
	if strings.EqualFold(a.Name, b.Name) {
		return nil, fmt.Errorf("relationship must join two distinct characters")
	}

	var lastErr error
	for attempt := 1; attempt <= g.cfg.Generation.RetryLimit; attempt++ {
		rel, err := g.relationshipOnce(ctx, a, b, asymmetric)
		if err != nil {
			lastErr = err
			log.Warn().Int("attempt", attempt).Msg("relationship reply failed to parse")
			continue
		}
		return rel, nil
	}
	return nil, fmt.Errorf("after %d attempts: %w", g.cfg.Generation.RetryLimit, lastErr)
}

func (g *Generator) relationshipOnce(ctx context.Context, a, b *campaign.Character, asymmetric bool) (*campaign.Relationship, error) {
	if asymmetric {
		messages, err := prompt.AsymmetricRelationship(a, b)
		if err != nil {
			return nil, err
		}
		reply, err := g.llm.Complete(ctx, messages, defaultReplyTokens)
		if err != nil {
			return nil, err
		}
		aToB, bToA, err := prompt.ParsePair(reply)
		if err != nil {
			return nil, err
		}
		return &campaign.Relationship{CharacterA: a.Name, CharacterB: b.Name, AToB: aToB, BToA: bToA}, nil
	}

	messages, err := prompt.SymmetricRelationship(a, b)
	if err != nil {
		return nil, err
	}
	reply, err := g.llm.Complete(ctx, messages, defaultReplyTokens)
	if err != nil {
		return nil, err
	}
	description := prompt.Printable(reply)
	if strings.TrimSpace(description) == "." || strings.TrimSpace(description) == "" {
		return nil, errors.New("empty relationship description")
	}
	return &campaign.Relationship{CharacterA: a.Name, CharacterB: b.Name, AToB: description, BToA: description}, nil
}

// rollRelationships visits every unordered character pair once and rolls the
// configured probability for each.
func (g *Generator) rollRelationships(ctx context.Context, world *campaign.World, result *Result) {
	gen := g.cfg.Generation
	for i := 0; i < len(world.Characters); i++ {
		for j := i + 1; j < len(world.Characters); j++ {
			if g.rng.Float64() >= gen.RelationshipProbability {
				continue
			}
			asymmetric := g.rng.Float64() < gen.AsymmetricShare
			a, b := world.Characters[i], world.Characters[j]
			rel, err := g.NewRelationship(ctx, world, a.Name, b.Name, asymmetric)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("relating %s and %s: %w", a.Name, b.Name, err))
				continue
			}
			if err := world.AddRelationship(rel); err != nil {
				result.Errors = append(result.Errors, err)
				continue
			}
			result.RelationshipsCreated++
		}
	}
}

func (g *Generator) promptHint(entityType string) string {
	if et, ok := g.schema.EntityTypeByName(entityType); ok {
		return et.PromptHint
	}
	return ""
}

func (g *Generator) replyBudget(entityType string) int {
	if et, ok := g.schema.EntityTypeByName(entityType); ok && et.MaxReplyTokens > 0 {
		return et.MaxReplyTokens
	}
	return defaultReplyTokens
}

func (g *Generator) rollSize() campaign.Size {
	et, ok := g.schema.EntityTypeByName("item")
	if !ok {
		return campaign.SizeMedium
	}
	for _, p := range et.Properties {
		if p.Name != "size" || len(p.Values) == 0 {
			continue
		}
		size, err := campaign.ParseSize(p.Values[g.rng.Intn(len(p.Values))])
		if err != nil {
			return campaign.SizeMedium
		}
		return size
	}
	return campaign.SizeMedium
}
