package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"campaignsmith/internal/config"
	"campaignsmith/internal/prompt"
	"campaignsmith/internal/tokens"
)

func estimateCmd() *cobra.Command {
	var locations, characters, items int
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate tokens and cost for a planned world generation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(locations, characters, items)
		},
	}
	cmd.Flags().IntVar(&locations, "locations", 3, "Number of locations planned")
	cmd.Flags().IntVar(&characters, "characters", 3, "Number of characters planned")
	cmd.Flags().IntVar(&items, "items", 3, "Number of items planned")
	return cmd
}

// runEstimate prices the planned run from the prompt templates and per-type
// reply budgets. Real prompts grow as the world document grows, so this is a
// floor, not an exact bill.
func runEstimate(locations, characters, items int) error {
	cfg, err := config.LoadProjectConfig(config.ConfigPath())
	if err != nil {
		return err
	}
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	model := cfg.OpenAI.Model
	counter := tokens.NewCounter()

	worldHint := ""
	if et, ok := schema.EntityTypeByName("world"); ok {
		worldHint = et.PromptHint
	}
	worldPrompt, err := counter.CountMessages(model, prompt.World(worldHint))
	if err != nil {
		return fmt.Errorf("counting tokens (encodings may be unavailable offline): %w", err)
	}

	total := worldPrompt + replyBudget(schema, "world")
	total += locations * (worldPrompt + replyBudget(schema, "location"))
	total += characters * (worldPrompt + replyBudget(schema, "character"))
	total += items * (worldPrompt + replyBudget(schema, "item"))

	// Expected relationship count for n characters at the configured
	// probability: p * n*(n-1)/2.
	pairs := characters * (characters - 1) / 2
	expectedRels := int(cfg.Generation.RelationshipProbability * float64(pairs))
	total += expectedRels * (worldPrompt + 300)

	fmt.Fprintf(os.Stdout, "Model: %s\n", model)
	fmt.Fprintf(os.Stdout, "Context window: %d tokens\n", tokens.ContextWindow(model))
	fmt.Fprintf(os.Stdout, "Estimated tokens: %d\n", total)
	if cost, ok := tokens.EstimateCost(model, total); ok {
		fmt.Fprintf(os.Stdout, "Estimated cost: $%.4f\n", cost)
	} else {
		fmt.Fprintf(os.Stdout, "Estimated cost: unknown for model %s\n", model)
	}
	return nil
}

func replyBudget(schema *config.Schema, entityType string) int {
	if et, ok := schema.EntityTypeByName(entityType); ok && et.MaxReplyTokens > 0 {
		return et.MaxReplyTokens
	}
	return 300
}
