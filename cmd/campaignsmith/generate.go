package main

import "github.com/spf13/cobra"

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate campaign content with the completion API",
	}
	cmd.AddCommand(generateWorldCmd())
	cmd.AddCommand(generateLocationCmd())
	cmd.AddCommand(generateCharacterCmd())
	cmd.AddCommand(generateItemCmd())
	cmd.AddCommand(generateRelationshipCmd())
	return cmd
}
