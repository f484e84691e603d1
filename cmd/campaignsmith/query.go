package main

import "github.com/spf13/cobra"

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query stored campaign content",
	}
	cmd.AddCommand(queryEntityCmd())
	cmd.AddCommand(queryListCmd())
	cmd.AddCommand(querySearchCmd())
	cmd.AddCommand(queryRelationsCmd())
	return cmd
}
