package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "campaignsmith",
		Short: "LLM-backed tabletop campaign generator",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(initCmd())
	root.AddCommand(generateCmd())
	root.AddCommand(queryCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(deleteCmd())
	root.AddCommand(estimateCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
