package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"campaignsmith/internal/config"
)

func initCmd() *cobra.Command {
	var projectName string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new campaignsmith project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(projectName)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	return cmd
}

func runInit(projectName string) error {
	configPath := config.DefaultConfigFile
	schemaPath := config.DefaultSchemaFile
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}
	if _, err := os.Stat(schemaPath); err == nil {
		return fmt.Errorf("%s already exists", schemaPath)
	}

	configContents := fmt.Sprintf(`project: %s
version: 1

database:
  dsn: sqlite://campaignsmith.db

openai:
  model: gpt-3.5-turbo
  temperature: 1.3

generation:
  max_locations: 10
  max_characters: 10
  max_items: 10
  relationship_probability: 0.3
  asymmetric_share: 0.25
  retry_limit: 3
  log_completions: false
  completion_log_dir: ./log
`, projectName)

	schemaContents, err := yaml.Marshal(config.DefaultSchema())
	if err != nil {
		return fmt.Errorf("encoding default schema: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(configContents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}
	if err := os.WriteFile(schemaPath, schemaContents, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", schemaPath, err)
	}

	fmt.Fprintf(os.Stdout, "Initialized project %s.\n", projectName)
	return nil
}
