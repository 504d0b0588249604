package main

import (
	"fmt"
	"os"

	"github.com/insightlabs/insight/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "insight",
		Short: "Insight - conversational business intelligence",
		Long: `Insight is a conversational assistant for business data: it answers
questions about revenue, customers, churn and targets by querying the
analytics warehouse, searching the company knowledge base, and keeping
per-user memory across sessions.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(
		serveCmd(),
		chatCmd(),
		seedCmd(),
		configCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configCmd shows current configuration
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Current configuration:")
			fmt.Println()

			fmt.Println("Model:")
			fmt.Printf("  URL:         %s\n", cfg.Model.URL)
			fmt.Printf("  Model:       %s\n", cfg.Model.Model)
			fmt.Printf("  Max Tokens:  %d\n", cfg.Model.MaxTokens)
			fmt.Printf("  Temperature: %.2f\n", cfg.Model.Temperature)
			fmt.Printf("  API Key:     %s\n", maskSecret(cfg.Model.APIKey))
			fmt.Println()

			fmt.Println("Embedding:")
			fmt.Printf("  URL:        %s\n", cfg.Embedding.URL)
			fmt.Printf("  Model:      %s\n", cfg.Embedding.Model)
			fmt.Printf("  Dimensions: %d\n", cfg.Embedding.Dimensions)
			fmt.Printf("  API Key:    %s\n", maskSecret(cfg.Embedding.APIKey))
			fmt.Printf("  Status:     %s\n", boolStatus(cfg.IsEmbeddingConfigured()))
			fmt.Println()

			fmt.Println("Database:")
			fmt.Printf("  PostgreSQL: %s\n", maskSecret(cfg.Database.PostgresURL))
			fmt.Println()

			fmt.Println("Warehouse:")
			fmt.Printf("  PostgreSQL:    %s\n", maskSecret(cfg.WarehouseURL()))
			fmt.Printf("  Max Rows:      %d\n", cfg.Warehouse.MaxRows)
			fmt.Printf("  Query Timeout: %ds\n", cfg.Warehouse.QueryTimeout)
			fmt.Printf("  Dataset:       %s\n", cfg.Warehouse.DatasetLabel)
			fmt.Println()

			fmt.Println("Agent:")
			fmt.Printf("  Max Iterations: %d\n", cfg.Agent.MaxIterations)
			fmt.Printf("  History Window: %d\n", cfg.Agent.HistoryWindow)
			fmt.Printf("  Min Relevance:  %.2f\n", cfg.Agent.MinRelevance)
			fmt.Println()

			fmt.Println("Environment variables:")
			fmt.Println("  INSIGHT_MODEL_URL, INSIGHT_MODEL_API_KEY, INSIGHT_MODEL_NAME")
			fmt.Println("  INSIGHT_EMBEDDING_URL, INSIGHT_EMBEDDING_MODEL, INSIGHT_EMBEDDING_DIMENSIONS")
			fmt.Println("  INSIGHT_POSTGRES_URL, INSIGHT_WAREHOUSE_URL")
			fmt.Println("  INSIGHT_SERVER_HOST, INSIGHT_SERVER_PORT, INSIGHT_SERVER_API_KEY")

			return nil
		},
	}
}

// versionCmd shows version information
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Insight %s\n", version)
			fmt.Printf("  Commit:     %s\n", commit)
			fmt.Printf("  Build Date: %s\n", buildDate)
		},
	}
}
