package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"paycat/internal/models"
	"paycat/internal/services"
)

// doctorCmd checks backend connectivity and other diagnostics.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check backend connectivity and other diagnostics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}

		fmt.Println("Checking configured providers...")
		for _, modelType := range []models.ModelType{models.ModelTypeLocal, models.ModelTypeCloud} {
			for _, p := range appInstance.Registry.Providers(modelType) {
				if p.Status() == services.ProviderStatusActive {
					color.Green("  [ok]       %s/%s", p.Name(), p.ModelName())
				} else {
					color.Yellow("  [disabled] %s/%s (missing credentials?)", p.Name(), p.ModelName())
				}
			}
		}

		// The local backend is the only one we can ping without spending tokens.
		pinged := false
		for _, p := range appInstance.OllamaProviders {
			if pinged {
				break
			}
			pinged = true
			if err := p.Ping(ctx); err != nil {
				color.Red("Ollama server check failed: %v", err)
			} else {
				color.Green("Ollama server reachable.")
			}
		}

		if appInstance.SearchService == nil {
			color.Yellow("Search augmentation disabled (no Google search credentials).")
		} else {
			color.Green("Search augmentation configured.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
