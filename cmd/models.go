package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"paycat/internal/models"
)

// modelsCmd lists the configured model registry.
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the configured classification models",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app from context: %w", err)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Type", "Backend", "Model", "Status"})

		for _, modelType := range []models.ModelType{models.ModelTypeLocal, models.ModelTypeCloud} {
			for _, p := range appInstance.Registry.Providers(modelType) {
				table.Append([]string{string(modelType), p.Name(), p.ModelName(), string(p.Status())})
			}
		}

		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
