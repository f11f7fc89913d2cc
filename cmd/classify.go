package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"paycat/internal/clix"
	"paycat/internal/models"
)

var (
	classifyText       string
	classifyCategories string
	classifyModelType  string
	classifyModel      string
	classifySearch     bool
)

// classifyCmd runs a one-shot classification from the terminal.
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a payment description from the command line",
	Long: `Classifies a single payment description into one of the given
categories using the configured backend, without starting the HTTP server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app from context: %w", err)
		}

		categories, err := clix.ParseCategories(cmd.Flags())
		if err != nil {
			return err
		}
		modelType, err := clix.ParseModelType(cmd.Flags())
		if err != nil {
			return err
		}

		modelName := classifyModel
		if modelName == "" {
			// Default to the first registered model of the requested type.
			providers := appInstance.Registry.Providers(modelType)
			if len(providers) == 0 {
				return fmt.Errorf("no models registered for type '%s'", modelType)
			}
			modelName = providers[0].ModelName()
		}

		req := &models.ClassificationRequest{
			PaymentText: classifyText,
			Categories:  categories,
			ModelType:   modelType,
			ModelName:   modelName,
			UseSearch:   classifySearch,
		}

		resp, err := appInstance.ClassificationService.Classify(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("classification failed: %w", err)
		}

		color.New(color.FgGreen, color.Bold).Printf("Category: %s\n", resp.Category)
		fmt.Printf("Reasoning: %s\n", resp.Reasoning)
		if resp.SearchUsed {
			color.Yellow("Search augmentation was used.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVarP(&classifyText, "text", "t", "", "Payment description to classify (required)")
	classifyCmd.Flags().StringVarP(&classifyCategories, "categories", "c", "", "Comma-separated category list (required)")
	classifyCmd.Flags().StringVar(&classifyModelType, "model-type", string(models.ModelTypeLocal), "Model type: 'local' or 'cloud'")
	classifyCmd.Flags().StringVarP(&classifyModel, "model", "m", "", "Model name (defaults to the first registered model of the type)")
	classifyCmd.Flags().BoolVar(&classifySearch, "search", false, "Enable web search augmentation (local models only)")
	classifyCmd.MarkFlagRequired("text")
	classifyCmd.MarkFlagRequired("categories")
}
