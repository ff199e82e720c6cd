package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcanaland/cardsync/internal/store"
	"github.com/arcanaland/cardsync/internal/validator"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a card store file",
	Long: `Validate checks that a card store is what the catalog web app expects:
unique titles, no banned cards, no leftover upstream fields, image paths that match
the card titles, and cost fields on every icebreaker.

With no path, the configured card store is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storePath := cfg.Store.Path
		if len(args) == 1 {
			storePath = args[0]
		}

		records, err := store.Load(storePath)
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}

		v := validator.NewValidator(records, validator.Rules{
			BannedTitle:  cfg.Transform.BannedTitle,
			RemoveFields: cfg.Transform.RemoveFields,
			ImagePrefix:  cfg.Images.URLPrefix,
		})
		results := v.Validate()

		// Display validation results
		fmt.Println("Validation Results:")
		fmt.Println("-------------------")

		if len(results.Errors) == 0 {
			fmt.Printf("✅ Card store '%s' (%d cards) is valid.\n", storePath, len(records))
		} else {
			fmt.Printf("❌ Card store '%s' has %d validation errors:\n", storePath, len(results.Errors))
			for i, err := range results.Errors {
				fmt.Printf("%d. %s\n", i+1, err)
			}
			return fmt.Errorf("validation failed")
		}

		if len(results.Warnings) > 0 {
			fmt.Println("\nWarnings:")
			for i, warn := range results.Warnings {
				fmt.Printf("%d. %s\n", i+1, warn)
			}
		}

		return nil
	},
}
