package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/arcanaland/cardsync/internal/config"
	"github.com/arcanaland/cardsync/internal/store"
)

// cardsCmd represents the cards command group
var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Inspect and set up the local card store",
}

// cardsListCmd represents the cards ls command
var cardsListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the cards in the local card store",
	RunE: func(cmd *cobra.Command, args []string) error {
		onlyBreakers, _ := cmd.Flags().GetBool("icebreakers")

		if _, err := os.Stat(cfg.Store.Path); os.IsNotExist(err) {
			fmt.Printf("Card store at %s does not exist.\n", cfg.Store.Path)
			fmt.Println("Run 'cardsync update' to create it.")
			return nil
		}

		records, err := store.Load(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("error loading card store: %w", err)
		}

		sort.SliceStable(records, func(i, j int) bool {
			return records[i].TitleOrEmpty() < records[j].TitleOrEmpty()
		})

		shown := 0
		for _, r := range records {
			bc, sc, err := r.Costs()
			isBreaker := err == nil
			if onlyBreakers && !isBreaker {
				continue
			}
			if isBreaker {
				fmt.Printf("* %s [break %d[c]/%d sub, pump %s]\n", r.TitleOrEmpty(), bc.Credits, bc.Subroutines, sc)
			} else {
				fmt.Printf("  %s\n", r.TitleOrEmpty())
			}
			shown++
		}

		if shown == 0 {
			fmt.Println("No cards found in the card store.")
		}
		return nil
	},
}

// cardsInitCmd represents the cards init command
var cardsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file and data directories",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.GetConfigFilePath()
		}

		initialized, err := config.WriteDefault(path)
		if err != nil {
			return fmt.Errorf("error initializing config: %w", err)
		}
		fmt.Println("Config file initialized at:", path)

		dirs := []string{filepath.Dir(initialized.Store.Path), initialized.Images.Dir}
		for _, dir := range dirs {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("error creating %s: %w", dir, err)
			}
		}
		fmt.Println("Card store will be written to:", initialized.Store.Path)
		fmt.Println("Card images will be saved in:", initialized.Images.Dir)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(cardsCmd)
	cardsCmd.AddCommand(cardsListCmd)
	cardsCmd.AddCommand(cardsInitCmd)

	cardsListCmd.Flags().Bool("icebreakers", false, "Only list icebreakers")
}
