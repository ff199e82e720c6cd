package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcanaland/cardsync/internal/store"
	"github.com/arcanaland/cardsync/internal/transform"
)

// linksCmd represents the links command
var linksCmd = &cobra.Command{
	Use:   "links [cardgamedb-export.json]",
	Short: "Attach CardGameDB links to the cards in the store",
	Long: `Links reads a CardGameDB card export (a JSON list of {"name", "furl"} objects)
and sets cgdb_url on every card in the store whose title matches a name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading export: %w", err)
		}
		links, err := transform.LoadLinks(data)
		if err != nil {
			return err
		}

		records, err := store.Load(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("error loading card store: %w", err)
		}

		n := transform.AttachLinks(records, links)
		if err := store.Save(cfg.Store.Path, records); err != nil {
			return fmt.Errorf("error saving card store: %w", err)
		}

		logger.Info("attached cardgamedb links",
			slog.Int("linked", n),
			slog.Int("unlinked", len(records)-n))
		fmt.Printf("Linked %d of %d cards.\n", n, len(records))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(linksCmd)
}
