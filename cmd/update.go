package cmd

import (
	"fmt"
	"log/slog"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardsync/internal/images"
	"github.com/arcanaland/cardsync/internal/nrdb"
	"github.com/arcanaland/cardsync/internal/store"
	"github.com/arcanaland/cardsync/internal/transform"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch NetrunnerDB cards and rewrite the local card store",
	Long: `Update fetches the full card list from NetrunnerDB, removes banned cards,
normalizes fields, derives icebreaker costs and writes the result to the card store.

Examples:
  cardsync update
  cardsync update --dry-run
  cardsync update --images --store ./app/data/cards.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		withImages, _ := cmd.Flags().GetBool("images")
		overwrite, _ := cmd.Flags().GetBool("overwrite-images")
		storePath, _ := cmd.Flags().GetString("store")
		if storePath == "" {
			storePath = cfg.Store.Path
		}

		ctx := cmd.Context()

		local, err := store.Load(storePath)
		if err != nil {
			return fmt.Errorf("error loading card store: %w", err)
		}
		logger.Info("loaded card store", slog.String("path", storePath), slog.Int("cards", len(local)))

		catalog, err := nrdb.NewClient(cfg.API).FetchCards(ctx)
		if err != nil {
			return fmt.Errorf("error fetching cards: %w", err)
		}
		logger.Info("fetched upstream cards", slog.String("url", cfg.API.URL), slog.Int("cards", len(catalog.Cards)))

		opts := transform.OptionsFromConfig(cfg)
		opts.ImageTemplate = catalog.ImageTemplate
		res := transform.New(opts, logger).Run(local, catalog.Cards)
		change := transform.Diff(res.Local, res.Upstream)

		if dryRun {
			logger.Info("dry run, card store not written")
		} else {
			if err := store.Save(storePath, res.Upstream); err != nil {
				return fmt.Errorf("error saving card store: %w", err)
			}
			logger.Info("saved card store", slog.String("path", storePath), slog.Int("cards", len(res.Upstream)))
		}

		var stats *images.Stats
		if withImages && !dryRun {
			sink := &images.Sink{
				Fetch:     images.NewDownloader(cfg.API, cfg.Images).Fetch,
				Limiter:   images.NewLimiter(cfg.Images.Rate),
				Logger:    logger,
				Overwrite: overwrite,
			}
			s, err := sink.Materialize(ctx, res.Images)
			if err != nil {
				return fmt.Errorf("image download interrupted: %w", err)
			}
			stats = &s
		}

		printSummary(res, change, stats, dryRun)
		return nil
	},
}

func init() {
	updateCmd.Flags().Bool("dry-run", false, "Run the transform without writing anything")
	updateCmd.Flags().Bool("images", false, "Download and re-encode card images")
	updateCmd.Flags().Bool("overwrite-images", false, "Download images even when the file already exists")
	updateCmd.Flags().StringP("store", "s", "", "Card store path (default from config)")
}

func printSummary(res *transform.Result, change transform.Change, stats *images.Stats, dryRun bool) {
	fmt.Println("Update Summary:")
	fmt.Println("---------------")

	fmt.Printf("%s %d\n", colorize.CyanString("Cards written: "), len(res.Upstream))
	fmt.Printf("%s %d\n", colorize.CyanString("Banned removed:"), res.Removed)
	fmt.Printf("%s %s / %s\n", colorize.CyanString("New / dropped: "),
		colorize.GreenString("+%d", len(change.Added)), colorize.RedString("-%d", len(change.Dropped)))

	if stats != nil {
		fmt.Printf("%s %d saved, %d already present, %d failed\n",
			colorize.CyanString("Images:        "), stats.Saved, stats.Existed, stats.Failed)
	}

	if len(res.Skipped) > 0 {
		fmt.Println()
		colorize.Yellow("Skipped %d cards:", len(res.Skipped))
		for i, err := range res.Skipped {
			fmt.Printf("%d. %s\n", i+1, err)
		}
	}

	if len(res.Degraded) > 0 {
		fmt.Println()
		colorize.Yellow("Default icebreaker costs used for %d cards:", len(res.Degraded))
		for i, title := range res.Degraded {
			fmt.Printf("%d. %s\n", i+1, title)
		}
	}

	if dryRun {
		fmt.Println()
		fmt.Println("Dry run: nothing was written.")
	}
}
