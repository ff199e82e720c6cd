package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arcanaland/cardsync/internal/ansi"
	"github.com/arcanaland/cardsync/internal/card"
	"github.com/arcanaland/cardsync/internal/store"
	"github.com/arcanaland/cardsync/internal/transform"
)

var showCmd = &cobra.Command{
	Use:   "show [title]",
	Short: "Display a card from the store, with its image as ANSI art",
	Long: `Show prints a card as the catalog will see it: derived image path, NetrunnerDB
link and, for icebreakers, the break and strength costs. When the card image has been
downloaded it is drawn next to the details.

Examples:
  cardsync show Corroder
  cardsync show "R&D Interface"
  cardsync show --no-art Gordian Blade`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		noArt, _ := cmd.Flags().GetBool("no-art")

		records, err := store.Load(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("error loading card store: %w", err)
		}

		c, err := store.Find(records, title)
		if err != nil {
			return err
		}

		art := ""
		if !noArt {
			imagePath := filepath.Join(cfg.Images.Dir, transform.Slug(title)+".png")
			if _, err := os.Stat(imagePath); err == nil {
				art, err = ansi.RenderFile(imagePath, 30, 21)
				if err != nil {
					logger.Warn("could not render card image",
						slog.String("path", imagePath), slog.String("error", err.Error()))
				}
			}
		}

		displayCard(c, art)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().Bool("no-art", false, "Do not draw the card image")
}

func cardInfoLines(c card.Record, width int) []string {
	label := func(s string) string { return colorize.CyanString("%-9s", s) }
	value := func(s string) string { return colorize.HiWhiteString("%s", s) }

	var lines []string
	lines = append(lines, label("Card:")+value(c.TitleOrEmpty()))
	for _, field := range []string{"type", "subtype", "faction", "setname"} {
		if s, err := c.String(field); err == nil && s != "" {
			lines = append(lines, label(strings.ToUpper(field[:1])+field[1:]+":")+value(s))
		}
	}

	if bc, sc, err := c.Costs(); err == nil {
		lines = append(lines, label("Break:")+value(fmt.Sprintf("%d[c]: break %d subroutine(s)", bc.Credits, bc.Subroutines)))
		lines = append(lines, label("Pump:")+value(sc.String()+" strength"))
	} else if !errors.Is(err, card.ErrMissingField) {
		lines = append(lines, label("Costs:")+colorize.RedString("%v", err))
	}

	if s, err := c.String(card.FieldImageSrc); err == nil {
		lines = append(lines, label("Image:")+value(s))
	}
	if s, err := c.String(card.FieldNRDBURL); err == nil {
		lines = append(lines, label("NRDB:")+value(s))
	}
	if s, err := c.String(card.FieldCGDBURL); err == nil {
		lines = append(lines, label("CGDB:")+value(s))
	}

	if text, err := c.String(card.FieldText); err == nil && text != "" {
		lines = append(lines, "", colorize.CyanString("Text:"))
		lines = append(lines, ansi.Wrap(text, width)...)
	}
	return lines
}

// displayCard prints the art on the left and the details on the right
func displayCard(c card.Record, art string) {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}

	var artLines []string
	artWidth := 0
	if art != "" {
		artLines = strings.Split(strings.TrimSuffix(art, "\n"), "\n")
		artWidth = ansi.Width(art)
	}

	gap := 4
	infoCol := artWidth + gap
	infoWidth := max(width-infoCol-2, 20)
	infoLines := cardInfoLines(c, infoWidth)

	fmt.Println()
	for i := 0; i < max(len(artLines), len(infoLines)); i++ {
		fmt.Print("  ")
		if artWidth > 0 {
			if i < len(artLines) {
				fmt.Print(artLines[i])
				fmt.Print(strings.Repeat(" ", infoCol-len([]rune(ansi.Strip(artLines[i])))))
			} else {
				fmt.Print(strings.Repeat(" ", infoCol))
			}
		}
		if i < len(infoLines) {
			fmt.Print(infoLines[i])
		}
		fmt.Println()
	}
	fmt.Println()
}
