package transform

import (
	"log/slog"
	"regexp"
	"strconv"

	"github.com/arcanaland/cardsync/internal/card"
)

// breakerPattern matches the usual icebreaker wording:
//
//	<N1>[credit]: Break <N2> ... subroutine ... <N3>[credit]: +<N4> strength
//
// Any capture may be empty, in which case the figure defaults to 1.
var breakerPattern = regexp.MustCompile(`(?is)(\d*)\s*\[credits?\][^\d\[]*?(\d*)\D*?subroutine.*?(\d*)\s*\[credits?\].*?\+(\d*)`)

// BreakerCost holds the four figures read from an icebreaker's text.
type BreakerCost struct {
	BreakCredits   int
	BreakSubs      int
	StrengthCost   int
	StrengthAmount int
}

// DefaultBreakerCost is used when the text cannot be read.
var DefaultBreakerCost = BreakerCost{BreakCredits: 1, BreakSubs: 1, StrengthCost: 1, StrengthAmount: 1}

// Break returns the breakcost value stored on the card.
func (b BreakerCost) Break() card.BreakCost {
	return card.BreakCost{Credits: b.BreakCredits, Subroutines: b.BreakSubs}
}

// Strength returns the strengthcost value stored on the card.
func (b BreakerCost) Strength() card.StrengthCost {
	return card.StrengthCost{Credits: b.StrengthCost, Strength: b.StrengthAmount}
}

// ParseBreakerCost reads break and pump costs from rules text. ok is false
// when the text does not have the expected shape; the defaults are returned
// in that case.
//
// This is a heuristic over common card wording, not a rules text parser.
func ParseBreakerCost(text string) (BreakerCost, bool) {
	m := breakerPattern.FindStringSubmatch(text)
	if m == nil {
		return DefaultBreakerCost, false
	}
	return BreakerCost{
		BreakCredits:   atoiOr(m[1], 1),
		BreakSubs:      atoiOr(m[2], 1),
		StrengthCost:   atoiOr(m[3], 1),
		StrengthAmount: atoiOr(m[4], 1),
	}, true
}

// IsIcebreaker reports whether the raw record carries the icebreaker tag.
// It must be asked before Normalize, which strips subtype_code.
func (t *Transformer) IsIcebreaker(rec card.Record) bool {
	return rec.HasSubtype(t.opts.IcebreakerTag)
}

// ApplyBreakerCost sets breakcost and strengthcost on rec from its text.
// Unreadable text falls back to the defaults with a warning; it only returns
// an error when the text field is missing altogether.
func (t *Transformer) ApplyBreakerCost(rec card.Record) (degraded bool, err error) {
	text, err := rec.String(card.FieldText)
	if err != nil {
		return false, err
	}

	cost, ok := ParseBreakerCost(text)
	if !ok {
		t.logger.Warn("could not read icebreaker costs, using defaults",
			slog.String("title", rec.TitleOrEmpty()))
	}

	rec[card.FieldBreakCost] = cost.Break()
	rec[card.FieldStrengthCost] = cost.Strength()
	return !ok, nil
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
