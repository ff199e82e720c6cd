package transform

import (
	"strings"

	"github.com/arcanaland/cardsync/internal/card"
)

// Filter returns the records whose title does not contain banned, in their
// original order. The input slice is not modified.
func Filter(records []card.Record, banned string) []card.Record {
	out := make([]card.Record, 0, len(records))
	for _, r := range records {
		if banned != "" && strings.Contains(r.TitleOrEmpty(), banned) {
			continue
		}
		out = append(out, r)
	}
	return out
}
