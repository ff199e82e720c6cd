package transform

import (
	"strings"

	"github.com/arcanaland/cardsync/internal/card"
)

// Slug lower-cases title, turns spaces into hyphens and drops every other
// character outside [a-z0-9-].
func Slug(title string) string {
	lowered := strings.ReplaceAll(strings.ToLower(title), " ", "-")

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ImagePath is the path the web app serves a card's image from.
func (t *Transformer) ImagePath(title string) string {
	return t.opts.ImagePrefix + Slug(title) + ".png"
}

// Normalize returns a copy of rec with nrdb_url and imagesrc derived and the
// removal set stripped. rec itself is left untouched.
func (t *Transformer) Normalize(rec card.Record) (card.Record, error) {
	title, err := rec.Title()
	if err != nil {
		return nil, err
	}

	out := rec.Clone()

	// A record that already went through Normalize has nrdb_url but no url.
	if rec.Has(card.FieldURL) {
		url, err := rec.String(card.FieldURL)
		if err != nil {
			return nil, err
		}
		out[card.FieldNRDBURL] = url
	} else if !rec.Has(card.FieldNRDBURL) {
		return nil, &card.FieldError{Title: title, Field: card.FieldURL}
	}

	out[card.FieldImageSrc] = t.ImagePath(title)

	for _, field := range t.opts.RemoveFields {
		delete(out, field)
	}

	return out, nil
}
