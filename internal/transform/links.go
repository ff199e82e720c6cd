package transform

import (
	"encoding/json"
	"fmt"

	"github.com/arcanaland/cardsync/internal/card"
)

type cgdbEntry struct {
	Name string `json:"name"`
	FURL string `json:"furl"`
}

// LoadLinks reads a CardGameDB export ([{"name":..,"furl":..}]) into a
// title to URL map.
func LoadLinks(data []byte) (map[string]string, error) {
	var entries []cgdbEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode cardgamedb export: %w", err)
	}
	links := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Name == "" || e.FURL == "" {
			continue
		}
		links[e.Name] = e.FURL
	}
	return links, nil
}

// AttachLinks sets cgdb_url on each record with a matching title and returns
// how many were linked. Records without a match are left as they are.
func AttachLinks(records []card.Record, links map[string]string) int {
	n := 0
	for _, r := range records {
		if u, ok := links[r.TitleOrEmpty()]; ok {
			r[card.FieldCGDBURL] = u
			n++
		}
	}
	return n
}
