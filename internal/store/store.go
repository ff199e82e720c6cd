// Package store reads and writes the local card database file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/arcanaland/cardsync/internal/card"
)

// ErrNotFound is returned by Find when no card has the requested title.
var ErrNotFound = errors.New("card not found")

type document struct {
	Cards []card.Record `json:"cards"`
}

// Load reads the card store at path. A missing file is an empty store so the
// first refresh can create it.
func Load(path string) ([]card.Record, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []card.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	records, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("store: %s: %w", path, err)
	}
	return records, nil
}

// Decode accepts both {"cards":[...]} and a bare array of cards.
func Decode(data []byte) ([]card.Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}

	root := gjson.ParseBytes(data)
	list := root
	if !root.IsArray() {
		list = root.Get("cards")
		if !list.IsArray() {
			return nil, fmt.Errorf("no cards array found")
		}
	}

	records := []card.Record{}
	if err := json.Unmarshal([]byte(list.Raw), &records); err != nil {
		return nil, fmt.Errorf("decode cards: %w", err)
	}
	return records, nil
}

// Save writes records as {"cards":[...]}: tmp file, fsync, rename.
func Save(path string, records []card.Record) error {
	if records == nil {
		records = []card.Record{}
	}
	data, err := json.MarshalIndent(document{Cards: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	data = append(data, '\n')
	return WriteFileAtomic(path, data)
}

// WriteFileAtomic replaces path with content without leaving a partial file.
func WriteFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cardsync-tmp-*")
	if err != nil {
		return fmt.Errorf("store: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("store: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("store: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("store: rename: %w", err)
	}
	success = true
	return nil
}

// Find returns the card with exactly this title.
func Find(records []card.Record, title string) (card.Record, error) {
	for _, r := range records {
		if r.TitleOrEmpty() == title {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, title)
}
