package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/cardsync/internal/card"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	records, err := Load(filepath.Join(t.TempDir(), "cards.json"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "cards.json")
	in := []card.Record{
		{"title": "Sure Gamble", "cost": 5},
		{"title": "Corroder", "breakcost": card.BreakCost{Credits: 1, Subroutines: 1}, "strengthcost": card.StrengthCost{Credits: 1, Strength: 1}},
	}
	require.NoError(t, Save(path, in))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"cards"`)
	assert.Contains(t, string(raw), `"strengthcost": 1`)

	out, err := Load(path)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Sure Gamble", out[0].TitleOrEmpty())

	bc, sc, err := out[1].Costs()
	require.NoError(t, err)
	assert.Equal(t, card.BreakCost{Credits: 1, Subroutines: 1}, bc)
	assert.Equal(t, card.StrengthCost{Credits: 1, Strength: 1}, sc)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestDecodeLayouts(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    int
		wantErr bool
	}{
		{"envelope", `{"cards":[{"title":"A"},{"title":"B"}]}`, 2, false},
		{"bare array", `[{"title":"A"}]`, 1, false},
		{"empty envelope", `{"cards":[]}`, 0, false},
		{"no cards key", `{"data":[]}`, 0, true},
		{"invalid", `{"cards":[`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Decode([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
		})
	}
}

func TestFind(t *testing.T) {
	records := []card.Record{{"title": "Accident"}, {"title": "Sure Gamble"}}

	r, err := Find(records, "Sure Gamble")
	require.NoError(t, err)
	assert.Equal(t, "Sure Gamble", r.TitleOrEmpty())

	_, err = Find(records, "Hedge Fund")
	assert.ErrorIs(t, err, ErrNotFound)
}
