package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowOrderMatchesColumns(t *testing.T) {
	app := App{
		Title:        "Torch",
		AppID:        "com.torch",
		Installs:     "5,000+",
		InstallCount: 5000,
		Price:        0,
		Category:     "Tools",
		Updated:      "2024-05-30",
		Country:      "us",
	}

	row := app.Row()
	require.Len(t, row, len(Columns))
	assert.Equal(t, Columns, row.Keys())

	values := row.Values()
	assert.Equal(t, "Torch", values[0])
	assert.Equal(t, "com.torch", values[1])
	assert.Equal(t, int64(5000), values[3])
	assert.Equal(t, "us", values[len(values)-1])
}

func TestColumnsMatchJSONTags(t *testing.T) {
	data, err := json.Marshal(App{})
	require.NoError(t, err)

	// encoding/json writes fields in declaration order
	last := -1
	for _, col := range Columns {
		idx := strings.Index(string(data), `"`+col+`"`)
		require.GreaterOrEqual(t, idx, 0, "missing %s", col)
		assert.Greater(t, idx, last, "column %s out of order", col)
		last = idx
	}
}

func TestSeenSet(t *testing.T) {
	seen := NewSeenSet([]App{{AppID: "a"}, {AppID: "b"}})

	assert.True(t, seen.Has("a"))
	assert.False(t, seen.Has("c"))

	seen.Add("c")
	assert.True(t, seen.Has("c"))
	assert.Len(t, seen, 3)
}

func TestRows(t *testing.T) {
	rows := Rows([]App{{AppID: "a"}, {AppID: "b"}})
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[1].Values()[1])
}
