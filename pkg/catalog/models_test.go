package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{"epoch millis", `1717200000000`, time.UnixMilli(1717200000000).UTC(), false},
		{"epoch millis as string", `"1717200000000"`, time.UnixMilli(1717200000000).UTC(), false},
		{"rfc3339", `"2024-06-01T10:00:00Z"`, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), false},
		{"date", `"2024-06-01"`, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), false},
		{"null", `null`, time.Time{}, false},
		{"zero", `0`, time.Time{}, false},
		{"empty string", `""`, time.Time{}, false},
		{"garbage", `"last tuesday"`, time.Time{}, true},
		{"human date", `"Jun 1, 2024"`, time.Time{}, true},
		{"boolean", `true`, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parseTimestamp([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.True(t, tt.expected.Equal(parsed), "got %v", parsed)
			}

			var ts Timestamp
			require.NoError(t, ts.UnmarshalJSON([]byte(tt.input)))
			assert.True(t, tt.expected.Equal(ts.Time), "got %v", ts.Time)
		})
	}
}

func TestAppDecodingDefaults(t *testing.T) {
	var app App
	require.NoError(t, json.Unmarshal([]byte(`{"appId":"com.x"}`), &app))

	assert.Equal(t, "com.x", app.AppID)
	assert.Empty(t, app.Title)
	assert.Zero(t, app.Ratings)
	assert.True(t, app.Updated.IsZero())
	assert.Equal(t, "", app.CategoryNames())
}

func TestCountUnmarshal(t *testing.T) {
	tests := []struct {
		input    string
		expected Count
	}{
		{`42`, 42},
		{`12.5`, 12},
		{`"1,234"`, 1234},
		{`"n/a"`, 0},
		{`-3`, 0},
		{`null`, 0},
		{`{}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var c Count = 99
			require.NoError(t, c.UnmarshalJSON([]byte(tt.input)))
			assert.Equal(t, tt.expected, c)
		})
	}
}

func TestAppDecodingLenientFields(t *testing.T) {
	var app App
	require.NoError(t, json.Unmarshal([]byte(`{"appId":"com.x","ratings":12.5,"updated":"Jun 1, 2024"}`), &app))

	assert.Equal(t, Count(12), app.Ratings)
	assert.True(t, app.Updated.IsZero())
}

func TestCategoryNames(t *testing.T) {
	app := App{Categories: []Category{{Name: "Tools", ID: "TOOLS"}, {Name: "Productivity", ID: "PRODUCTIVITY"}}}
	assert.Equal(t, "Tools, Productivity", app.CategoryNames())
}

func TestTimestampMarshalRoundTrip(t *testing.T) {
	in := App{AppID: "com.y", Updated: At(time.UnixMilli(1700000000000).UTC())}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out App
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, in.Updated.Equal(out.Updated.Time))

	data, err = json.Marshal(App{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"updated":null`)
}

func TestVocabulary(t *testing.T) {
	assert.Len(t, Categories, 53)
	assert.True(t, IsCategory("TOOLS"))
	assert.False(t, IsCategory("tools"))
	assert.True(t, IsCollection("GROSSING"))
	assert.False(t, IsCollection("NEW_FREE"))
}
