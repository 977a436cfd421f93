package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"playharvest/pkg/config"
)

func newBufferLogger(buf *bytes.Buffer) *zerologLogger {
	zlog := zerolog.New(buf).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	return &zerologLogger{
		logger: &zlog,
		fields: make(map[string]interface{}),
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{"info level", &config.LoggingConfig{Level: "info"}, false},
		{"debug level", &config.LoggingConfig{Level: "debug"}, false},
		{"invalid level", &config.LoggingConfig{Level: "invalid"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := NewWithWriter(tt.cfg, &bytes.Buffer{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNewWithFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "harvest.log")
	var console bytes.Buffer

	log, err := NewWithWriter(&config.LoggingConfig{Level: "info", File: path}, &console)
	require.NoError(t, err)

	log.WithField("country", "us").Info("unit started")
	log.Debug("filtered out by level")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"unit started"`)
	assert.Contains(t, string(data), `"country":"us"`)
	assert.Contains(t, string(data), `"app":"playharvest"`)
	assert.NotContains(t, string(data), "filtered out by level")
	assert.Contains(t, console.String(), "unit started")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"invalid", zerolog.InfoLevel, true},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	for level, fn := range map[string]func(string){
		"debug": log.Debug,
		"info":  log.Info,
		"warn":  log.Warn,
		"error": log.Error,
	} {
		buf.Reset()
		fn(level + " message")
		assert.Contains(t, buf.String(), level+" message")
		assert.Contains(t, buf.String(), `"level":"`+level+`"`)
	}
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := newBufferLogger(&buf)

	child := parent.WithFields(map[string]interface{}{"category": "TOOLS", "page": 3})
	child.Info("child")
	assert.Contains(t, buf.String(), `"category":"TOOLS"`)
	assert.Contains(t, buf.String(), `"page":3`)

	buf.Reset()
	parent.Info("parent")
	assert.NotContains(t, buf.String(), "category")
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	assert.Same(t, log, log.WithError(nil))

	log.WithError(errors.New("gateway down")).Error("fetch failed")
	assert.Contains(t, buf.String(), "fetch failed")
	assert.Contains(t, buf.String(), "gateway down")
}

func TestFieldTypes(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.InfoWithFields("all types", map[string]interface{}{
		"string":   "test",
		"int":      123,
		"int64":    int64(456),
		"float":    3.5,
		"bool":     true,
		"time":     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"duration": 5 * time.Second,
		"strings":  []string{"a", "b"},
		"cause":    errors.New("boom"),
		"custom":   struct{ Name string }{Name: "x"},
	})

	out := buf.String()
	assert.Contains(t, out, `"int64":456`)
	assert.Contains(t, out, `"strings":["a","b"]`)
	assert.Contains(t, out, `"cause":"boom"`)
}

func TestFieldChaining(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.WithField("country", "us").
		WithField("category", "TOOLS").
		WithFields(map[string]interface{}{"page": 4}).
		Info("chained")

	out := buf.String()
	assert.True(t, strings.Contains(out, `"country":"us"`))
	assert.True(t, strings.Contains(out, `"category":"TOOLS"`))
	assert.True(t, strings.Contains(out, `"page":4`))
}

func TestGlobalLogger(t *testing.T) {
	test := NewTestLogger()
	SetLogger(test)
	defer SetLogger(nil)

	Info("global info")
	WithField("k", "v").Warn("global warn")
	WithError(errors.New("e")).Error("global error")

	assert.True(t, test.HasMessage("global info"))
	assert.Len(t, test.GetMessagesByLevel("WARN"), 1)
	assert.True(t, test.HasError())
}

func TestTestLoggerSharesSinkWithChildren(t *testing.T) {
	log := NewTestLogger()

	child := log.WithFields(UnitFields("us", "TOOLS", ""))
	child.WithError(errors.New("timeout")).ErrorWithFields("unit failed", map[string]interface{}{"page": 2})

	msgs := log.GetMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "ERROR", msgs[0].Level)
	assert.Equal(t, "us", msgs[0].Fields["country"])
	assert.Equal(t, "TOOLS", msgs[0].Fields["category"])
	assert.Equal(t, 2, msgs[0].Fields["page"])
	assert.EqualError(t, msgs[0].Error, "timeout")
	assert.NotContains(t, msgs[0].Fields, "collection")

	log.Clear()
	assert.Empty(t, log.GetMessages())
}

func TestHelpers(t *testing.T) {
	log := NewTestLogger()

	LogPage(log, 1, 2500, 12, 40)
	LogRetry(log, 1, 1500*time.Millisecond, errors.New("503"))
	LogRequest(log, "GET", "http://x", 503, time.Second)

	assert.True(t, log.HasMessage("page processed"))
	warn := log.GetMessagesByLevel("WARN")
	require.Len(t, warn, 1)
	assert.Equal(t, int64(1500), warn[0].Fields["delay_ms"])
	assert.True(t, log.HasMessage("HTTP request server error"))
}
