package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFormats(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info", "json").Info("table created", "table", "offers")
	assert.Contains(t, buf.String(), `"table":"offers"`)

	buf.Reset()
	New(&buf, "info", "text").Info("table created", "table", "offers")
	assert.Contains(t, buf.String(), "table=offers")
}

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "text")
	log.Info("hidden")
	assert.Empty(t, buf.String())

	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}
