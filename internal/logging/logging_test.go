package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New("warn", "json", &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "room_number", "001")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "001", entry["room_number"])

	buf.Reset()
	text, err := New("debug", "text", &buf)
	require.NoError(t, err)
	text.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")

	_, err = New("loud", "json", &buf)
	assert.Error(t, err)
	_, err = New("info", "xml", &buf)
	assert.Error(t, err)
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	logger, err := New("info", "text", &bytes.Buffer{})
	require.NoError(t, err)

	ctx := ContextWithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
	assert.Equal(t, context.Background(), ContextWithLogger(context.Background(), nil))
}
