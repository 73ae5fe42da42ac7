package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/sirupsen/logrus"
)

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("debug", FormatText, &buf)
	assert.NoError(t, err)

	log.WithField("file", "main.lua").Debug("recovered")
	out := buf.String()
	assert.Contains(t, out, "level=debug")
	assert.Contains(t, out, "msg=recovered")
	assert.Contains(t, out, "file=main.lua")
	assert.NotContains(t, out, "time=")
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", FormatJSON, &buf)
	assert.NoError(t, err)

	log.Debug("hidden")
	assert.Zero(t, buf.Len())

	log.WithField("errors", 2).Info("parsed file")
	var entry map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "parsed file", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal[any](t, float64(2), entry["errors"])
}

func TestNewErrors(t *testing.T) {
	_, err := New("loud", FormatText, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New("info", "xml", &bytes.Buffer{})
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestDiscard(t *testing.T) {
	log := Discard()
	assert.Equal(t, logrus.PanicLevel, log.GetLevel())
	log.Error("dropped")
}
