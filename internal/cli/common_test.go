package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/luma-lang/luma/internal/config"
)

func TestPrintVersionText(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, PrintVersion(&buf, "luma", false))
	assert.Contains(t, buf.String(), "luma v"+config.Version)
	assert.Contains(t, buf.String(), "Go Version:")
	assert.NotContains(t, buf.String(), "Commit:")
}

func TestPrintVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, PrintVersion(&buf, "luma", true))

	var out struct {
		Tool        string      `json:"tool"`
		VersionInfo VersionInfo `json:"version_info"`
	}
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "luma", out.Tool)
	assert.Equal(t, config.Version, out.VersionInfo.Version)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
	assert.Equal(t, 2, ExitCode(&ExitError{Code: 2}))
	assert.Equal(t, 3, ExitCode(fmt.Errorf("check: %w", &ExitError{Code: 3, Err: errors.New("x")})))
	assert.Equal(t, "exit status 2", (&ExitError{Code: 2}).Error())
}
