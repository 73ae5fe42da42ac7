package source

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"main.lua", "local x = 1\nreturn x\n"},
		{"empty.lua", ""},
		{"unicode.luma", "let s = \"héllo\";"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			assert.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			f, err := Open(path)
			assert.NoError(t, err)
			assert.Equal(t, tt.content, string(f.Bytes()))
			assert.Equal(t, len(tt.content), f.Len())
			assert.NoError(t, f.Close())
			assert.NoError(t, f.Close())
			assert.Zero(t, f.Len())
		})
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "missing.lua"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = Open(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestFromBytes(t *testing.T) {
	f := FromBytes("<stdin>", []byte("return 1"))
	assert.Equal(t, "<stdin>", f.Name)
	assert.Equal(t, "return 1", string(f.Bytes()))
	assert.NoError(t, f.Close())
}
