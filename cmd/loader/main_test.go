package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvc-advising/transferbot-go/internal/campus"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
}

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "ucb_fall25.json")
	touch(t, dir, "ucd_fall25.json")
	touch(t, dir, "calendar.json")   // "cal" is a UCB alias but not a key
	touch(t, dir, "notes_ucsd.json") // campus token not in prefix position
	touch(t, dir, "readme.txt")

	files, err := discoverFiles(dir)
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "ucb_fall25.json"), files[campus.UCB])
	assert.Equal(t, filepath.Join(dir, "ucd_fall25.json"), files[campus.UCD])
	_, ok := files[campus.UCSD]
	assert.False(t, ok)
}

func TestDiscoverFilesFirstPerCampusWins(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "ucb_a.json")
	touch(t, dir, "ucb_b.json")

	files, err := discoverFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ucb_a.json"), files[campus.UCB])
}
