package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgumentsShortFlags(t *testing.T) {
	opts, err := ParseArguments([]string{"-i", "a.jpg", "b.jpg", "-p", "80", "-s", "-t", "-N", "-T", "-H", "sha256", "-P", "-F", "-S"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.jpg", "b.jpg"}, opts.Inputs)
	assert.Equal(t, 80.0, opts.Tolerance)
	assert.True(t, opts.SimilarOnly)
	assert.True(t, opts.Table)
	assert.True(t, opts.ShowID)
	assert.True(t, opts.ShowTime)
	assert.Equal(t, []string{"sha256"}, opts.DisplayHashes)
	assert.True(t, opts.ShowPixelSize)
	assert.True(t, opts.ShowFileSize)
	assert.True(t, opts.ShowStats)
}

func TestParseArgumentsDefaults(t *testing.T) {
	opts, err := ParseArguments([]string{"--input", "dir,with,commas"})
	require.NoError(t, err)

	assert.Equal(t, []string{"dir,with,commas"}, opts.Inputs)
	assert.Equal(t, 100.0, opts.Tolerance)
	assert.Equal(t, "average", opts.Algorithm)
	assert.Equal(t, "all-pairs", opts.Pairing)
	assert.True(t, opts.AutoOrient)
	assert.Zero(t, opts.Workers)
}

func TestParseArgumentsLongFlags(t *testing.T) {
	opts, err := ParseArguments([]string{
		"photos", "--algorithm", "dct", "--hash-size", "16", "--pairing", "adjacent",
		"--ext", "png,jpg", "--extra-ext", "tif", "-r", "-w", "3", "--db", "fp.db",
		"-o", "out.csv", "--sort", "deviation", "--identical-only", "--auto-orient=false",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"photos"}, opts.Inputs)
	assert.Equal(t, "dct", opts.Algorithm)
	assert.Equal(t, 16, opts.HashSize)
	assert.Equal(t, "adjacent", opts.Pairing)
	assert.Equal(t, []string{"png", "jpg"}, opts.Extensions)
	assert.Equal(t, []string{"tif"}, opts.ExtraExtensions)
	assert.True(t, opts.Recursive)
	assert.Equal(t, 3, opts.Workers)
	assert.Equal(t, "fp.db", opts.Database)
	assert.Equal(t, "out.csv", opts.OutputFile)
	assert.Equal(t, "deviation", opts.Sort)
	assert.True(t, opts.IdenticalOnly)
	assert.False(t, opts.AutoOrient)
}

func TestParseArgumentsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdiff.yaml")
	require.NoError(t, os.WriteFile(path, []byte("inputs: [./photos]\ntolerance_percent: 70\nsimilar_only: true\nworkers: 2\n"), 0o644))

	opts, err := ParseArguments([]string{"--config", path, "-p", "90"})
	require.NoError(t, err)

	// flags given on the command line win, the rest comes from the file
	assert.Equal(t, 90.0, opts.Tolerance)
	assert.True(t, opts.SimilarOnly)
	assert.Equal(t, 2, opts.Workers)
	assert.Equal(t, []string{"./photos"}, opts.Inputs)
}

func TestParseArgumentsErrors(t *testing.T) {
	_, err := ParseArguments([]string{"--no-such-flag"})
	assert.Error(t, err)

	_, err = ParseArguments([]string{"-h"})
	assert.ErrorIs(t, err, ErrHelp)

	_, err = ParseArguments([]string{"--config", "/missing/pdiff.yaml"})
	assert.Error(t, err)
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)

	out := buf.String()
	assert.Contains(t, out, "--percent")
	assert.Contains(t, out, "--similar")
	assert.Contains(t, out, "--pairing")
}

func TestHumanReadableSize(t *testing.T) {
	assert.Equal(t, "0.00 B", HumanReadableSize(0))
	assert.Equal(t, "500.00 B", HumanReadableSize(500))
	assert.Equal(t, "1.00 KB", HumanReadableSize(1024))
	assert.Equal(t, "1.50 MB", HumanReadableSize(1536*1024))
	assert.Equal(t, "2048.00 TB", HumanReadableSize(2048*1024*1024*1024*1024))
}
