package config

import (
	"os"
	"path/filepath"
	"testing"

	"pdiff/comparator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	opts := Default()
	require.NoError(t, opts.Validate())

	assert.Equal(t, 100.0, opts.Tolerance)
	assert.Equal(t, "average", opts.Algorithm)
	assert.Equal(t, 8, opts.HashSize)
	assert.Equal(t, "all-pairs", opts.Pairing)
	assert.False(t, opts.SimilarOnly)
	assert.Equal(t, []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tiff", ".webp", ".ppm"}, opts.Extensions)
}

func TestValidateRejects(t *testing.T) {
	tests := map[string]func(o *Options){
		"negative tolerance":  func(o *Options) { o.Tolerance = -5 },
		"tolerance above 100": func(o *Options) { o.Tolerance = 101 },
		"hash size":           func(o *Options) { o.HashSize = 10 },
		"algorithm":           func(o *Options) { o.Algorithm = "wavelet" },
		"pairing":             func(o *Options) { o.Pairing = "random" },
		"sort":                func(o *Options) { o.Sort = "size" },
		"workers":             func(o *Options) { o.Workers = -1 },
		"display hash":        func(o *Options) { o.DisplayHashes = []string{"crc32"} },
		"html report":         func(o *Options) { o.OutputFile = "report.html" },
		"format without file": func(o *Options) { o.OutputFormat = "csv" },
		"unknown format":      func(o *Options) { o.OutputFile = "out"; o.OutputFormat = "xml" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			opts := Default()
			mutate(&opts)
			assert.Error(t, opts.Validate())
		})
	}
}

func TestValidateNormalizes(t *testing.T) {
	opts := Default()
	opts.Pairing = "Adjacent"
	opts.Sort = "difference"
	opts.DisplayHashes = []string{"SHA-256", "sha3-512"}
	opts.OutputFile = "results.JSON"

	require.NoError(t, opts.Validate())
	assert.Equal(t, "adjacent", opts.Pairing)
	assert.Equal(t, "deviation", opts.Sort)
	assert.Equal(t, []string{"sha256", "sha3_512"}, opts.DisplayHashes)
	assert.Equal(t, FormatJSON, opts.OutputFormat)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdiff.yaml")
	content := `
inputs: [./photos]
tolerance_percent: 80
similar_only: true
pairing: adjacent
extra_extensions: [tif]
hash_algorithm_for_display: [md5]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	opts, err := LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, opts.Validate())

	assert.Equal(t, []string{"./photos"}, opts.Inputs)
	assert.Equal(t, 80.0, opts.Tolerance)
	assert.True(t, opts.SimilarOnly)
	assert.Equal(t, "adjacent", opts.Pairing)
	// unset keys keep their defaults
	assert.Equal(t, "average", opts.Algorithm)
	assert.True(t, opts.ExtensionSet().Allows("scan.tif"))
	assert.True(t, opts.ExtensionSet().Allows("photo.jpg"))
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tolerance: 80\n"), 0o644))
	_, err = LoadFile(path)
	assert.Error(t, err, "unknown keys are rejected")
}

func TestComparatorOptions(t *testing.T) {
	opts := Default()
	opts.Tolerance = 80
	opts.Pairing = "adjacent"
	opts.Workers = 3
	opts.Extensions = []string{"png"}

	cmp, err := opts.ComparatorOptions()
	require.NoError(t, err)
	assert.Equal(t, 20.0, cmp.Tolerance.MaxAllowedDeviation())
	assert.Equal(t, comparator.PairingAdjacent, cmp.Pairing)
	assert.Equal(t, 3, cmp.Workers)
	assert.Equal(t, []string{".png"}, cmp.Extensions.List())

	opts.ShowID = true
	opts.Sort = "deviation"
	agg := opts.AggregateOptions()
	assert.True(t, agg.NumberResults)
	assert.Equal(t, comparator.SortDeviation, agg.Sort)
}
