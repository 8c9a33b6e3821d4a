package digest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumKnownDigests(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	tests := map[string]string{
		"md5":      "5d41402abc4b2a76b9719d911017c592",
		"sha1":     "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d",
		"sha256":   "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		"SHA-256":  "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		"sha3_256": "3338be694f50c5f338814986cdf0686453a888b84f424d792af4b9202398f392",
	}
	for algorithm, want := range tests {
		got, err := Sum(path, algorithm)
		require.NoError(t, err, algorithm)
		assert.Equal(t, want, got, algorithm)
	}
}

func TestSumLengths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))

	lengths := map[string]int{
		"sha224":   56,
		"sha384":   96,
		"sha512":   128,
		"sha3_224": 56,
		"sha3_384": 96,
		"sha3_512": 128,
		"blake2b":  128,
		"blake2s":  64,
	}
	for algorithm, want := range lengths {
		got, err := Sum(path, algorithm)
		require.NoError(t, err, algorithm)
		assert.Len(t, got, want, algorithm)
	}
}

func TestSumErrors(t *testing.T) {
	_, err := Sum("/does/not/matter", "crc32")
	assert.Error(t, err)

	_, err = Sum(filepath.Join(t.TempDir(), "missing"), "md5")
	assert.Error(t, err)
}

func TestSupportedAndNormalize(t *testing.T) {
	assert.True(t, Supported("SHA3-512"))
	assert.True(t, Supported("blake2b"))
	assert.False(t, Supported("whirlpool"))
	assert.Equal(t, "sha3_256", Normalize("SHA3-256"))
	assert.Equal(t, "sha512", Normalize("sha-512"))
	assert.Len(t, Algorithms(), 12)
}
