package imageprocessor

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	registry := NewImageLoaderRegistry(false)
	// keep OpenCV out of unit tests
	registry.SetFallbackLoader(nil)

	hasher, err := NewHasher(AlgorithmAverage, DefaultHashSize)
	require.NoError(t, err)
	return NewEngine(registry, hasher, nil)
}

func TestEngineFingerprint(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "split.png", splitImage(120, 80))

	engine := newTestEngine(t)
	fp, info, err := engine.Fingerprint(path)
	require.NoError(t, err)

	assert.Equal(t, 64, fp.Len())
	assert.Equal(t, path, info.Path)
	assert.Equal(t, string(FormatPNG), info.Format)
	assert.Equal(t, 120, info.Width)
	assert.Equal(t, 80, info.Height)
	assert.Positive(t, info.Size)
	assert.False(t, info.ModifiedAt.IsZero())
	assert.Equal(t, fp.Hex(), info.Fingerprint)

	again, _, err := engine.Fingerprint(path)
	require.NoError(t, err)
	assert.True(t, fp.Equal(again))
}

func TestEngineIdenticalPixelsGiveIdenticalFingerprints(t *testing.T) {
	dir := t.TempDir()
	img := gradientImage(64, 64, false)
	a := writePNG(t, dir, "a.png", img)
	b := writePNG(t, dir, "b.png", img)

	engine := newTestEngine(t)
	fpA, _, err := engine.Fingerprint(a)
	require.NoError(t, err)
	fpB, _, err := engine.Fingerprint(b)
	require.NoError(t, err)

	raw, percent, err := Distance(fpA, fpB)
	require.NoError(t, err)
	assert.Zero(t, raw)
	assert.Zero(t, percent)
}

func TestEngineErrors(t *testing.T) {
	dir := t.TempDir()
	engine := newTestEngine(t)

	t.Run("corrupt", func(t *testing.T) {
		path := writeFile(t, dir, "broken.png", []byte("definitely not a png"))
		_, _, err := engine.Fingerprint(path)

		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, path, decodeErr.Path)
	})

	t.Run("unsupported", func(t *testing.T) {
		path := writeFile(t, dir, "notes.txt", []byte("hello"))
		_, _, err := engine.Fingerprint(path)

		var unsupported *UnsupportedFormatError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, ".txt", unsupported.Ext)
	})

	t.Run("missing", func(t *testing.T) {
		_, _, err := engine.Fingerprint(dir + "/missing.png")

		var decodeErr *DecodeError
		assert.ErrorAs(t, err, &decodeErr)
	})
}

func TestProbeDimensions(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "small.png", solidImage(17, 9, color.White))

	w, h, err := ProbeDimensions(path)
	require.NoError(t, err)
	assert.Equal(t, 17, w)
	assert.Equal(t, 9, h)

	_, _, err = ProbeDimensions(writeFile(t, dir, "bad.png", []byte("nope")))
	assert.Error(t, err)
}

func TestExtensionSet(t *testing.T) {
	defaults := NewExtensionSet(nil)
	assert.Equal(t, []string{".bmp", ".gif", ".jpeg", ".jpg", ".png", ".ppm", ".tiff", ".webp"}, defaults.List())
	assert.True(t, defaults.Allows("/x/photo.JPG"))
	assert.False(t, defaults.Allows("/x/photo.tif"))

	extended := NewExtensionSet(nil, "TIF", ".heic")
	assert.True(t, extended.Allows("scan.tif"))
	assert.True(t, extended.Allows("phone.HEIC"))

	replaced := NewExtensionSet([]string{"png"})
	assert.Equal(t, []string{".png"}, replaced.List())
}

func TestRegistryLookup(t *testing.T) {
	registry := NewImageLoaderRegistry(true)

	assert.True(t, registry.CanLoadFile("a.jpeg"))
	assert.True(t, registry.CanLoadFile("a.PPM"))
	assert.False(t, registry.CanLoadFile("a.heic"))
	assert.IsType(t, &GocvImageLoader{}, registry.GetLoader("a.pgm"))
	assert.IsType(t, &StandardImageLoader{}, registry.GetLoader("a.webp"))
}

func TestRegistryRejectsLoaderForForeignFormat(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "phone.heic", gradientImage(16, 16, false))

	registry := NewImageLoaderRegistry(false)
	registry.SetFallbackLoader(nil)
	registry.RegisterLoader("heic", NewStandardImageLoader(false))

	_, err := registry.LoadImage(path)
	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, ".heic", unsupported.Ext)
}

func TestFingerprintImageMatchesFile(t *testing.T) {
	dir := t.TempDir()
	img := splitImage(64, 64)
	path := writePNG(t, dir, "split.png", img)

	engine := newTestEngine(t)
	fromFile, _, err := engine.Fingerprint(path)
	require.NoError(t, err)
	fromImage, err := engine.FingerprintImage(img)
	require.NoError(t, err)
	assert.True(t, fromFile.Equal(fromImage))
}

func TestIsKnownFormat(t *testing.T) {
	assert.True(t, IsKnownFormat("a.JPG"))
	assert.True(t, IsKnownFormat("a.pgm"))
	assert.False(t, IsKnownFormat("a.heic"))
	assert.False(t, IsKnownFormat("noext"))
}
