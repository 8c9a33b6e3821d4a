package comparator

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"pdiff/imageprocessor"

	"github.com/stretchr/testify/require"
)

// patternImage draws vertical stripes whose width depends on seed,
// so different seeds give different fingerprints
func patternImage(seed int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	stripe := seed%7 + 2
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := uint8(30)
			if ((x+seed)/stripe+(y/(seed%5+3)))%2 == 0 {
				v = 220
			}
			img.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// writeImages creates n distinct PNG images named img00.png, img01.png, ...
func writeImages(t *testing.T, dir string, n int) []string {
	t.Helper()
	paths := make([]string, n)
	for i := 0; i < n; i++ {
		paths[i] = writePNG(t, dir, fmt.Sprintf("img%02d.png", i), patternImage(i))
	}
	return paths
}

func newTestEngine(t *testing.T) *imageprocessor.Engine {
	t.Helper()
	registry := imageprocessor.NewImageLoaderRegistry(false)
	registry.SetFallbackLoader(nil)

	hasher, err := imageprocessor.NewHasher(imageprocessor.AlgorithmAverage, imageprocessor.DefaultHashSize)
	require.NoError(t, err)
	return imageprocessor.NewEngine(registry, hasher, nil)
}

func newTestComparator(t *testing.T, tolerance float64, pairing PairingPolicy) *Comparator {
	t.Helper()
	tol, err := NewTolerance(tolerance)
	require.NoError(t, err)
	return New(newTestEngine(t), Options{
		Tolerance:  tol,
		Pairing:    pairing,
		Workers:    4,
		Extensions: imageprocessor.NewExtensionSet(nil),
	})
}
