package imageprocessor

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
)

// Supported perceptual hash algorithms
const (
	AlgorithmAverage    = "average"
	AlgorithmDifference = "difference"
	AlgorithmDCT        = "dct"
)

// DefaultHashSize is the grid edge length; 8 gives 64-bit fingerprints
const DefaultHashSize = 8

// Algorithms lists the accepted algorithm names
func Algorithms() []string {
	return []string{AlgorithmAverage, AlgorithmDifference, AlgorithmDCT}
}

// Hasher turns a decoded image into a fingerprint of a fixed bit length
type Hasher interface {
	Name() string
	Size() int
	Bits() int
	Hash(img image.Image) (Fingerprint, error)
}

// NewHasher returns the hasher for algorithm producing size*size bits
func NewHasher(algorithm string, size int) (Hasher, error) {
	if size <= 0 || size%8 != 0 {
		return nil, fmt.Errorf("hash size must be a positive multiple of 8, got %d", size)
	}
	switch strings.ToLower(algorithm) {
	case AlgorithmAverage, "ahash", "":
		return &AverageHasher{size: size}, nil
	case AlgorithmDifference, "dhash":
		return &DifferenceHasher{size: size}, nil
	case AlgorithmDCT, "phash", "perceptual":
		// the DCT needs a power-of-two sample count
		if n := size * size; n&(n-1) != 0 {
			return nil, fmt.Errorf("dct hash size must be a power of two, got %d", size)
		}
		return &PerceptionHasher{size: size}, nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q (supported: %s)", algorithm, strings.Join(Algorithms(), ", "))
	}
}

var errEmptyImage = errors.New("cannot compute hash for empty image")

func checkImage(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return errEmptyImage
	}
	return nil
}

// grayGrid resizes img to w x h, discarding aspect ratio, and returns
// row-major luminance samples. Luminance is 0.299R + 0.587G + 0.114B scaled
// by 1000 so sums and comparisons stay exact.
func grayGrid(img image.Image, w, h int) []int {
	resized := imaging.Resize(img, w, h, imaging.Lanczos)

	samples := make([]int, 0, w*h)
	for y := 0; y < h; y++ {
		row := resized.Pix[y*resized.Stride : y*resized.Stride+w*4]
		for x := 0; x < w; x++ {
			r, g, b := int(row[x*4]), int(row[x*4+1]), int(row[x*4+2])
			samples = append(samples, 299*r+587*g+114*b)
		}
	}
	return samples
}

// AverageHasher compares every sample of a size x size grid with the grid mean
type AverageHasher struct {
	size int
}

func (h *AverageHasher) Name() string { return AlgorithmAverage }

func (h *AverageHasher) Size() int { return h.size }

func (h *AverageHasher) Bits() int { return h.size * h.size }

// Hash computes the average hash: bit i is set when sample i >= mean
func (h *AverageHasher) Hash(img image.Image) (Fingerprint, error) {
	if err := checkImage(img); err != nil {
		return Fingerprint{}, err
	}

	samples := grayGrid(img, h.size, h.size)

	sum := 0
	for _, v := range samples {
		sum += v
	}

	// v >= sum/n, kept in integers
	n := len(samples)
	fp := NewFingerprint(n)
	for i, v := range samples {
		if v*n >= sum {
			fp.set(i)
		}
	}
	return fp, nil
}

// DifferenceHasher compares each sample with its right-hand neighbour
type DifferenceHasher struct {
	size int
}

func (h *DifferenceHasher) Name() string { return AlgorithmDifference }

func (h *DifferenceHasher) Size() int { return h.size }

func (h *DifferenceHasher) Bits() int { return h.size * h.size }

// Hash computes the difference hash over a (size+1) x size grid
func (h *DifferenceHasher) Hash(img image.Image) (Fingerprint, error) {
	if err := checkImage(img); err != nil {
		return Fingerprint{}, err
	}

	w := h.size + 1
	samples := grayGrid(img, w, h.size)

	fp := NewFingerprint(h.Bits())
	for y := 0; y < h.size; y++ {
		for x := 0; x < h.size; x++ {
			if samples[y*w+x] < samples[y*w+x+1] {
				fp.set(y*h.size + x)
			}
		}
	}
	return fp, nil
}

// PerceptionHasher is the DCT variant: low frequency coefficients against their median
type PerceptionHasher struct {
	size int
}

func (h *PerceptionHasher) Name() string { return AlgorithmDCT }

func (h *PerceptionHasher) Size() int { return h.size }

func (h *PerceptionHasher) Bits() int { return h.size * h.size }

// Hash delegates to goimagehash, which resizes, transforms and thresholds
func (h *PerceptionHasher) Hash(img image.Image) (Fingerprint, error) {
	if err := checkImage(img); err != nil {
		return Fingerprint{}, err
	}

	ext, err := goimagehash.ExtPerceptionHash(img, h.size, h.size)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("cannot compute perceptual hash: %w", err)
	}

	words := ext.GetHash()
	if ext.Bits() != h.Bits() || len(words)*64 < h.Bits() {
		return Fingerprint{}, fmt.Errorf("perceptual hash returned %d bits, expected %d", ext.Bits(), h.Bits())
	}

	fp := NewFingerprint(h.Bits())
	copy(fp.words, words)
	return fp, nil
}
