package comparator

import (
	"fmt"
	"strings"

	"pdiff/database"
	"pdiff/imageprocessor"
	"pdiff/types"
)

// PairingPolicy selects which pairs are compared in directory mode
type PairingPolicy string

// Supported pairing policies
const (
	// PairingAllPairs compares every image with every other image
	PairingAllPairs PairingPolicy = "all-pairs"
	// PairingAdjacent compares each image with the next one in collection order
	PairingAdjacent PairingPolicy = "adjacent"
)

// ParsePairingPolicy accepts a policy name. Empty selects all-pairs.
func ParsePairingPolicy(s string) (PairingPolicy, error) {
	switch PairingPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case PairingAllPairs, "all", "":
		return PairingAllPairs, nil
	case PairingAdjacent, "sequential":
		return PairingAdjacent, nil
	default:
		return "", fmt.Errorf("unknown pairing policy %q (supported: %s, %s)", s, PairingAllPairs, PairingAdjacent)
	}
}

// Pair is one scheduled comparison. Index is its position in enumeration order.
type Pair struct {
	Index int
	A     int
	B     int
}

// FingerprintStore is the persistent fingerprint index consulted by the cache
type FingerprintStore interface {
	Lookup(info types.ImageInfo, algorithm string, hashSize int) (*database.StoredFingerprint, bool, error)
	Store(info types.ImageInfo, algorithm string, hashSize int, bits int, hash string) error
}

// Options configures one comparison run
type Options struct {
	Tolerance  Tolerance
	Pairing    PairingPolicy
	Workers    int
	Recursive  bool
	Extensions imageprocessor.ExtensionSet
	Store      FingerprintStore

	// Progress receives one event per finished pair when set
	Progress chan<- PairEvent
}

// PairEvent reports the completion of one pair
type PairEvent struct {
	Pair    Pair
	Skipped bool
}

// SkippedPair is a pair that produced no result because one of its images failed
type SkippedPair struct {
	Index  int    `json:"-"`
	Image1 string `json:"image1"`
	Image2 string `json:"image2"`
	Reason string `json:"reason"`
}

// Run is everything one comparison run produced
type Run struct {
	// Images are the collected paths in collection order
	Images      []string
	TwoFileMode bool
	Pairing     PairingPolicy
	Algorithm   string
	Bits        int

	// Results holds evaluated pairs in enumeration order
	Results       []types.ComparisonResult
	SkippedPairs  []SkippedPair
	SkippedImages []types.SkippedImage

	// Infos holds the metadata of every successfully fingerprinted image
	Infos map[string]types.ImageInfo

	// Cancelled is set when scheduling stopped before every pair ran
	Cancelled bool
}
