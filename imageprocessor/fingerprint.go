package imageprocessor

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Fingerprint is a fixed-length perceptual bit vector.
// Bit 0 is the top-left sample; bits are stored MSB first in 64-bit words.
type Fingerprint struct {
	words []uint64
	bits  int
}

// NewFingerprint creates an all-zero fingerprint of the given bit length
func NewFingerprint(bits int) Fingerprint {
	return Fingerprint{
		words: make([]uint64, (bits+63)/64),
		bits:  bits,
	}
}

// FingerprintFromBits builds a fingerprint from a slice of booleans in raster order
func FingerprintFromBits(values []bool) Fingerprint {
	fp := NewFingerprint(len(values))
	for i, v := range values {
		if v {
			fp.set(i)
		}
	}
	return fp
}

// ParseFingerprint decodes the output of Hex for a fingerprint of the given length
func ParseFingerprint(s string, bits int) (Fingerprint, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("invalid fingerprint %q: %w", s, err)
	}
	fp := NewFingerprint(bits)
	if len(raw) != len(fp.words)*8 {
		return Fingerprint{}, fmt.Errorf("invalid fingerprint %q: expected %d bytes, got %d", s, len(fp.words)*8, len(raw))
	}
	for i := range fp.words {
		var w uint64
		for _, b := range raw[i*8 : i*8+8] {
			w = w<<8 | uint64(b)
		}
		fp.words[i] = w
	}
	return fp, nil
}

func (f Fingerprint) set(i int) {
	f.words[i/64] |= 1 << (63 - uint(i%64))
}

// Len returns the number of bits
func (f Fingerprint) Len() int {
	return f.bits
}

// IsZero reports whether the fingerprint was never computed
func (f Fingerprint) IsZero() bool {
	return f.bits == 0
}

// Bit returns bit i in raster order
func (f Fingerprint) Bit(i int) bool {
	return f.words[i/64]&(1<<(63-uint(i%64))) != 0
}

// Equal reports whether two fingerprints have the same length and bits
func (f Fingerprint) Equal(other Fingerprint) bool {
	if f.bits != other.bits {
		return false
	}
	for i := range f.words {
		if f.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// Hex returns the fingerprint as zero-padded hexadecimal, 16 digits per word
func (f Fingerprint) Hex() string {
	var sb strings.Builder
	for _, w := range f.words {
		fmt.Fprintf(&sb, "%016x", w)
	}
	return sb.String()
}

// String returns the bits as a string of 0 and 1
func (f Fingerprint) String() string {
	var sb strings.Builder
	sb.Grow(f.bits)
	for i := 0; i < f.bits; i++ {
		if f.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
