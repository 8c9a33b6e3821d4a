package imageprocessor

import "math/bits"

// Distance returns the Hamming distance between a and b and the same
// distance as a percentage of the fingerprint length.
// Fingerprints of different lengths yield a *LengthMismatchError.
func Distance(a, b Fingerprint) (int, float64, error) {
	if a.bits != b.bits || len(a.words) != len(b.words) {
		return 0, 0, &LengthMismatchError{Left: a.bits, Right: b.bits}
	}
	if a.bits == 0 {
		return 0, 0, nil
	}

	raw := 0
	for i := range a.words {
		raw += bits.OnesCount64(a.words[i] ^ b.words[i])
	}
	return raw, float64(raw) / float64(a.bits) * 100, nil
}
