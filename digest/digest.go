// Package digest computes plain cryptographic file digests for display.
// These digests identify file contents and play no part in image comparison.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

var constructors = map[string]func() hash.Hash{
	"md5":      md5.New,
	"sha1":     sha1.New,
	"sha224":   sha256.New224,
	"sha256":   sha256.New,
	"sha384":   sha512.New384,
	"sha512":   sha512.New,
	"sha3_224": sha3.New224,
	"sha3_256": sha3.New256,
	"sha3_384": sha3.New384,
	"sha3_512": sha3.New512,
	"blake2b":  newBlake2b,
	"blake2s":  newBlake2s,
}

// blake2b and blake2s use their largest digest sizes
func newBlake2b() hash.Hash {
	h, _ := blake2b.New512(nil)
	return h
}

func newBlake2s() hash.Hash {
	h, _ := blake2s.New256(nil)
	return h
}

// Normalize maps user spellings such as "SHA-256" or "sha3-256" to the canonical name
func Normalize(algorithm string) string {
	name := strings.ToLower(strings.TrimSpace(algorithm))
	name = strings.ReplaceAll(name, "-", "_")
	if strings.HasPrefix(name, "sha_") {
		name = "sha" + strings.TrimPrefix(name, "sha_")
	}
	return name
}

// Supported reports whether algorithm names a known digest
func Supported(algorithm string) bool {
	_, ok := constructors[Normalize(algorithm)]
	return ok
}

// Algorithms returns the canonical names of all known digests
func Algorithms() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sum returns the hex digest of the file at path
func Sum(path, algorithm string) (string, error) {
	newHash, ok := constructors[Normalize(algorithm)]
	if !ok {
		return "", fmt.Errorf("unsupported hash algorithm %q", algorithm)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := newHash()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("cannot hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
