package imageprocessor

import "fmt"

// DecodeError is returned when an image file exists but cannot be decoded
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to decode image: %s", e.Path)
	}
	return fmt.Sprintf("failed to decode image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// UnsupportedFormatError is returned when no loader handles the file's extension
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	ext := e.Ext
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("unsupported image format %s: %s", ext, e.Path)
}

// LengthMismatchError means two fingerprints of different lengths were compared.
// All fingerprints from one engine share a length, so this indicates a bug.
type LengthMismatchError struct {
	Left  int
	Right int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("fingerprint length mismatch: %d bits vs %d bits", e.Left, e.Right)
}

func newDecodeError(path string, err error) error {
	return &DecodeError{Path: path, Err: err}
}
