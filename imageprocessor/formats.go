package imageprocessor

import (
	"path/filepath"
	"sort"
	"strings"
)

// FormatType represents a known image format type
type FormatType string

// Known image format constants
const (
	FormatUnknown FormatType = "unknown"
	FormatJPEG    FormatType = "jpeg"
	FormatPNG     FormatType = "png"
	FormatGIF     FormatType = "gif"
	FormatTIFF    FormatType = "tiff"
	FormatBMP     FormatType = "bmp"
	FormatWEBP    FormatType = "webp"
	FormatPNM     FormatType = "pnm"
)

// DefaultExtensions is the baseline allow-list used when collecting images
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tiff", ".webp", ".ppm"}

// Map of extensions to format types
var formatExtensions = map[string]FormatType{
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".png":  FormatPNG,
	".gif":  FormatGIF,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
	".bmp":  FormatBMP,
	".webp": FormatWEBP,

	// Netpbm family, decoded through OpenCV
	".ppm": FormatPNM,
	".pgm": FormatPNM,
	".pbm": FormatPNM,
	".pnm": FormatPNM,
}

// GetFileFormat returns the format type based on file extension
func GetFileFormat(path string) FormatType {
	format, exists := formatExtensions[Ext(path)]
	if !exists {
		return FormatUnknown
	}
	return format
}

// IsKnownFormat reports whether a decoder exists for the file's extension
func IsKnownFormat(path string) bool {
	return GetFileFormat(path) != FormatUnknown
}

// Ext returns the lowercase extension of path including the dot
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// NormalizeExtension lowercases ext and makes sure it starts with a dot
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ExtensionSet is a normalized extension allow-list
type ExtensionSet map[string]struct{}

// NewExtensionSet builds an allow-list from base plus extra.
// An empty base falls back to DefaultExtensions.
func NewExtensionSet(base []string, extra ...string) ExtensionSet {
	if len(base) == 0 {
		base = DefaultExtensions
	}
	set := make(ExtensionSet, len(base)+len(extra))
	for _, ext := range append(append([]string{}, base...), extra...) {
		if n := NormalizeExtension(ext); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// Allows reports whether path has an allowed extension
func (s ExtensionSet) Allows(path string) bool {
	_, ok := s[Ext(path)]
	return ok
}

// List returns the sorted extensions in the set
func (s ExtensionSet) List() []string {
	exts := make([]string, 0, len(s))
	for ext := range s {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
