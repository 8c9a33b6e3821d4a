package imageprocessor

import (
	"fmt"
	"image"
	"os"

	"pdiff/logging"
	"pdiff/types"
)

// Engine computes fingerprints for image files
type Engine struct {
	registry *ImageLoaderRegistry
	hasher   Hasher
	probe    MetadataProbe
}

// NewEngine wires a loader registry and a hasher. probe may be nil.
func NewEngine(registry *ImageLoaderRegistry, hasher Hasher, probe MetadataProbe) *Engine {
	return &Engine{
		registry: registry,
		hasher:   hasher,
		probe:    probe,
	}
}

// Hasher returns the engine's hash algorithm
func (e *Engine) Hasher() Hasher {
	return e.hasher
}

// Describe returns the file facts known without decoding
func (e *Engine) Describe(path string) (types.ImageInfo, error) {
	info := types.ImageInfo{
		Path:   path,
		Format: string(GetFileFormat(path)),
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return info, err
	}
	if !fileInfo.Mode().IsRegular() {
		return info, fmt.Errorf("not a regular file: %s", path)
	}
	info.Size = fileInfo.Size()
	info.ModifiedAt = fileInfo.ModTime()
	return info, nil
}

// FingerprintImage hashes an already decoded image
func (e *Engine) FingerprintImage(img image.Image) (Fingerprint, error) {
	return e.hasher.Hash(img)
}

// Fingerprint decodes the file at path and hashes it.
// The decoded pixels are not retained.
func (e *Engine) Fingerprint(path string) (Fingerprint, types.ImageInfo, error) {
	info, err := e.Describe(path)
	if err != nil {
		return Fingerprint{}, info, newDecodeError(path, err)
	}

	img, err := e.registry.LoadImage(path)
	if err != nil {
		return Fingerprint{}, info, err
	}

	bounds := img.Bounds()
	info.Width = bounds.Dx()
	info.Height = bounds.Dy()

	fp, err := e.FingerprintImage(img)
	if err != nil {
		return Fingerprint{}, info, newDecodeError(path, err)
	}
	info.Fingerprint = fp.Hex()

	if e.probe != nil {
		if err := e.probe.Probe(&info); err != nil {
			logging.DebugLog("Metadata probe failed for %s: %v", path, err)
		}
	}

	return fp, info, nil
}

// Enrich runs the metadata probe on info, if one is configured
func (e *Engine) Enrich(info *types.ImageInfo) {
	if e.probe == nil {
		return
	}
	if err := e.probe.Probe(info); err != nil {
		logging.DebugLog("Metadata probe failed for %s: %v", info.Path, err)
	}
}

// ProbeDimensions reads the pixel size from the file header without decoding
// the pixel data. Formats without a registered Go decoder return an error.
func ProbeDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, newDecodeError(path, err)
	}
	return cfg.Width, cfg.Height, nil
}
