package imageprocessor

import (
	"errors"
	"image"
	"sync"

	"pdiff/logging"
)

// ImageLoaderRegistry maintains a registry of image loaders
type ImageLoaderRegistry struct {
	loaders        map[string]ImageLoader
	fallbackLoader ImageLoader
	mutex          sync.RWMutex
}

// NewImageLoaderRegistry creates a registry with the Go decoders for common
// formats and OpenCV for Netpbm and as fallback
func NewImageLoaderRegistry(autoOrient bool) *ImageLoaderRegistry {
	registry := &ImageLoaderRegistry{
		loaders: make(map[string]ImageLoader),
	}

	standardLoader := NewStandardImageLoader(autoOrient)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"} {
		registry.RegisterLoader(ext, standardLoader)
	}

	gocvLoader := NewGocvImageLoader()
	for _, ext := range []string{".ppm", ".pgm", ".pbm", ".pnm"} {
		registry.RegisterLoader(ext, gocvLoader)
	}
	registry.fallbackLoader = gocvLoader

	return registry
}

// RegisterLoader registers a new loader for a specific file extension
func (r *ImageLoaderRegistry) RegisterLoader(ext string, loader ImageLoader) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.loaders[NormalizeExtension(ext)] = loader
}

// SetFallbackLoader replaces the loader tried after the primary one fails.
// A nil loader disables the fallback.
func (r *ImageLoaderRegistry) SetFallbackLoader(loader ImageLoader) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.fallbackLoader = loader
}

// GetLoader returns the loader registered for the path's extension, or nil
func (r *ImageLoaderRegistry) GetLoader(path string) ImageLoader {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.loaders[Ext(path)]
}

// CanLoadFile checks if any registered loader can handle the given file
func (r *ImageLoaderRegistry) CanLoadFile(path string) bool {
	return r.GetLoader(path) != nil
}

// LoadImage loads an image using the appropriate registered loader.
// Unknown extensions, or a loader that does not handle the file's format,
// yield *UnsupportedFormatError; files no loader can decode yield *DecodeError.
func (r *ImageLoaderRegistry) LoadImage(path string) (image.Image, error) {
	loader := r.GetLoader(path)
	if loader == nil || !loader.CanLoad(path) {
		return nil, &UnsupportedFormatError{Path: path, Ext: Ext(path)}
	}

	img, err := loader.LoadImage(path)
	if err == nil {
		return img, nil
	}

	r.mutex.RLock()
	fallback := r.fallbackLoader
	r.mutex.RUnlock()

	if fallback != nil && fallback != loader {
		logging.DebugLog("Primary loader failed for %s (%v), trying fallback", path, err)
		if img, fbErr := fallback.LoadImage(path); fbErr == nil {
			return img, nil
		}
	}

	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return nil, err
	}
	return nil, newDecodeError(path, err)
}
