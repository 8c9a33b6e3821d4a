package imageprocessor

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"

	// Register decoders beyond the ones imaging pulls in
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// StandardImageLoader decodes common formats with the Go image packages
type StandardImageLoader struct {
	BaseImageLoader
	AutoOrient bool
}

// NewStandardImageLoader creates a new loader for standard image formats
func NewStandardImageLoader(autoOrient bool) *StandardImageLoader {
	return &StandardImageLoader{
		BaseImageLoader: BaseImageLoader{
			SupportedFormats: []FormatType{
				FormatJPEG,
				FormatPNG,
				FormatGIF,
				FormatBMP,
				FormatTIFF,
				FormatWEBP,
			},
		},
		AutoOrient: autoOrient,
	}
}

// LoadImage loads a standard image format
func (l *StandardImageLoader) LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(l.AutoOrient))
	if err != nil {
		return nil, newDecodeError(path, err)
	}
	return img, nil
}

// GocvImageLoader decodes through OpenCV. It owns the Netpbm formats and is
// the fallback for files the Go decoders reject.
type GocvImageLoader struct {
	BaseImageLoader
}

// NewGocvImageLoader creates a loader backed by gocv.IMRead
func NewGocvImageLoader() *GocvImageLoader {
	return &GocvImageLoader{
		BaseImageLoader: BaseImageLoader{
			SupportedFormats: []FormatType{FormatPNM},
		},
	}
}

var errEmptyMat = errors.New("opencv returned an empty matrix")

// LoadImage reads the file with OpenCV and converts the matrix to an image.Image.
// The matrix is released before returning.
func (l *GocvImageLoader) LoadImage(path string) (image.Image, error) {
	if !hasFileContent(path) {
		return nil, newDecodeError(path, fmt.Errorf("file is empty or not a regular file"))
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()

	if mat.Empty() {
		return nil, newDecodeError(path, errEmptyMat)
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, newDecodeError(path, err)
	}
	return img, nil
}
