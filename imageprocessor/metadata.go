package imageprocessor

import (
	"fmt"
	"os/exec"
	"sync"

	"pdiff/logging"
	"pdiff/types"

	"github.com/barasher/go-exiftool"
)

// MetadataProbe enriches ImageInfo with metadata that is not needed for hashing
type MetadataProbe interface {
	Probe(info *types.ImageInfo) error
	Close() error
}

// ExiftoolProbe reads camera metadata through a long-running exiftool process
type ExiftoolProbe struct {
	et *exiftool.Exiftool
	mu sync.Mutex
}

// checkExiftoolCommandAvailable checks if the exiftool command is available
func checkExiftoolCommandAvailable() bool {
	_, err := exec.LookPath("exiftool")
	return err == nil
}

// NewExiftoolProbe starts exiftool. It fails when the binary is not installed.
func NewExiftoolProbe() (*ExiftoolProbe, error) {
	if !checkExiftoolCommandAvailable() {
		return nil, fmt.Errorf("exiftool not found in PATH")
	}

	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize exiftool: %w", err)
	}
	return &ExiftoolProbe{et: et}, nil
}

// Probe fills camera model, capture time and, when still unknown, dimensions
func (p *ExiftoolProbe) Probe(info *types.ImageInfo) error {
	// one exiftool process serves all workers
	p.mu.Lock()
	fileInfos := p.et.ExtractMetadata(info.Path)
	p.mu.Unlock()

	if len(fileInfos) == 0 {
		return fmt.Errorf("no metadata extracted for %s", info.Path)
	}
	fileInfo := fileInfos[0]
	if fileInfo.Err != nil {
		return fileInfo.Err
	}

	if model, err := fileInfo.GetString("Model"); err == nil {
		info.CameraModel = model
	}
	if taken, err := fileInfo.GetString("DateTimeOriginal"); err == nil {
		info.TakenAt = taken
	}
	if info.Width == 0 {
		if w, err := fileInfo.GetInt("ImageWidth"); err == nil {
			info.Width = int(w)
		}
	}
	if info.Height == 0 {
		if h, err := fileInfo.GetInt("ImageHeight"); err == nil {
			info.Height = int(h)
		}
	}
	return nil
}

// Close stops the exiftool process
func (p *ExiftoolProbe) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.et.Close()
}

// NewOptionalExiftoolProbe returns an exiftool probe, or nil when exiftool is unavailable
func NewOptionalExiftoolProbe() MetadataProbe {
	probe, err := NewExiftoolProbe()
	if err != nil {
		logging.DebugLog("Metadata probe disabled: %v", err)
		return nil
	}
	logging.LogInfo("Using exiftool for image metadata")
	return probe
}
