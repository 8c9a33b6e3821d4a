package types

import "time"

// ImageInfo holds the image metadata collected while fingerprinting
type ImageInfo struct {
	Path        string    `json:"path"`
	Format      string    `json:"format"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	ModifiedAt  time.Time `json:"modified_at"`
	Size        int64     `json:"size"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	CameraModel string    `json:"camera_model,omitempty"`
	TakenAt     string    `json:"taken_at,omitempty"`
}

// ComparisonResult is the outcome of one evaluated pair.
// It is never modified after the scheduler records it.
type ComparisonResult struct {
	ID               int           `json:"id,omitempty"`
	Index            int           `json:"-"`
	Image1           string        `json:"image1"`
	Image2           string        `json:"image2"`
	Distance         int           `json:"distance"`
	Bits             int           `json:"bits"`
	DeviationPercent float64       `json:"difference"`
	Identical        bool          `json:"identical"`
	Similar          bool          `json:"similar"`
	Elapsed          time.Duration `json:"comparison_time"`
}

// SkippedImage records an image that could not be fingerprinted
type SkippedImage struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// RunStatistics aggregates timing over every evaluated pair
type RunStatistics struct {
	Comparisons   int           `json:"comparisons"`
	SkippedPairs  int           `json:"skipped_pairs"`
	SkippedImages int           `json:"skipped_images"`
	TotalTime     time.Duration `json:"total_time"`
	AverageTime   time.Duration `json:"average_time"`
}

// HasComparisons reports whether any pair was evaluated
func (s RunStatistics) HasComparisons() bool {
	return s.Comparisons > 0
}
