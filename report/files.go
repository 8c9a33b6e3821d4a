package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"pdiff/comparator"
	"pdiff/types"
)

// WriteCSV writes a header row and one row per result with full image paths
func (r *Renderer) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Headers()); err != nil {
		return err
	}
	if err := cw.WriteAll(r.Rows(true)); err != nil {
		return err
	}
	return cw.Error()
}

type jsonImage struct {
	Path        string            `json:"path"`
	Size        string            `json:"size,omitempty"`
	Width       int               `json:"width,omitempty"`
	Height      int               `json:"height,omitempty"`
	Digests     map[string]string `json:"digests,omitempty"`
	CameraModel string            `json:"camera_model,omitempty"`
	TakenAt     string            `json:"taken_at,omitempty"`
	Fingerprint string            `json:"fingerprint,omitempty"`
}

type jsonResult struct {
	ID               int       `json:"id,omitempty"`
	Image1           jsonImage `json:"image1"`
	Image2           jsonImage `json:"image2"`
	Distance         int       `json:"distance"`
	Bits             int       `json:"bits"`
	DeviationPercent float64   `json:"difference"`
	Identical        bool      `json:"identical"`
	Similar          bool      `json:"similar"`
	ComparisonTime   *float64  `json:"comparison_time,omitempty"`
}

type jsonDocument struct {
	Results       []jsonResult             `json:"results"`
	SkippedImages []types.SkippedImage     `json:"skipped_images,omitempty"`
	SkippedPairs  []comparator.SkippedPair `json:"skipped_pairs,omitempty"`
	Statistics    jsonStatistics           `json:"statistics"`
}

type jsonStatistics struct {
	Comparisons        int     `json:"comparisons"`
	SkippedPairs       int     `json:"skipped_pairs"`
	SkippedImages      int     `json:"skipped_images"`
	TotalTimeSeconds   float64 `json:"total_time_seconds"`
	AverageTimeSeconds float64 `json:"average_time_seconds"`
}

func (r *Renderer) jsonImage(path string) jsonImage {
	info := r.info(path)
	img := jsonImage{
		Path:        path,
		CameraModel: info.CameraModel,
		TakenAt:     info.TakenAt,
		Fingerprint: info.Fingerprint,
	}
	if r.opts.ShowFileSize {
		img.Size = r.fileSize(path)
	}
	if r.opts.ShowPixelSize {
		img.Width, img.Height = info.Width, info.Height
	}
	if len(r.opts.DisplayHashes) > 0 {
		img.Digests = make(map[string]string, len(r.opts.DisplayHashes))
		for _, algorithm := range r.opts.DisplayHashes {
			img.Digests[algorithm] = r.digest(path, algorithm)
		}
	}
	return img
}

// WriteJSON writes results, skipped entries and statistics as one indented document
func (r *Renderer) WriteJSON(w io.Writer) error {
	doc := jsonDocument{
		Results:       make([]jsonResult, 0, len(r.report.Results)),
		SkippedImages: r.report.SkippedImages,
		SkippedPairs:  r.report.SkippedPairs,
		Statistics: jsonStatistics{
			Comparisons:        r.report.Stats.Comparisons,
			SkippedPairs:       r.report.Stats.SkippedPairs,
			SkippedImages:      r.report.Stats.SkippedImages,
			TotalTimeSeconds:   r.report.Stats.TotalTime.Seconds(),
			AverageTimeSeconds: r.report.Stats.AverageTime.Seconds(),
		},
	}

	for _, res := range r.report.Results {
		jr := jsonResult{
			ID:               res.ID,
			Image1:           r.jsonImage(res.Image1),
			Image2:           r.jsonImage(res.Image2),
			Distance:         res.Distance,
			Bits:             res.Bits,
			DeviationPercent: res.DeviationPercent,
			Identical:        res.Identical,
			Similar:          res.Similar,
		}
		if r.opts.ShowTime {
			seconds := res.Elapsed.Seconds()
			jr.ComparisonTime = &seconds
		}
		doc.Results = append(doc.Results, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(doc)
}

// WriteFile writes the report to path in format (csv, json, text or table)
func (r *Renderer) WriteFile(path, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create report file: %w", err)
	}

	switch format {
	case "csv":
		err = r.WriteCSV(f)
	case "json":
		err = r.WriteJSON(f)
	case "table":
		err = r.WriteTable(f)
	case "text":
		err = r.WriteText(f)
	default:
		err = fmt.Errorf("unsupported output format %q", format)
	}

	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("cannot write %s report %s: %w", format, path, err)
	}
	return nil
}
