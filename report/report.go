// Package report renders comparison results as text, tables, CSV and JSON.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"pdiff/comparator"
	"pdiff/digest"
	"pdiff/logging"
	"pdiff/types"
	"pdiff/utils"

	"github.com/olekukonko/tablewriter"
)

// Options selects the optional columns
type Options struct {
	ShowID        bool
	ShowTime      bool
	ShowFileSize  bool
	ShowPixelSize bool
	DisplayHashes []string

	// Tolerance is quoted when nothing matched
	Tolerance float64
}

// Renderer formats one aggregated report
type Renderer struct {
	report comparator.Report
	infos  map[string]types.ImageInfo
	opts   Options

	mu      sync.Mutex
	digests map[string]string
}

// NewRenderer creates a renderer. infos supplies sizes and dimensions per path.
func NewRenderer(report comparator.Report, infos map[string]types.ImageInfo, opts Options) *Renderer {
	return &Renderer{
		report:  report,
		infos:   infos,
		opts:    opts,
		digests: make(map[string]string),
	}
}

// Headers returns the column names for the selected options
func (r *Renderer) Headers() []string {
	var headers []string
	if r.opts.ShowID {
		headers = append(headers, "ID")
	}
	headers = append(headers, "Image 1", "Image 2", "Difference (%)")
	if r.opts.ShowFileSize {
		headers = append(headers, "Image 1 Size", "Image 2 Size")
	}
	if r.opts.ShowPixelSize {
		headers = append(headers, "Image 1 Dimensions", "Image 2 Dimensions")
	}
	for _, algorithm := range r.opts.DisplayHashes {
		name := strings.ToUpper(algorithm)
		headers = append(headers, fmt.Sprintf("Image 1 %s Hash", name), fmt.Sprintf("Image 2 %s Hash", name))
	}
	if r.opts.ShowTime {
		headers = append(headers, "Comparison Time")
	}
	return headers
}

// Rows returns one row per result matching Headers.
// Image names are reduced to their base name unless fullPaths is set.
func (r *Renderer) Rows(fullPaths bool) [][]string {
	rows := make([][]string, 0, len(r.report.Results))
	for _, res := range r.report.Results {
		rows = append(rows, r.row(res, fullPaths))
	}
	return rows
}

func (r *Renderer) row(res types.ComparisonResult, fullPaths bool) []string {
	var row []string
	if r.opts.ShowID {
		row = append(row, fmt.Sprintf("%d", res.ID))
	}
	row = append(row, displayName(res.Image1, fullPaths), displayName(res.Image2, fullPaths), formatPercent(res.DeviationPercent))
	if r.opts.ShowFileSize {
		row = append(row, r.fileSize(res.Image1), r.fileSize(res.Image2))
	}
	if r.opts.ShowPixelSize {
		row = append(row, r.dimensions(res.Image1), r.dimensions(res.Image2))
	}
	for _, algorithm := range r.opts.DisplayHashes {
		row = append(row, r.digest(res.Image1, algorithm), r.digest(res.Image2, algorithm))
	}
	if r.opts.ShowTime {
		row = append(row, formatSeconds(res.Elapsed.Seconds()))
	}
	return row
}

// WriteText prints one line per result
func (r *Renderer) WriteText(w io.Writer) error {
	if len(r.report.Results) == 0 {
		_, err := fmt.Fprintf(w, "No images found that match the specified deviation of %g%%.\n", r.opts.Tolerance)
		return err
	}

	for _, res := range r.report.Results {
		var sb strings.Builder
		if r.opts.ShowID {
			fmt.Fprintf(&sb, "ID: %d, ", res.ID)
		}
		fmt.Fprintf(&sb, "Image 1: %s, Image 2: %s, Difference: %s",
			filepath.Base(res.Image1), filepath.Base(res.Image2), formatPercent(res.DeviationPercent))
		if res.Identical {
			sb.WriteString(" (identical)")
		}
		if r.opts.ShowTime {
			fmt.Fprintf(&sb, ", Comparison time: %s", formatSeconds(res.Elapsed.Seconds()))
		}
		for _, algorithm := range r.opts.DisplayHashes {
			name := strings.ToUpper(algorithm)
			fmt.Fprintf(&sb, ", Image 1 %s Hash: %s, Image 2 %s Hash: %s",
				name, r.digest(res.Image1, algorithm), name, r.digest(res.Image2, algorithm))
		}
		if r.opts.ShowPixelSize {
			fmt.Fprintf(&sb, ", Image 1 Dimensions: %s, Image 2 Dimensions: %s",
				r.dimensions(res.Image1), r.dimensions(res.Image2))
		}
		if r.opts.ShowFileSize {
			fmt.Fprintf(&sb, ", Image 1 Size: %s, Image 2 Size: %s",
				r.fileSize(res.Image1), r.fileSize(res.Image2))
		}
		if _, err := fmt.Fprintln(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

// WritePair prints the two-file verdict
func (r *Renderer) WritePair(w io.Writer) error {
	if len(r.report.Results) == 0 {
		return r.WriteText(w)
	}
	res := r.report.Results[0]

	verdict := "differ beyond the specified deviation"
	if res.Identical {
		verdict = "are within the specified deviation"
	}
	line := fmt.Sprintf("'%s' and '%s' %s (Difference: %s)", res.Image1, res.Image2, verdict, formatPercent(res.DeviationPercent))
	if res.Similar {
		line += ", similar"
	}
	if r.opts.ShowTime {
		line += fmt.Sprintf(", Comparison time: %s", formatSeconds(res.Elapsed.Seconds()))
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// WriteTable renders the results as a grid
func (r *Renderer) WriteTable(w io.Writer) error {
	if len(r.report.Results) == 0 {
		return r.WriteText(w)
	}

	// Render does not report write failures, so they are captured here
	ew := &errWriter{w: w}
	table := tablewriter.NewWriter(ew)
	table.SetHeader(r.Headers())
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetRowLine(true)
	table.AppendBulk(r.Rows(false))
	table.Render()
	return ew.err
}

// errWriter keeps the first write error and drops everything after it
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// WriteStats prints the statistics block
func WriteStats(w io.Writer, stats types.RunStatistics) error {
	if !stats.HasComparisons() {
		_, err := fmt.Fprintln(w, "\nNo comparisons made.")
		return err
	}

	_, err := fmt.Fprintf(w, "\n--- Statistics ---\n"+
		"Total time for comparing all images: %s\n"+
		"Average time per comparison: %s\n"+
		"Total number of comparisons: %d\n",
		formatSeconds(stats.TotalTime.Seconds()),
		formatSeconds(stats.AverageTime.Seconds()),
		stats.Comparisons)
	if err != nil {
		return err
	}
	if stats.SkippedImages > 0 || stats.SkippedPairs > 0 {
		_, err = fmt.Fprintf(w, "Skipped images: %d, skipped pairs: %d\n", stats.SkippedImages, stats.SkippedPairs)
	}
	return err
}

// WriteSkipped lists images that were excluded and why
func WriteSkipped(w io.Writer, report comparator.Report) error {
	if len(report.SkippedImages) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\n%d image(s) skipped, %d pair(s) not compared:\n",
		len(report.SkippedImages), len(report.SkippedPairs)); err != nil {
		return err
	}
	for _, s := range report.SkippedImages {
		if _, err := fmt.Fprintf(w, "  %s: %s\n", s.Path, s.Reason); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) info(path string) types.ImageInfo {
	if info, ok := r.infos[path]; ok {
		return info
	}
	info := types.ImageInfo{Path: path}
	if fi, err := os.Stat(path); err == nil {
		info.Size = fi.Size()
	}
	return info
}

func (r *Renderer) fileSize(path string) string {
	return utils.HumanReadableSize(r.info(path).Size)
}

func (r *Renderer) dimensions(path string) string {
	info := r.info(path)
	return fmt.Sprintf("%dx%d px", info.Width, info.Height)
}

// digest memoizes display digests since every image appears in several rows
func (r *Renderer) digest(path, algorithm string) string {
	key := algorithm + "\x00" + path

	r.mu.Lock()
	defer r.mu.Unlock()

	if sum, ok := r.digests[key]; ok {
		return sum
	}
	sum, err := digest.Sum(path, algorithm)
	if err != nil {
		logging.LogWarning("Cannot compute %s digest for %s: %v", algorithm, path, err)
		sum = "n/a"
	}
	r.digests[key] = sum
	return sum
}

func displayName(path string, fullPath bool) string {
	if fullPath {
		return path
	}
	return filepath.Base(path)
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.4f seconds", s)
}
