package comparator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"pdiff/types"
)

// SortOrder selects the order of reported results
type SortOrder string

// Supported sort orders
const (
	// SortNone keeps the pair enumeration order
	SortNone SortOrder = "none"
	// SortDeviation orders by ascending deviation, ties in enumeration order
	SortDeviation SortOrder = "deviation"
)

// ParseSortOrder accepts a sort order name. Empty keeps enumeration order.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortNone, "", "pair":
		return SortNone, nil
	case SortDeviation, "difference":
		return SortDeviation, nil
	default:
		return "", fmt.Errorf("unknown sort order %q (supported: %s, %s)", s, SortNone, SortDeviation)
	}
}

// AggregateOptions controls which results are reported and how
type AggregateOptions struct {
	SimilarOnly   bool
	IdenticalOnly bool
	Sort          SortOrder
	// NumberResults assigns IDs 1..N to the reported results
	NumberResults bool
}

// Report is the output view of a run
type Report struct {
	Results       []types.ComparisonResult
	SkippedPairs  []SkippedPair
	SkippedImages []types.SkippedImage
	Stats         types.RunStatistics
}

// Aggregate filters, orders and numbers the results of run.
// Statistics always cover every evaluated pair, filtered or not.
func Aggregate(run *Run, opts AggregateOptions) Report {
	report := Report{
		SkippedPairs:  run.SkippedPairs,
		SkippedImages: run.SkippedImages,
		Stats:         Statistics(run),
	}

	results := make([]types.ComparisonResult, 0, len(run.Results))
	for _, r := range run.Results {
		if opts.SimilarOnly && !r.Similar {
			continue
		}
		if opts.IdenticalOnly && !r.Identical {
			continue
		}
		results = append(results, r)
	}

	if opts.Sort == SortDeviation {
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].DeviationPercent != results[j].DeviationPercent {
				return results[i].DeviationPercent < results[j].DeviationPercent
			}
			return results[i].Index < results[j].Index
		})
	}

	if opts.NumberResults {
		for i := range results {
			results[i].ID = i + 1
		}
	}

	report.Results = results
	return report
}

// Statistics computes the timing totals over every evaluated pair of run
func Statistics(run *Run) types.RunStatistics {
	stats := types.RunStatistics{
		Comparisons:   len(run.Results),
		SkippedPairs:  len(run.SkippedPairs),
		SkippedImages: len(run.SkippedImages),
	}
	for _, r := range run.Results {
		stats.TotalTime += r.Elapsed
	}
	if stats.Comparisons > 0 {
		stats.AverageTime = stats.TotalTime / time.Duration(stats.Comparisons)
	}
	return stats
}
