package comparator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pdiff/imageprocessor"
	"pdiff/logging"
	"pdiff/signalhandler"
	"pdiff/types"

	"golang.org/x/sync/errgroup"
)

// Comparator schedules pair evaluations over a bounded worker pool
type Comparator struct {
	engine  *imageprocessor.Engine
	options Options
}

// New creates a comparator. An empty pairing policy and a non-positive worker
// count fall back to all-pairs and the CPU count.
func New(engine *imageprocessor.Engine, options Options) *Comparator {
	if options.Pairing == "" {
		options.Pairing = PairingAllPairs
	}
	if options.Workers <= 0 {
		options.Workers = signalhandler.GetOptimalProcs()
	}
	return &Comparator{
		engine:  engine,
		options: options,
	}
}

// Options returns the effective options
func (c *Comparator) Options() Options {
	return c.options
}

// Run collects the images named by inputs and compares them.
// A missing input returns *InputPathError before anything is scheduled.
func (c *Comparator) Run(ctx context.Context, inputs []string) (*Run, error) {
	collection, err := CollectImages(inputs, c.options.Extensions, c.options.Recursive)
	if err != nil {
		return nil, err
	}
	logging.LogInfo("Collected %d images (two-file mode: %v)", len(collection.Paths), collection.TwoFileMode)
	return c.Compare(ctx, collection)
}

type pairOutcome struct {
	done    bool
	result  types.ComparisonResult
	skipped *SkippedPair
}

// Compare evaluates every pair of collection.
// Results come back in enumeration order regardless of completion order.
// Cancelling ctx stops scheduling; pairs already running finish and are kept.
func (c *Comparator) Compare(ctx context.Context, collection *Collection) (*Run, error) {
	policy := c.options.Pairing
	if collection.TwoFileMode {
		policy = PairingAllPairs
	}

	paths := collection.Paths
	pairs := EnumeratePairs(len(paths), policy)
	cache := NewFingerprintCache(c.engine, c.options.Store)
	outcomes := make([]pairOutcome, len(pairs))

	logging.DebugLog("Scheduling %d pairs (%s) on %d workers", len(pairs), policy, c.options.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.options.Workers)

	cancelled := false
	for _, pair := range pairs {
		if gctx.Err() != nil {
			cancelled = true
			break
		}

		pair := pair
		g.Go(func() error {
			// Go may have waited for a free slot past the cancellation
			if gctx.Err() != nil {
				return nil
			}
			outcome, err := c.evaluate(cache, paths, pair)
			if err != nil {
				return err
			}
			outcomes[pair.Index] = outcome

			if c.options.Progress != nil {
				c.options.Progress <- PairEvent{Pair: pair, Skipped: outcome.skipped != nil}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if cancelled {
		logging.LogWarning("Run interrupted: scheduling stopped, partial results kept")
	}

	run := &Run{
		Images:      paths,
		TwoFileMode: collection.TwoFileMode,
		Pairing:     policy,
		Algorithm:   c.engine.Hasher().Name(),
		Bits:        c.engine.Hasher().Bits(),
		Results:     make([]types.ComparisonResult, 0, len(pairs)),
		Infos:       make(map[string]types.ImageInfo, len(paths)),
		Cancelled:   cancelled,
	}

	for _, outcome := range outcomes {
		switch {
		case !outcome.done:
		case outcome.skipped != nil:
			run.SkippedPairs = append(run.SkippedPairs, *outcome.skipped)
		default:
			run.Results = append(run.Results, outcome.result)
		}
	}

	for _, path := range paths {
		entry, ok := cache.lookup(path)
		if !ok {
			continue
		}
		if entry.err != nil {
			logging.LogImageSkipped(path, entry.err)
			run.SkippedImages = append(run.SkippedImages, types.SkippedImage{
				Path:   path,
				Reason: skipReason(entry.err),
				Err:    entry.err,
			})
			continue
		}
		run.Infos[path] = entry.info
	}

	stats := cache.Stats()
	logging.DebugLog("Fingerprints computed: %d, from store: %d, discarded duplicates: %d",
		stats.Computed, stats.StoreHits, stats.Discarded)

	return run, nil
}

// evaluate runs one pair. Only internal invariant violations are returned as errors;
// image failures become a skipped pair.
func (c *Comparator) evaluate(cache *FingerprintCache, paths []string, pair Pair) (pairOutcome, error) {
	start := time.Now()
	image1, image2 := paths[pair.A], paths[pair.B]

	fp1, _, err1 := cache.Get(image1)
	fp2, _, err2 := cache.Get(image2)

	if err1 != nil || err2 != nil {
		reason := ""
		if err1 != nil {
			reason = fmt.Sprintf("%s: %s", image1, skipReason(err1))
		} else {
			reason = fmt.Sprintf("%s: %s", image2, skipReason(err2))
		}
		return pairOutcome{
			done: true,
			skipped: &SkippedPair{
				Index:  pair.Index,
				Image1: image1,
				Image2: image2,
				Reason: reason,
			},
		}, nil
	}

	raw, percent, err := imageprocessor.Distance(fp1, fp2)
	if err != nil {
		return pairOutcome{}, fmt.Errorf("comparing %s and %s: %w", image1, image2, err)
	}
	verdict := c.options.Tolerance.Classify(percent)

	return pairOutcome{
		done: true,
		result: types.ComparisonResult{
			Index:            pair.Index,
			Image1:           image1,
			Image2:           image2,
			Distance:         raw,
			Bits:             fp1.Len(),
			DeviationPercent: percent,
			Identical:        verdict.Identical,
			Similar:          verdict.Similar,
			Elapsed:          time.Since(start),
		},
	}, nil
}

// skipReason condenses an image error into a short category plus detail
func skipReason(err error) string {
	var unsupported *imageprocessor.UnsupportedFormatError
	var decodeErr *imageprocessor.DecodeError

	switch {
	case errors.As(err, &unsupported):
		return "unsupported format " + unsupported.Ext
	case errors.As(err, &decodeErr):
		if decodeErr.Err != nil {
			return "decode error: " + decodeErr.Err.Error()
		}
		return "decode error"
	default:
		return err.Error()
	}
}
