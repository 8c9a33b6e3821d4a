package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"pdiff/comparator"
	"pdiff/config"
	"pdiff/database"
	"pdiff/imageprocessor"
	"pdiff/logging"
	"pdiff/report"
	"pdiff/signalhandler"
	"pdiff/utils"
)

// Exit codes
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := utils.ParseArguments(args)
	if errors.Is(err, utils.ErrHelp) {
		utils.PrintUsage(stdout)
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		utils.PrintUsage(stderr)
		return exitUsage
	}

	// Check if required arguments are missing
	if len(opts.Inputs) == 0 {
		utils.PrintUsage(stderr)
		return exitUsage
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	if err := logging.SetupLogger(opts.LogFile, opts.Debug); err != nil {
		fmt.Fprintf(stderr, "Warning: Failed to setup logging: %v\n", err)
	}
	defer logging.CloseLogger()

	ctx, cancel := signalhandler.SetupHandler(context.Background())
	defer cancel()

	return compare(ctx, opts, stdout, stderr)
}

func compare(ctx context.Context, opts config.Options, stdout, stderr io.Writer) int {
	hasher, err := imageprocessor.NewHasher(opts.Algorithm, opts.HashSize)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	var probe imageprocessor.MetadataProbe
	if opts.Metadata {
		probe = imageprocessor.NewOptionalExiftoolProbe()
		if probe != nil {
			defer probe.Close()
		}
	}
	engine := imageprocessor.NewEngine(imageprocessor.NewImageLoaderRegistry(opts.AutoOrient), hasher, probe)

	cmpOpts, err := opts.ComparatorOptions()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	var store *database.FingerprintStore
	if opts.Database != "" {
		store, err = openStore(opts.Database)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailure
		}
		defer store.Close()
		cmpOpts.Store = store
	}

	collection, err := comparator.CollectImages(opts.Inputs, cmpOpts.Extensions, cmpOpts.Recursive)
	if err != nil {
		var inputErr *comparator.InputPathError
		if errors.As(err, &inputErr) && os.IsNotExist(inputErr.Err) {
			fmt.Fprintf(stderr, "Error: the path '%s' does not exist.\n", inputErr.Path)
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return exitFailure
	}
	if len(collection.Paths) == 0 {
		fmt.Fprintf(stdout, "No supported image files found in '%s'.\n", strings.Join(opts.Inputs, "', '"))
		return exitOK
	}

	var tracker *comparator.ProgressTracker
	if opts.Progress {
		total := comparator.PairCount(len(collection.Paths), cmpOpts.Pairing)
		tracker = comparator.NewProgressTracker(total, stderr)
		cmpOpts.Progress = tracker.Events()
	}

	startTime := time.Now()
	result, err := comparator.New(engine, cmpOpts).Compare(ctx, collection)
	if tracker != nil {
		tracker.Stop()
	}
	if err != nil {
		logging.LogError("Comparison failed: %v", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	logging.LogInfo("Compared %d images in %v", len(collection.Paths), time.Since(startTime))

	aggregated := comparator.Aggregate(result, opts.AggregateOptions())
	renderer := report.NewRenderer(aggregated, result.Infos, report.Options{
		ShowID:        opts.ShowID,
		ShowTime:      opts.ShowTime,
		ShowFileSize:  opts.ShowFileSize,
		ShowPixelSize: opts.ShowPixelSize,
		DisplayHashes: opts.DisplayHashes,
		Tolerance:     opts.Tolerance,
	})

	switch {
	case opts.Table:
		err = renderer.WriteTable(stdout)
	case collection.TwoFileMode:
		err = renderer.WritePair(stdout)
	default:
		err = renderer.WriteText(stdout)
	}
	if err == nil {
		err = report.WriteSkipped(stdout, aggregated)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	if opts.OutputFile != "" {
		if err := renderer.WriteFile(opts.OutputFile, opts.OutputFormat); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailure
		}
		fmt.Fprintf(stdout, "%s report generated: %s\n", strings.ToUpper(opts.OutputFormat), opts.OutputFile)
	}

	if opts.ShowStats {
		if err := report.WriteStats(stdout, aggregated.Stats); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailure
		}
	}

	if store != nil {
		if stats, err := database.GetStoreStats(store, hasher.Name(), hasher.Size()); err == nil {
			logging.LogInfo("Fingerprint store %s: %d entries, %d unique fingerprints",
				opts.Database, stats.TotalFingerprints, stats.UniqueFingerprints)
		}
	}

	if result.Cancelled {
		return exitInterrupted
	}
	return exitOK
}

// openStore initializes the fingerprint store, retrying while the file is locked
func openStore(path string) (*database.FingerprintStore, error) {
	const maxRetries = 3

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		store, err := database.InitDatabase(path)
		if err == nil {
			return store, nil
		}
		lastErr = err

		if i < maxRetries-1 {
			logging.LogWarning("Error initializing fingerprint store (attempt %d/%d): %v - retrying...",
				i+1, maxRetries, err)
			time.Sleep(time.Second * time.Duration(i+1))
		}
	}
	return nil, fmt.Errorf("error initializing fingerprint store after %d attempts: %w", maxRetries, lastErr)
}
