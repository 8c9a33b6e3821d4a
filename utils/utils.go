package utils

import (
	"fmt"
	"io"
	"os"

	"pdiff/config"

	"github.com/spf13/pflag"
)

// ErrHelp is returned by ParseArguments when -h or --help was given
var ErrHelp = pflag.ErrHelp

// newFlagSet binds every command-line flag to opts
func newFlagSet(opts *config.Options, configPath *string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("pdiff", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.StringArrayVarP(&opts.Inputs, "input", "i", nil, "Path to a directory or to two image files")
	fs.Float64VarP(&opts.Tolerance, "percent", "p", opts.Tolerance, "Tolerance percent: -p 80 means 20% deviation is still identical")
	fs.BoolVarP(&opts.SimilarOnly, "similar", "s", false, "Only report pairs with up to 5% difference")
	fs.BoolVar(&opts.IdenticalOnly, "identical-only", false, "Only report pairs within the tolerance")
	fs.StringVar(&opts.Sort, "sort", opts.Sort, "Result order: none (pair order) or deviation")

	fs.StringVarP(&opts.OutputFile, "output", "o", "", "Write a report to this file")
	fs.StringVarP(&opts.OutputFormat, "format", "f", "", "Report format: csv, json, text or table (default: from file extension)")
	fs.BoolVarP(&opts.ShowTime, "time", "T", false, "Display comparison time for each image pair")
	fs.BoolVarP(&opts.Table, "table", "t", false, "Display results as a text table")
	fs.BoolVarP(&opts.ShowID, "id", "N", false, "Add an ID column with a running number")
	fs.StringSliceVarP(&opts.DisplayHashes, "hash", "H", nil, "Display file digests (md5, sha256, sha3_256, blake2b, ...)")
	fs.BoolVarP(&opts.ShowPixelSize, "pixel-size", "P", false, "Display image dimensions in pixels")
	fs.BoolVarP(&opts.ShowFileSize, "file-size", "F", false, "Display file sizes")
	fs.BoolVarP(&opts.ShowStats, "stats", "S", false, "Display total time, average time and number of comparisons")

	fs.StringVarP(&opts.Algorithm, "algorithm", "a", opts.Algorithm, "Fingerprint algorithm: average, difference or dct")
	fs.IntVar(&opts.HashSize, "hash-size", opts.HashSize, "Fingerprint grid size; bits = size*size")
	fs.StringVar(&opts.Pairing, "pairing", opts.Pairing, "Directory pairing: all-pairs or adjacent")
	fs.IntVarP(&opts.Workers, "workers", "w", 0, "Concurrent comparisons (0 = number of CPUs)")
	fs.BoolVarP(&opts.Recursive, "recursive", "r", false, "Descend into subdirectories")
	fs.StringSliceVar(&opts.Extensions, "ext", opts.Extensions, "Replace the extension allow-list")
	fs.StringSliceVar(&opts.ExtraExtensions, "extra-ext", nil, "Add extensions to the allow-list")
	fs.BoolVar(&opts.AutoOrient, "auto-orient", opts.AutoOrient, "Apply EXIF orientation before hashing")
	fs.StringVar(&opts.Database, "db", "", "Persistent fingerprint store (SQLite file)")
	fs.BoolVar(&opts.Metadata, "metadata", false, "Read camera metadata with exiftool when available")

	fs.BoolVar(&opts.Progress, "progress", false, "Show a progress bar on stderr")
	fs.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&opts.LogFile, "logfile", "", "Write the log to this file instead of stderr")
	fs.StringVar(configPath, "config", "", "Read options from a YAML file; flags override it")

	return fs
}

// ParseArguments parses args (without the program name) into options.
// Values from --config are applied first; only flags given on the command
// line override them. Positional arguments are treated as inputs.
func ParseArguments(args []string) (config.Options, error) {
	cli := config.Default()
	var configPath string

	fs := newFlagSet(&cli, &configPath)
	if err := fs.Parse(args); err != nil {
		return cli, err
	}
	cli.Inputs = append(cli.Inputs, fs.Args()...)

	if configPath == "" {
		return cli, nil
	}

	opts, err := config.LoadFile(configPath)
	if err != nil {
		return opts, err
	}

	fs.Visit(func(f *pflag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply(&opts, &cli)
		}
	})
	if len(fs.Args()) > 0 && !fs.Changed("input") {
		opts.Inputs = append(opts.Inputs, fs.Args()...)
	}

	return opts, nil
}

// overrides copies one flag's value from the command line onto the file options
var overrides = map[string]func(dst, src *config.Options){
	"input":          func(dst, src *config.Options) { dst.Inputs = src.Inputs },
	"percent":        func(dst, src *config.Options) { dst.Tolerance = src.Tolerance },
	"similar":        func(dst, src *config.Options) { dst.SimilarOnly = src.SimilarOnly },
	"identical-only": func(dst, src *config.Options) { dst.IdenticalOnly = src.IdenticalOnly },
	"sort":           func(dst, src *config.Options) { dst.Sort = src.Sort },
	"output":         func(dst, src *config.Options) { dst.OutputFile = src.OutputFile },
	"format":         func(dst, src *config.Options) { dst.OutputFormat = src.OutputFormat },
	"time":           func(dst, src *config.Options) { dst.ShowTime = src.ShowTime },
	"table":          func(dst, src *config.Options) { dst.Table = src.Table },
	"id":             func(dst, src *config.Options) { dst.ShowID = src.ShowID },
	"hash":           func(dst, src *config.Options) { dst.DisplayHashes = src.DisplayHashes },
	"pixel-size":     func(dst, src *config.Options) { dst.ShowPixelSize = src.ShowPixelSize },
	"file-size":      func(dst, src *config.Options) { dst.ShowFileSize = src.ShowFileSize },
	"stats":          func(dst, src *config.Options) { dst.ShowStats = src.ShowStats },
	"algorithm":      func(dst, src *config.Options) { dst.Algorithm = src.Algorithm },
	"hash-size":      func(dst, src *config.Options) { dst.HashSize = src.HashSize },
	"pairing":        func(dst, src *config.Options) { dst.Pairing = src.Pairing },
	"workers":        func(dst, src *config.Options) { dst.Workers = src.Workers },
	"recursive":      func(dst, src *config.Options) { dst.Recursive = src.Recursive },
	"ext":            func(dst, src *config.Options) { dst.Extensions = src.Extensions },
	"extra-ext":      func(dst, src *config.Options) { dst.ExtraExtensions = src.ExtraExtensions },
	"auto-orient":    func(dst, src *config.Options) { dst.AutoOrient = src.AutoOrient },
	"db":             func(dst, src *config.Options) { dst.Database = src.Database },
	"metadata":       func(dst, src *config.Options) { dst.Metadata = src.Metadata },
	"progress":       func(dst, src *config.Options) { dst.Progress = src.Progress },
	"debug":          func(dst, src *config.Options) { dst.Debug = src.Debug },
	"logfile":        func(dst, src *config.Options) { dst.LogFile = src.LogFile },
}

// PrintUsage outputs the command-line usage instructions
func PrintUsage(w io.Writer) {
	opts := config.Default()
	var configPath string
	fs := newFlagSet(&opts, &configPath)

	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  %s -i DIRECTORY [options]\n", os.Args[0])
	fmt.Fprintf(w, "  %s -i IMAGE1 IMAGE2 [options]\n", os.Args[0])
	fmt.Fprintf(w, "\nOptions:\n")
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  %s -i ./photos -s -t -N -S\n", os.Args[0])
	fmt.Fprintf(w, "  %s -i a.jpg b.jpg -p 80 -T\n", os.Args[0])
	fmt.Fprintf(w, "  %s -i ./photos -H sha256 -F -P -o report.csv\n", os.Args[0])
}

// HumanReadableSize formats a byte count with two decimals and a binary unit
func HumanReadableSize(size int64) string {
	value := float64(size)
	units := []string{"B", "KB", "MB", "GB", "TB"}
	for i, unit := range units {
		if value < 1024.0 || i == len(units)-1 {
			return fmt.Sprintf("%.2f %s", value, unit)
		}
		value /= 1024.0
	}
	return ""
}
