// Package config holds the run options, their defaults and the YAML config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pdiff/comparator"
	"pdiff/digest"
	"pdiff/imageprocessor"

	"gopkg.in/yaml.v2"
)

// Output formats
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

// Options is the full configuration surface of one run
type Options struct {
	Inputs []string `yaml:"inputs"`

	// Comparison
	Tolerance  float64 `yaml:"tolerance_percent"`
	Algorithm  string  `yaml:"algorithm"`
	HashSize   int     `yaml:"hash_size"`
	Pairing    string  `yaml:"pairing"`
	Workers    int     `yaml:"workers"`
	AutoOrient bool    `yaml:"auto_orient"`
	Database   string  `yaml:"database"`
	Metadata   bool    `yaml:"metadata"`

	// Collection
	Recursive       bool     `yaml:"recursive"`
	Extensions      []string `yaml:"extensions"`
	ExtraExtensions []string `yaml:"extra_extensions"`

	// Output filtering and ordering
	SimilarOnly   bool   `yaml:"similar_only"`
	IdenticalOnly bool   `yaml:"identical_only"`
	Sort          string `yaml:"sort"`

	// Display
	DisplayHashes []string `yaml:"hash_algorithm_for_display"`
	ShowID        bool     `yaml:"show_id"`
	ShowTime      bool     `yaml:"show_time"`
	ShowFileSize  bool     `yaml:"show_file_size"`
	ShowPixelSize bool     `yaml:"show_pixel_size"`
	ShowStats     bool     `yaml:"show_stats"`
	Table         bool     `yaml:"table"`
	Progress      bool     `yaml:"progress"`

	// Report file
	OutputFormat string `yaml:"output_format"`
	OutputFile   string `yaml:"output_file"`

	// Logging
	Debug   bool   `yaml:"debug"`
	LogFile string `yaml:"logfile"`
}

// Default returns the documented defaults
func Default() Options {
	return Options{
		Tolerance:  comparator.DefaultTolerance,
		Algorithm:  imageprocessor.AlgorithmAverage,
		HashSize:   imageprocessor.DefaultHashSize,
		Pairing:    string(comparator.PairingAllPairs),
		AutoOrient: true,
		Extensions: append([]string{}, imageprocessor.DefaultExtensions...),
		Sort:       string(comparator.SortNone),
	}
}

// LoadFile reads a YAML config file over the defaults
func LoadFile(path string) (Options, error) {
	opts := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("cannot read config file: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, &opts); err != nil {
		return opts, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}
	return opts, nil
}

// Validate checks every option and normalizes names in place
func (o *Options) Validate() error {
	if o.Tolerance < 0 || o.Tolerance > 100 {
		return fmt.Errorf("tolerance_percent must be between 0 and 100, got %g", o.Tolerance)
	}
	if _, err := imageprocessor.NewHasher(o.Algorithm, o.HashSize); err != nil {
		return err
	}
	if o.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", o.Workers)
	}

	pairing, err := comparator.ParsePairingPolicy(o.Pairing)
	if err != nil {
		return err
	}
	o.Pairing = string(pairing)

	order, err := comparator.ParseSortOrder(o.Sort)
	if err != nil {
		return err
	}
	o.Sort = string(order)

	for i, name := range o.DisplayHashes {
		if !digest.Supported(name) {
			return fmt.Errorf("unsupported display hash algorithm %q (supported: %s)",
				name, strings.Join(digest.Algorithms(), ", "))
		}
		o.DisplayHashes[i] = digest.Normalize(name)
	}

	if o.OutputFile != "" && o.OutputFormat == "" {
		o.OutputFormat = formatFromExtension(o.OutputFile)
	}
	if o.OutputFormat != "" || o.OutputFile != "" {
		o.OutputFormat = strings.ToLower(o.OutputFormat)
		switch o.OutputFormat {
		case FormatCSV, FormatJSON, FormatText, FormatTable:
		case "html":
			return fmt.Errorf("html reports are not supported, use csv or json")
		default:
			return fmt.Errorf("unsupported output format %q (supported: csv, json, text, table)", o.OutputFormat)
		}
		if o.OutputFile == "" {
			return fmt.Errorf("output format %s needs an output file", o.OutputFormat)
		}
	}

	return nil
}

// ExtensionSet builds the collection allow-list from the extension options
func (o Options) ExtensionSet() imageprocessor.ExtensionSet {
	return imageprocessor.NewExtensionSet(o.Extensions, o.ExtraExtensions...)
}

// ComparatorOptions converts the options into the scheduler's settings
func (o Options) ComparatorOptions() (comparator.Options, error) {
	tolerance, err := comparator.NewTolerance(o.Tolerance)
	if err != nil {
		return comparator.Options{}, err
	}
	pairing, err := comparator.ParsePairingPolicy(o.Pairing)
	if err != nil {
		return comparator.Options{}, err
	}
	return comparator.Options{
		Tolerance:  tolerance,
		Pairing:    pairing,
		Workers:    o.Workers,
		Recursive:  o.Recursive,
		Extensions: o.ExtensionSet(),
	}, nil
}

// AggregateOptions converts the options into the aggregator's settings
func (o Options) AggregateOptions() comparator.AggregateOptions {
	order, _ := comparator.ParseSortOrder(o.Sort)
	return comparator.AggregateOptions{
		SimilarOnly:   o.SimilarOnly,
		IdenticalOnly: o.IdenticalOnly,
		Sort:          order,
		NumberResults: o.ShowID,
	}
}

func formatFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".json":
		return FormatJSON
	case ".html", ".htm":
		return "html"
	default:
		return FormatText
	}
}
