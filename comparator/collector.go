package comparator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"pdiff/imageprocessor"
	"pdiff/logging"
)

// InputPathError means an input path is missing or unreadable. It aborts the run.
type InputPathError struct {
	Path string
	Err  error
}

func (e *InputPathError) Error() string {
	return fmt.Sprintf("input path %q: %v", e.Path, e.Err)
}

func (e *InputPathError) Unwrap() error { return e.Err }

var errNoInputs = errors.New("no input paths given")

// Collection is the ordered set of images one run compares
type Collection struct {
	Paths       []string
	TwoFileMode bool
}

// CollectImages resolves the input paths into image paths.
//
// Exactly two regular files select two-file mode and are used as given,
// whatever their extension. Otherwise directories are listed (recursively
// only when recursive is set) and files are kept when exts allows them.
// The result is deduplicated and sorted.
func CollectImages(inputs []string, exts imageprocessor.ExtensionSet, recursive bool) (*Collection, error) {
	if len(inputs) == 0 {
		return nil, &InputPathError{Err: errNoInputs}
	}
	if len(exts) == 0 {
		exts = imageprocessor.NewExtensionSet(nil)
	}
	for _, ext := range exts.List() {
		if !imageprocessor.IsKnownFormat("image" + ext) {
			logging.LogWarning("Extension %s is allowed but has no decoder; such files will be skipped", ext)
		}
	}

	infos := make([]os.FileInfo, len(inputs))
	for i, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, &InputPathError{Path: input, Err: err}
		}
		infos[i] = info
	}

	if len(inputs) == 2 && infos[0].Mode().IsRegular() && infos[1].Mode().IsRegular() {
		return &Collection{
			Paths:       []string{inputs[0], inputs[1]},
			TwoFileMode: true,
		}, nil
	}

	seen := make(map[string]struct{})
	var paths []string
	add := func(path string) {
		path = filepath.Clean(path)
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
	}

	for i, input := range inputs {
		switch {
		case infos[i].IsDir():
			found, err := listDirectory(input, exts, recursive)
			if err != nil {
				return nil, &InputPathError{Path: input, Err: err}
			}
			for _, p := range found {
				add(p)
			}
		case infos[i].Mode().IsRegular():
			if exts.Allows(input) {
				add(input)
			} else {
				logging.LogWarning("Ignoring %s: extension not in allow-list", input)
			}
		default:
			return nil, &InputPathError{Path: input, Err: errors.New("not a regular file or directory")}
		}
	}

	sort.Strings(paths)
	return &Collection{Paths: paths}, nil
}

// listDirectory returns the allowed regular files under dir
func listDirectory(dir string, exts imageprocessor.ExtensionSet, recursive bool) ([]string, error) {
	var found []string

	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !exts.Allows(entry.Name()) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if isRegularFile(entry, path) {
				found = append(found, path)
			}
		}
		return found, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable subdirectories are skipped, the root itself is fatal
			if path == dir {
				return err
			}
			logging.LogWarning("Error accessing path %s: %v", path, err)
			return nil
		}
		if exts.Allows(path) && isRegularFile(d, path) {
			found = append(found, path)
		}
		return nil
	})
	return found, err
}

// isRegularFile follows symlinks so linked images are collected too
func isRegularFile(entry fs.DirEntry, path string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
