// Package source discovers receipt files on disk.
package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/theirongolddev/moneymate/internal/model"
)

// DiscoveredFile is a candidate receipt found on disk.
type DiscoveredFile struct {
	Path     string
	FileType model.FileType
	// Explicit is set when the path was named directly rather than found
	// by walking a directory.
	Explicit bool
}

// Collect expands paths into receipt files. Files named directly are always
// returned, even with an unsupported extension, so the caller can report
// them. Directories are walked recursively and contribute only supported
// files; hidden entries are skipped. Results keep argument order, with each
// directory's files sorted by path. A path is returned at most once.
func Collect(paths []string) ([]DiscoveredFile, error) {
	var out []DiscoveredFile
	seen := make(map[string]bool)
	add := func(df DiscoveredFile) {
		key := filepath.Clean(df.Path)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, df)
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		if !info.IsDir() {
			add(DiscoveredFile{Path: p, FileType: model.FileTypeFromFilename(p), Explicit: true})
			continue
		}

		found, err := ScanDir(p)
		if err != nil {
			return nil, err
		}
		for _, df := range found {
			add(df)
		}
	}
	return out, nil
}

// ScanDir walks dir and returns every supported receipt file, sorted by path.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	var files []DiscoveredFile

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		ft := model.FileTypeFromFilename(d.Name())
		if !ft.Supported() {
			return nil
		}
		files = append(files, DiscoveredFile{Path: path, FileType: ft})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

// CountByType returns how many files of each type were discovered.
func CountByType(files []DiscoveredFile) map[model.FileType]int {
	counts := make(map[model.FileType]int)
	for _, f := range files {
		counts[f.FileType]++
	}
	return counts
}
