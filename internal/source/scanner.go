package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FormatOf returns the import format implied by a file extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL, true
	case ".csv":
		return FormatCSV, true
	}
	return "", false
}

// ScanDir discovers importable files. A path naming a single file is returned as-is
// when its extension is recognized. Missing paths yield no files and no error.
func ScanDir(root string) ([]DiscoveredFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		df, ok := discovered(root, info)
		if !ok {
			return nil, nil
		}
		return []DiscoveredFile{df}, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // file vanished mid-walk
		}
		if df, ok := discovered(path, fi); ok {
			files = append(files, df)
		}
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

func discovered(path string, fi os.FileInfo) (DiscoveredFile, bool) {
	format, ok := FormatOf(path)
	if !ok {
		return DiscoveredFile{}, false
	}
	return DiscoveredFile{
		Path:      path,
		Format:    format,
		MtimeNs:   fi.ModTime().UnixNano(),
		SizeBytes: fi.Size(),
	}, true
}
