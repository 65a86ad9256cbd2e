package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverArchives recursively enumerates .bz2 files under root, failing
// when none are found. Results are sorted for deterministic run-to-run
// ordering of the (unordered-anyway) archive worker pool.
func DiscoverArchives(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".bz2") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .bz2 archives found under %s", root)
	}
	sort.Strings(paths)
	return paths, nil
}
