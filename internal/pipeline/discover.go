// Package pipeline orchestrates corpus preparation: discovering .eaf
// files, and running load -> group -> plan per document, in parallel
// across documents.
package pipeline

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// FindEAFFiles returns all .eaf files under root, recursively.
func FindEAFFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".eaf") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return files, nil
}

// FilterByExcludedDirs drops files whose parent directory basename is
// listed in the exclusion file (one name per line, blanks ignored).
// A missing exclusion file keeps the full list, with a log line: partial
// runs on trimmed corpora are routine, a broken path should not stop one.
func FilterByExcludedDirs(files []string, excludePath string) []string {
	excluded, err := readExclusions(excludePath)
	if err != nil {
		log.Warn().Str("path", excludePath).Err(err).Msg("exclusion file not read; keeping all files")
		return files
	}

	var kept []string
	for _, f := range files {
		dir := filepath.Base(filepath.Dir(f))
		if excluded[dir] {
			log.Debug().Str("file", f).Str("dir", dir).Msg("excluded by directory")
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// readExclusions loads the excluded directory names.
func readExclusions(path string) (map[string]bool, error) {
	f, err := os.Open(path) // #nosec G304 -- operator-supplied exclusion list
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	excluded := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name != "" {
			excluded[name] = true
		}
	}
	return excluded, scanner.Err()
}
