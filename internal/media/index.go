package media

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/liepalab/eafprep/internal/export"
)

// unresolvedMarker is written for plan paths that could not be located.
const unresolvedMarker = "-"

// IndexEntry maps an original plan path to its resolved real path.
type IndexEntry struct {
	OriginalPath string
	RealPath     string
}

// BuildIndex resolves the unique input wav paths of a cut plan.
// Each unique first-column path is resolved by basename and then through
// symlinks to its canonical location. Unresolved paths map to "-" so the
// index stays complete.
func BuildIndex(entries []export.PlanEntry, resolver Resolver) []IndexEntry {
	seen := make(map[string]bool, len(entries))
	unique := make([]string, 0, len(entries))
	for _, e := range entries {
		if !seen[e.InputWAV] {
			seen[e.InputWAV] = true
			unique = append(unique, e.InputWAV)
		}
	}
	sort.Strings(unique)

	index := make([]IndexEntry, 0, len(unique))
	for _, original := range unique {
		real := unresolvedMarker

		path, err := resolver.Resolve(filepath.Base(original))
		if err == nil {
			if canonical, evalErr := filepath.EvalSymlinks(path); evalErr == nil {
				real = canonical
			} else {
				real = path
			}
		} else {
			log.Warn().Str("path", original).Msg("not found")
		}

		index = append(index, IndexEntry{OriginalPath: original, RealPath: real})
	}
	return index
}

// WriteIndex writes index entries as a two-column CSV with a header row.
func WriteIndex(w io.Writer, index []IndexEntry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"OriginalPath", "RealPath"}); err != nil {
		return fmt.Errorf("write index header: %w", err)
	}
	for _, e := range index {
		if err := cw.Write([]string{e.OriginalPath, e.RealPath}); err != nil {
			return fmt.Errorf("write index row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush index: %w", err)
	}
	return nil
}
