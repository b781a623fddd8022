// Package media resolves the wav file references found in cut plans to
// real filesystem paths.
//
// Corpus recordings are scattered over several mirrored trees, and plan
// rows carry only historical basenames. Names carrying a two-character
// session prefix ("aa_rec.wav") live in the primary tree under their
// unprefixed name; everything else lives in the fallback tree.
package media

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog/log"
)

// ErrNotFound indicates the wav file could not be located in either tree.
var ErrNotFound = errors.New("wav file not found")

var (
	sessionPrefixRe = regexp.MustCompile(`^[a-zA-Z0-9]{2}_`)

	// "rec (2).wav" -> "rec.wav": duplicate-download suffixes that crept
	// into plan rows but never existed on disk.
	copySuffixRe = regexp.MustCompile(`\s\(\d+\)\.wav$`)
)

// Resolver locates wav files by basename under two search roots.
type Resolver struct {
	// Root is the primary tree, searched for prefixed names.
	Root string
	// FallbackRoot is searched for names without a session prefix.
	FallbackRoot string
}

// Resolve returns the full path of the wav file for an original basename.
// Prefixed names are searched in Root under their stripped name; other
// names are searched as-is in FallbackRoot. The first match in a recursive
// walk wins.
func (r Resolver) Resolve(basename string) (string, error) {
	name := basename
	root := r.FallbackRoot

	if sessionPrefixRe.MatchString(basename) {
		name = sessionPrefixRe.ReplaceAllString(basename, "")
		name = copySuffixRe.ReplaceAllString(name, ".wav")
		root = r.Root
	}

	path, err := findFile(root, name)
	if err != nil {
		log.Error().Str("file", name).Str("original", basename).Str("root", root).
			Msg("wav file not found")
		return "", fmt.Errorf("%q (original %q) in %q: %w", name, basename, root, err)
	}
	return path, nil
}

// findFile walks root looking for a file with the given basename.
// Symlinked directories are followed, since the corpus trees link shared
// session storage into place.
func findFile(root, name string) (string, error) {
	var found string

	err := walkFollowingLinks(root, func(path string, d fs.DirEntry) error {
		if !d.IsDir() && d.Name() == name {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", ErrNotFound
	}
	return found, nil
}

// walkFollowingLinks is filepath.WalkDir with symlinked directories
// descended into. Walk errors on unreadable entries are skipped, not
// fatal: corpus trees routinely contain dead links.
func walkFollowingLinks(root string, fn func(path string, d fs.DirEntry) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Debug().Str("path", path).Err(err).Msg("skipping unreadable entry")
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(path)
			if statErr == nil && info.IsDir() {
				// WalkDir does not descend into symlinked dirs; recurse manually.
				return walkFollowingLinks(path, fn)
			}
		}

		return fn(path, d)
	})
}
