package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/liepalab/eafprep/internal/segment"
)

// groupingFlags binds the merge-bound flags shared by parse and bulk.
type groupingFlags struct {
	maxChunkMS int
	maxGapMS   int
	maxTextLen int
}

// register adds the flags to cmd with the corpus-run defaults.
func (g *groupingFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&g.maxChunkMS, "max-chunk-ms", segment.DefaultMaxChunkDuration,
		"Maximum merged chunk duration in milliseconds")
	cmd.Flags().IntVar(&g.maxGapMS, "max-gap-ms", segment.DefaultMaxGap,
		"Maximum silence between merged segments in milliseconds")
	cmd.Flags().IntVar(&g.maxTextLen, "max-text-len", segment.DefaultMaxTextLen,
		"Maximum merged chunk text length in bytes")
}

// options converts the flags to segment options.
func (g *groupingFlags) options() segment.Options {
	return segment.Options{
		MaxChunkDuration: g.maxChunkMS,
		MaxGap:           g.maxGapMS,
		MaxTextLen:       g.maxTextLen,
	}
}

// requireFile validates that path is an existing regular file.
func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%s: %w", path, ErrFileNotFound)
	}
	return nil
}

// requireDir validates that path is an existing directory.
func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s: %w", path, ErrDirNotFound)
	}
	return nil
}
