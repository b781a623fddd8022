package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/liepalab/eafprep/internal/cut"
	"github.com/liepalab/eafprep/internal/export"
	"github.com/liepalab/eafprep/internal/format"
	"github.com/liepalab/eafprep/internal/media"
)

// metadataFileName is the dataset metadata file appended to in the output
// root.
const metadataFileName = "metadata.csv"

// SplitCmd creates the split command: cut plan in, audio clips out.
func SplitCmd(env *Env) *cobra.Command {
	var (
		wavRoot      string
		fallbackRoot string
		outRoot      string
		inProcess    bool
	)

	cmd := &cobra.Command{
		Use:   "split <plan.tsv>",
		Short: "Cut audio clips from a cut plan",
		Long: `Read a cut plan, resolve each source wav to its real location, and
extract the listed segments as mp3 clips, appending a metadata record per
clip.

Malformed plan rows and unresolvable source files are skipped with a log
line; the run continues. With --in-process, clips are sliced without
ffmpeg and stay wav.`,
		Example: `  eafprep split plan.tsv --wav-root /corpora/wav --out-root ./clips
  eafprep split plan.tsv --wav-root /a --fallback-root /b --out-root ./clips`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd.Context(), env, args[0], wavRoot, fallbackRoot, outRoot, inProcess)
		},
	}

	cmd.Flags().StringVar(&wavRoot, "wav-root", "", "Primary root directory for source wav files")
	cmd.Flags().StringVar(&fallbackRoot, "fallback-root", "", "Fallback root directory for source wav files")
	cmd.Flags().StringVar(&outRoot, "out-root", "", "Root directory for output clips")
	cmd.Flags().BoolVar(&inProcess, "in-process", false, "Slice wav files in-process instead of using ffmpeg")

	return cmd
}

// runSplit drives the cutting stage.
func runSplit(ctx context.Context, env *Env, planPath, wavRoot, fallbackRoot, outRoot string, inProcess bool) error {
	if err := requireFile(planPath); err != nil {
		return err
	}

	// Fill unset flags from config.
	cfg, err := env.LoadConfig()
	if err != nil {
		return err
	}
	if wavRoot == "" {
		wavRoot = cfg.WavRoot
	}
	if fallbackRoot == "" {
		fallbackRoot = cfg.WavFallbackRoot
	}
	if fallbackRoot == "" {
		fallbackRoot = wavRoot
	}
	if outRoot == "" {
		outRoot = cfg.OutputDir
	}
	if outRoot == "" {
		outRoot = "."
	}
	if err := requireDir(wavRoot); err != nil {
		return err
	}

	cutter, err := makeCutter(env, inProcess)
	if err != nil {
		return err
	}

	f, err := os.Open(planPath) // #nosec G304 -- operator-supplied plan
	if err != nil {
		return fmt.Errorf("open plan: %w", err)
	}
	entries, err := export.ParsePlan(f)
	_ = f.Close()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outRoot, 0750); err != nil {
		return fmt.Errorf("create output root: %w", err)
	}
	// #nosec G302 G304 -- dataset metadata file in the operator-chosen output root
	meta, err := os.OpenFile(filepath.Join(outRoot, metadataFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open metadata file: %w", err)
	}
	defer func() { _ = meta.Close() }()
	metaWriter := export.NewMetadataWriter(meta)

	resolver := media.Resolver{Root: wavRoot, FallbackRoot: fallbackRoot}

	processed, failed := 0, 0
	totalMS := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := cutEntry(ctx, cutter, resolver, outRoot, entry, metaWriter); err != nil {
			log.Error().Str("clip", entry.OutputClip).Err(err).Msg("segment failed")
			failed++
			continue
		}
		processed++
		totalMS += entry.Length
	}

	fmt.Fprintf(env.Stdout, "Segments processed: %d\n", processed)
	fmt.Fprintf(env.Stdout, "Segments failed:    %d\n", failed)
	fmt.Fprintf(env.Stdout, "Audio extracted:    %s\n", format.Duration(time.Duration(totalMS)*time.Millisecond))
	return nil
}

// makeCutter selects the clip cutter implementation.
func makeCutter(env *Env, inProcess bool) (cut.Cutter, error) {
	if inProcess {
		return env.NewWavCutter(), nil
	}
	ffmpegPath, err := env.ResolveFFmpeg()
	if err != nil {
		return nil, err
	}
	return env.NewCutter(ffmpegPath)
}

// cutEntry processes one plan row: resolve the source, cut the clip,
// record the metadata.
func cutEntry(ctx context.Context, cutter cut.Cutter, resolver media.Resolver, outRoot string, entry export.PlanEntry, meta *export.MetadataWriter) error {
	src, err := resolver.Resolve(filepath.Base(entry.InputWAV))
	if err != nil {
		return err
	}

	// Spaces in historical clip names break the downstream tooling.
	clip := strings.ReplaceAll(entry.OutputClip, " ", "_")
	dst := filepath.Join(outRoot, clip)

	if err := cutter.Cut(ctx, src, dst, entry.Start, entry.End); err != nil {
		return err
	}

	return meta.Write(clip, entry.Text, entry.Length, entry.TextLen)
}
