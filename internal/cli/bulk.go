package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/liepalab/eafprep/internal/export"
	"github.com/liepalab/eafprep/internal/format"
	"github.com/liepalab/eafprep/internal/pipeline"
)

// BulkCmd creates the bulk command: a corpus tree in, one cut plan out.
func BulkCmd(env *Env) *cobra.Command {
	var (
		rootPath   string
		exclusions string
		output     string
		parallel   int
		flags      groupingFlags
	)

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Process every annotation file under a corpus root",
		Long: `Recursively find .eaf files under the root directory, drop the ones in
excluded subdirectories, and process each into cut-plan rows. Documents
are processed in parallel; the combined plan is ordered by file path.`,
		Example: `  eafprep bulk -r /corpora/liepa2
  eafprep bulk -r /corpora/liepa2 -x excluded_dirs.txt -o plan.tsv -p 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBulk(cmd, env, rootPath, exclusions, output, parallel, flags)
		},
	}

	cmd.Flags().StringVarP(&rootPath, "root-path", "r", "", "Corpus root directory containing .eaf files")
	_ = cmd.MarkFlagRequired("root-path")
	cmd.Flags().StringVarP(&exclusions, "exclusion-file", "x", "", "File listing excluded subdirectory names, one per line")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Plan output file (default: stdout)")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", pipeline.MaxRecommendedParallel, "Parallel document workers")
	flags.register(cmd)

	return cmd
}

// runBulk processes the corpus and writes the combined plan.
func runBulk(cmd *cobra.Command, env *Env, rootPath, exclusions, output string, parallel int, flags groupingFlags) error {
	if err := requireDir(rootPath); err != nil {
		return err
	}
	if exclusions != "" {
		if err := requireFile(exclusions); err != nil {
			return err
		}
	}

	results, err := pipeline.Bulk(cmd.Context(), rootPath, exclusions, parallel, flags.options())
	if err != nil {
		return err
	}

	var w io.Writer = env.Stdout
	if output != "" {
		f, err := os.Create(output) // #nosec G304 -- operator-chosen output path
		if err != nil {
			return fmt.Errorf("cannot create plan file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	rows := 0
	for _, res := range results {
		if len(res.Rows) == 0 {
			continue
		}
		if _, err := fmt.Fprintln(w, export.FormatPlan(res.Rows)); err != nil {
			return fmt.Errorf("write plan: %w", err)
		}
		rows += len(res.Rows)
	}

	if output != "" {
		info, err := os.Stat(output)
		if err != nil {
			return fmt.Errorf("stat plan file: %w", err)
		}
		fmt.Fprintf(env.Stdout, "Plan written: %s (%d rows, %s)\n", output, rows, format.Size(info.Size()))
	}
	return nil
}
