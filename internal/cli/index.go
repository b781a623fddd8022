package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/liepalab/eafprep/internal/export"
	"github.com/liepalab/eafprep/internal/media"
)

// IndexCmd creates the index command: cut plan in, real-path index out.
func IndexCmd(env *Env) *cobra.Command {
	var (
		wavRoot      string
		fallbackRoot string
		output       string
	)

	cmd := &cobra.Command{
		Use:   "index <plan.tsv>",
		Short: "Resolve a plan's source wav paths to real locations",
		Long: `Collect the unique source wav paths of a cut plan, locate each under
the search roots, and write an OriginalPath,RealPath CSV index. Paths
that cannot be located map to "-".`,
		Example: `  eafprep index plan.tsv -r /corpora/wav -o index.csv
  eafprep index plan.tsv -r /a --fallback-root /b -o index.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(env, args[0], wavRoot, fallbackRoot, output)
		},
	}

	cmd.Flags().StringVarP(&wavRoot, "wav-root", "r", "", "Primary root directory for source wav files")
	_ = cmd.MarkFlagRequired("wav-root")
	cmd.Flags().StringVar(&fallbackRoot, "fallback-root", "", "Fallback root directory (default: wav-root)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Index output file (default: stdout)")

	return cmd
}

// runIndex builds and writes the real-path index.
func runIndex(env *Env, planPath, wavRoot, fallbackRoot, output string) error {
	if err := requireFile(planPath); err != nil {
		return err
	}
	if err := requireDir(wavRoot); err != nil {
		return err
	}
	if fallbackRoot == "" {
		fallbackRoot = wavRoot
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

	index := media.BuildIndex(entries, media.Resolver{Root: wavRoot, FallbackRoot: fallbackRoot})

	w := env.Stdout
	if output != "" {
		out, err := os.Create(output) // #nosec G304 -- operator-chosen output path
		if err != nil {
			return fmt.Errorf("cannot create index file: %w", err)
		}
		defer func() { _ = out.Close() }()
		w = out
	}

	return media.WriteIndex(w, index)
}
