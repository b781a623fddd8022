package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liepalab/eafprep/internal/export"
	"github.com/liepalab/eafprep/internal/pipeline"
)

// ParseCmd creates the parse command: one .eaf file in, cut plan out.
func ParseCmd(env *Env) *cobra.Command {
	var eafPath string
	var flags groupingFlags

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse one annotation file into a cut plan",
		Long: `Parse a single .eaf annotation file, merge its segments into
bounded-duration chunks, and print the resulting cut plan to stdout.

Each plan row is a tab-separated cut instruction:
input-wav, output-clip, start-ms, end-ms, length-ms, text-len, text.`,
		Example: `  eafprep parse -e session01/rec.eaf
  eafprep parse -e rec.eaf --max-gap-ms 500 > plan.tsv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(env, eafPath, flags)
		},
	}

	cmd.Flags().StringVarP(&eafPath, "eaf-path", "e", "", "Path to the .eaf annotation file")
	_ = cmd.MarkFlagRequired("eaf-path")
	flags.register(cmd)

	return cmd
}

// runParse processes one document and prints its plan.
func runParse(env *Env, eafPath string, flags groupingFlags) error {
	if err := requireFile(eafPath); err != nil {
		return err
	}

	res, err := pipeline.Process(eafPath, flags.options())
	if err != nil {
		return err
	}

	if len(res.Rows) > 0 {
		fmt.Fprintln(env.Stdout, export.FormatPlan(res.Rows))
	}
	return nil
}
