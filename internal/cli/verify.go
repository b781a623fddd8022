package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/liepalab/eafprep/internal/export"
	"github.com/liepalab/eafprep/internal/verify"
)

// VerifyCmd creates the verify command: transcribe emitted clips and
// report word error rate against their metadata text.
func VerifyCmd(env *Env) *cobra.Command {
	var (
		clipsDir string
		parallel int
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "verify <metadata.csv>",
		Short: "Spot-check emitted clips against their transcriptions",
		Long: `Transcribe emitted clips through the OpenAI speech-to-text API and
compare each result against the clip's reference text by word error rate.

Requires OPENAI_API_KEY. Use --limit to check a sample instead of the
whole set; API transcription of a full corpus is slow and costly.`,
		Example: `  eafprep verify clips/metadata.csv --clips-dir clips/mp3 --limit 50
  eafprep verify clips/metadata.csv --clips-dir clips/mp3 -p 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, env, args[0], clipsDir, parallel, limit)
		},
	}

	cmd.Flags().StringVar(&clipsDir, "clips-dir", "", "Directory holding the clips (default: metadata file's directory)")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", verify.MaxRecommendedParallel, "Max concurrent API requests (1-10)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Verify at most this many clips (0 = all)")

	return cmd
}

// runVerify executes the verification run and prints the report.
func runVerify(cmd *cobra.Command, env *Env, metaPath, clipsDir string, parallel, limit int) error {
	if err := requireFile(metaPath); err != nil {
		return err
	}
	if clipsDir == "" {
		clipsDir = filepath.Dir(metaPath)
	}

	apiKey := env.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return verify.ErrAPIKeyMissing
	}
	transcriber, err := env.NewTranscriber(apiKey)
	if err != nil {
		return err
	}

	f, err := os.Open(metaPath) // #nosec G304 -- operator-supplied metadata
	if err != nil {
		return fmt.Errorf("open metadata: %w", err)
	}
	entries, err := export.ReadMetadata(f)
	_ = f.Close()
	if err != nil {
		return err
	}

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	clips := make([]verify.Clip, 0, len(entries))
	for _, e := range entries {
		clips = append(clips, verify.Clip{
			Path: filepath.Join(clipsDir, e.Clip),
			Text: e.Text,
		})
	}

	report, err := verify.Run(cmd.Context(), transcriber, clips, parallel)
	if err != nil {
		return err
	}

	for _, r := range report.Results {
		fmt.Fprintf(env.Stdout, "%s\tWER %.3f\n", filepath.Base(r.Clip.Path), r.WER)
	}
	fmt.Fprintf(env.Stdout, "Mean WER over %d clips: %.3f\n", len(report.Results), report.Mean)
	return nil
}
