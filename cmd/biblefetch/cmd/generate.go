package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VeryOriginalIK/BibleFetch/internal/output"
	"github.com/VeryOriginalIK/BibleFetch/internal/pipeline"
	"github.com/VeryOriginalIK/BibleFetch/internal/watch"
)

// newGenerateCmd creates the generate command and its per-stage
// subcommands.
func newGenerateCmd() *cobra.Command {
	var (
		only     []string
		failFast bool
		parallel bool
		watching bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the static corpus tree",
		Long: `Generate runs the full pipeline: shard raw translations into chapter
chunks, build the word search indexes, the Strong's concordance, the
original-language index, and the chunked lexicons.

Stages run in dependency order. A failing translation is skipped and
recorded in report.json; --fail-fast aborts on the first failure
instead.`,
		Example: `  biblefetch generate
  biblefetch generate --only search,strongs
  biblefetch generate --watch
  biblefetch generate lexicon`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.Context(), only, failFast, parallel, watching)
		},
	}

	cmd.Flags().StringSliceVar(&only, "only", nil,
		"Run only the named stages ("+strings.Join(pipeline.Stages(), ", ")+")")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false,
		"Abort the run on the first translation failure")
	cmd.Flags().BoolVar(&parallel, "parallel", false,
		"Process translations concurrently within a stage")
	cmd.Flags().BoolVar(&watching, "watch", false,
		"Keep running and regenerate when source files change")

	for _, stage := range pipeline.Stages() {
		cmd.AddCommand(newStageCmd(stage))
	}

	return cmd
}

// newStageCmd creates a subcommand running exactly one stage.
func newStageCmd(stage string) *cobra.Command {
	var failFast bool

	cmd := &cobra.Command{
		Use:   stage,
		Short: fmt.Sprintf("Run only the %s stage", stage),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.Context(), []string{stage}, failFast, false, false)
		},
	}
	cmd.Flags().BoolVar(&failFast, "fail-fast", false,
		"Abort the run on the first translation failure")
	return cmd
}

func runGenerate(ctx context.Context, stages []string, failFast, parallel, watching bool) error {
	cfg, log, cleanup, err := loadConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	if failFast {
		cfg.Pipeline.FailFast = true
	}
	if parallel {
		cfg.Performance.Parallel = true
	}

	out := output.New(os.Stdout)
	runner := pipeline.New(cfg, log, out)

	if err := runner.Run(ctx, stages); err != nil {
		return err
	}
	if !watching {
		return nil
	}

	w, err := watch.New(0, log)
	if err != nil {
		return err
	}
	defer w.Close()

	out.Status("watching for source changes, interrupt to stop")
	// The lexicons directory is watched non-recursively, so the chunk
	// files written into its subdirectories never retrigger a run.
	dirs := []string{cfg.TextsDir(), filepath.Dir(cfg.HebrewLexicon())}
	err = w.Run(ctx, dirs, func(changed []string) error {
		return runner.Run(ctx, stages)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
