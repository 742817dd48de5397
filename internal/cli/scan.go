package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dejo1307/a11yaudit/internal/config"
	"github.com/dejo1307/a11yaudit/internal/renderers/summary"
)

type scanFlags struct {
	output    string
	renderers []string
	workers   int
	noFail    bool
}

// apply copies explicitly set flags over the loaded config.
func (f *scanFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("output") {
		cfg.Output.Dir = f.output
	}
	if cmd.Flags().Changed("renderers") {
		cfg.Renderers = f.renderers
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = f.workers
	}
	if f.noFail {
		cfg.FailOnIssues = false
	}
}

func newScanCmd(opts *rootOptions) *cobra.Command {
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "Audit a source tree once and write the report artifacts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup()
			if err != nil {
				return fatal(err)
			}
			defer logger.Sync() //nolint:errcheck
			flags.apply(cmd, cfg)

			root := cfg.Root
			if len(args) == 1 {
				root = args[0]
			}

			eng, err := buildEngine(cfg, logger)
			if err != nil {
				return fatal(err)
			}

			rep, runErr := eng.Run(cmd.Context(), root)
			if rep == nil {
				return fatal(runErr)
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary.Line(rep))

			if err := eng.WriteArtifacts(cfg.Output.Dir); err != nil {
				return fatal(err)
			}
			logger.Info("artifacts written", zap.String("dir", cfg.Output.Dir))

			if runErr != nil {
				return fatal(fmt.Errorf("scan interrupted: %w", runErr))
			}
			if cfg.FailOnIssues && rep.Summary.TotalIssues > 0 {
				return &ExitError{Code: ExitIssues, Err: fmt.Errorf("%d accessibility issue(s) found", rep.Summary.TotalIssues)}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.output, "output", "", "Directory for report artifacts (default from config)")
	cmd.Flags().StringSliceVar(&flags.renderers, "renderers", nil, "Renderers to run (json,sarif,summary)")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Number of analysis workers (0 = one per CPU)")
	cmd.Flags().BoolVar(&flags.noFail, "no-fail", false, "Exit 0 even when issues are found")

	return cmd
}
