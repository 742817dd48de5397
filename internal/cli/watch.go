package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dejo1307/a11yaudit/internal/renderers/summary"
	"github.com/dejo1307/a11yaudit/internal/watch"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "watch [root]",
		Short: "Re-run the audit whenever source files change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup()
			if err != nil {
				return fatal(err)
			}
			defer logger.Sync() //nolint:errcheck
			if cmd.Flags().Changed("output") {
				cfg.Output.Dir = output
			}

			root := cfg.Root
			if len(args) == 1 {
				root = args[0]
			}

			eng, err := buildEngine(cfg, logger)
			if err != nil {
				return fatal(err)
			}

			audit := func(ctx context.Context) error {
				rep, err := eng.Run(ctx, root)
				if rep == nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), summary.Line(rep))
				if err := eng.WriteArtifacts(cfg.Output.Dir); err != nil {
					logger.Error("writing artifacts", zap.Error(err))
				}
				return nil
			}

			// The first run validates the root.
			if err := audit(cmd.Context()); err != nil {
				return fatal(err)
			}

			w, err := watch.New(root, cfg.Extensions, []string{cfg.Output.Dir}, logger)
			if err != nil {
				return fatal(err)
			}
			defer w.Close()

			logger.Info("watching for changes", zap.String("root", root))
			return fatal(w.Run(cmd.Context(), func(ctx context.Context) {
				if err := audit(ctx); err != nil {
					logger.Error("audit failed", zap.Error(err))
				}
			}))
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "Directory for report artifacts (default from config)")
	return cmd
}
