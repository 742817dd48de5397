package cli

import (
	"github.com/spf13/cobra"

	"github.com/dejo1307/a11yaudit/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve audit tools and reports over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup()
			if err != nil {
				return fatal(err)
			}
			defer logger.Sync() //nolint:errcheck

			eng, err := buildEngine(cfg, logger)
			if err != nil {
				return fatal(err)
			}
			srv, err := server.New(eng, cfg, logger)
			if err != nil {
				return fatal(err)
			}
			return fatal(srv.Run(cmd.Context()))
		},
	}
}
