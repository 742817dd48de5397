package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dejo1307/a11yaudit/internal/config"
	"github.com/dejo1307/a11yaudit/internal/server"
)

// Exit codes returned by the process.
const (
	ExitOK     = 0
	ExitIssues = 1
	ExitFatal  = 2
)

// ExitError carries a process exit code. A nil Err means nothing needs printing.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps an Execute error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitFatal
}

// Execute builds the root command tree and runs the CLI. SIGINT and SIGTERM
// cancel the running command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "a11yaudit",
		Short:         "Static accessibility audit for React and React Native sources",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       server.Version,
	}
	rootCmd.SetVersionTemplate("a11yaudit version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", config.DefaultPath, "Path to a11yaudit.yaml (optional)")
	rootCmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		newScanCmd(opts),
		newWatchCmd(opts),
		newServeCmd(opts),
		newContrastCmd(),
	)
	return rootCmd
}
