package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dejo1307/a11yaudit/internal/contrast"
)

func newContrastCmd() *cobra.Command {
	var style contrast.TextStyle

	cmd := &cobra.Command{
		Use:   "contrast FOREGROUND BACKGROUND",
		Short: "Check the contrast ratio of one color pair",
		Example: `  a11yaudit contrast "#767676" "#ffffff"
  a11yaudit contrast "rgb(128,128,128)" "#fff" --size 18`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair := contrast.ColorPair{Foreground: args[0], Background: args[1]}
			text, res, err := contrast.Describe(pair, style)
			if err != nil {
				return fatal(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			if !res.Passes {
				return &ExitError{Code: ExitIssues}
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&style.SizePt, "size", 0, "Font size in points")
	cmd.Flags().BoolVar(&style.Bold, "bold", false, "Text is bold")
	return cmd
}
