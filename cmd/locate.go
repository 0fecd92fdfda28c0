package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "List detected Neos installations",
	Long:  "Print every candidate Neos installation directory in detection order. The first one is used by install and launch.",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := installResolver(store()).Resolve()
		if len(paths) == 0 {
			return fmt.Errorf("no Neos installation found; use 'config set-dir' or 'install --dir'")
		}
		out := cmd.OutOrStdout()
		for i, p := range paths {
			marker := " "
			if i == 0 {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s\n", marker, p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(locateCmd)
}
