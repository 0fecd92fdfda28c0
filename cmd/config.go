package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change stored launcher settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored settings",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := store()
		cfg, err := s.Load()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Config file:        %s\n", s.Path)
		fmt.Fprintf(out, "Custom install dir: %s\n", valueOrNone(cfg.CustomInstallDir))
		fmt.Fprintf(out, "Launcher arguments: %s\n", valueOrNone(cfg.LauncherArguments))
		return nil
	},
}

var configSetDirCmd = &cobra.Command{
	Use:   "set-dir <dir>",
	Short: "Remember a custom Neos installation directory",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(strings.TrimSpace(args[0]))
		if err != nil {
			return err
		}
		info, err := os.Stat(dir)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("not a directory: %s", dir)
		}

		s := store()
		cfg, err := s.Load()
		if err != nil {
			return err
		}
		cfg.CustomInstallDir = dir
		if err := s.Save(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Custom install dir set to %s\n", dir)
		return nil
	},
}

var configClearDirCmd = &cobra.Command{
	Use:   "clear-dir",
	Short: "Forget the custom installation directory",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := store()
		cfg, err := s.Load()
		if err != nil {
			return err
		}
		cfg.CustomInstallDir = ""
		if err := s.Save(cfg); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Custom install dir cleared")
		return nil
	},
}

func valueOrNone(v string) string {
	if v == "" {
		return "(none)"
	}
	return v
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetDirCmd, configClearDirCmd)
	rootCmd.AddCommand(configCmd)
}
