package cmd

import (
	"github.com/neosplus/neosplus-launcher/internal/config"
	"github.com/neosplus/neosplus-launcher/internal/launcher"
	"github.com/neosplus/neosplus-launcher/internal/logging"
	"github.com/neosplus/neosplus-launcher/internal/process"
	"github.com/spf13/cobra"
)

var (
	launchSteam bool
	launchArgs  string
)

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Start Neos with NeosPlus loaded",
	Long:  "Start neos.exe with -LoadAssembly pointing at NeosPlus.dll, or go through Steam with --steam. Extra arguments are remembered for the next launch.",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := store()

		extra := launchArgs
		if !cmd.Flags().Changed("args") {
			extra = storedArguments(s)
		}

		l := &launcher.Launcher{
			Resolver: installResolver(s),
			Starter:  process.Starter{},
			Config:   s,
			Board:    newBoard(),
		}
		return outcomeErr(l.Launch(launcher.Request{SteamRun: launchSteam, ExtraArgs: extra}))
	},
}

// storedArguments returns the remembered launcher arguments, or "" when the
// config cannot be read.
func storedArguments(s *config.FileStore) string {
	cfg, err := s.Load()
	if err != nil {
		logging.Warnf("%v\n", err)
		return ""
	}
	return cfg.LauncherArguments
}

func init() {
	launchCmd.Flags().BoolVar(&launchSteam, "steam", false, "Launch through Steam (xdg-open steam://run)")
	launchCmd.Flags().StringVar(&launchArgs, "args", "", "Extra Neos arguments (default: the arguments used last time)")
	rootCmd.AddCommand(launchCmd)
}
