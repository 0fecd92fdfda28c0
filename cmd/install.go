package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/neosplus/neosplus-launcher/internal/github"
	"github.com/neosplus/neosplus-launcher/internal/installer"
	"github.com/spf13/cobra"
)

var (
	installDir      string
	installRelease  string
	installRepo     string
	installToken    string
	installNoPrompt bool
	installNoBar    bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Download NeosPlus into the Neos installation",
	Long:  "Detect the Neos installation (or ask for it), download the NeosPlus release package and unpack it into Libraries/NeosPlus.",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := store()

		o := &installer.Orchestrator{
			Resolver:   installResolver(s),
			Fetcher:    newReleaseFetcher(installRepo, installRelease, installToken, !installNoBar),
			Config:     s,
			Board:      newBoard(),
			InstallDir: strings.TrimSpace(installDir),
		}
		if !installNoPrompt {
			o.Picker = &installer.PromptPicker{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
		}

		return outcomeErr(o.Install(context.Background()))
	},
}

func newReleaseFetcher(repo, tag, token string, progress bool) *installer.ReleaseFetcher {
	if strings.TrimSpace(token) == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	f := &installer.ReleaseFetcher{
		Repo:  strings.TrimSpace(repo),
		Tag:   strings.TrimSpace(tag),
		Token: strings.TrimSpace(token),
	}
	if progress {
		f.Progress = os.Stderr
	}
	return f
}

func init() {
	installCmd.Flags().StringVar(&installDir, "dir", "", "Neos installation directory (skips detection and is remembered)")
	installCmd.Flags().StringVar(&installRelease, "release", "", "Release tag to install (default: newest stable release)")
	installCmd.Flags().StringVar(&installRepo, "repo", github.DefaultRepo, "GitHub repository publishing NeosPlus releases")
	installCmd.Flags().StringVar(&installToken, "github-token", "", "GitHub token for API requests (default: $GITHUB_TOKEN)")
	installCmd.Flags().BoolVar(&installNoPrompt, "no-prompt", false, "Cancel instead of asking for a directory when none is detected")
	installCmd.Flags().BoolVar(&installNoBar, "no-progress", false, "Hide the download progress bar")
	rootCmd.AddCommand(installCmd)
}
