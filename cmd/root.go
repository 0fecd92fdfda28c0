package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/neosplus/neosplus-launcher/internal/config"
	"github.com/neosplus/neosplus-launcher/internal/installer"
	"github.com/neosplus/neosplus-launcher/internal/logging"
	"github.com/neosplus/neosplus-launcher/internal/neospath"
	"github.com/neosplus/neosplus-launcher/internal/status"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:           "neosplus-launcher",
	Short:         "Install and launch NeosPlus for NeosVR",
	Long:          "Find a NeosVR installation, install the NeosPlus mod into Libraries/NeosPlus, and launch Neos with NeosPlus loaded.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.SetVerbose(verbose)
		if err := logging.SetOutputFile(logFile); err != nil {
			return fmt.Errorf("opening log file %q: %w", logFile, err)
		}
		logging.Debugf("Verbose: config=%q\n", store().Path)
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	closeErr := logging.Close()
	if closeErr != nil {
		fmt.Fprintf(os.Stderr, "Error closing log file: %v\n", closeErr)
		if err == nil {
			os.Exit(1)
		}
	}
	if err != nil {
		var oe *outcomeError
		if !errors.As(err, &oe) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		if isUsageError(err) {
			if cmd, _, findErr := rootCmd.Find(os.Args[1:]); findErr == nil && cmd != nil {
				_ = cmd.Usage()
			} else {
				_ = rootCmd.Usage()
			}
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return wrapUsageError(err)
	})

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/neosplus-launcher/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write command output to a log file")
}

func store() *config.FileStore {
	return config.NewFileStore(configPath)
}

// installResolver re-reads the stored custom directory on every call so each
// operation sees the current config.
func installResolver(s *config.FileStore) installer.ResolverFunc {
	return func() []string {
		custom := ""
		cfg, err := s.Load()
		if err != nil {
			logging.Warnf("%v\n", err)
		} else {
			custom = cfg.CustomInstallDir
		}
		r := &neospath.Resolver{CustomDir: custom}
		return r.Resolve()
	}
}

// newBoard returns a status board that prints each new status line.
func newBoard() *status.Board {
	board := status.NewBoard()
	last := ""
	board.Subscribe(func(s status.Snapshot) {
		if s.Text == "" || s.Text == last {
			return
		}
		last = s.Text
		logging.Infoln(s.Text)
	})
	return board
}

// outcomeError carries a failed outcome whose message is already printed.
type outcomeError struct {
	outcome status.Outcome
}

func (e *outcomeError) Error() string {
	return e.outcome.Message
}

func outcomeErr(o status.Outcome) error {
	switch o.Kind {
	case status.Failed, status.NotFound:
		return &outcomeError{outcome: o}
	default:
		return nil
	}
}

type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

func wrapUsageError(err error) error {
	if err == nil {
		return nil
	}
	return &usageError{err: err}
}

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if validate == nil {
			return nil
		}
		if err := validate(cmd, args); err != nil {
			return wrapUsageError(err)
		}
		return nil
	}
}

func isUsageError(err error) bool {
	var ue *usageError
	if errors.As(err, &ue) {
		return true
	}

	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command ")
}
