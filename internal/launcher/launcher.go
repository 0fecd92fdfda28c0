// Package launcher starts Neos with the NeosPlus assembly loaded.
package launcher

import (
	"fmt"
	"strings"

	"github.com/neosplus/neosplus-launcher/internal/config"
	"github.com/neosplus/neosplus-launcher/internal/logging"
	"github.com/neosplus/neosplus-launcher/internal/status"
)

const (
	MsgNoDirFound = "No Neos directory found."
	MsgDone       = "Done"
)

type PathResolver interface {
	Resolve() []string
}

// ProcessStarter starts a process without waiting for it.
type ProcessStarter interface {
	Start(executable, args, dir string) error
}

type ConfigStore interface {
	Load() (*config.Config, error)
	Save(*config.Config) error
}

// Request carries the user's launch choices.
type Request struct {
	SteamRun  bool
	ExtraArgs string
}

type Launcher struct {
	Resolver PathResolver
	Starter  ProcessStarter
	Config   ConfigStore
	Board    *status.Board
}

// Launch resolves the installation, starts Neos and remembers the extra
// arguments once the process has started.
func (l *Launcher) Launch(req Request) status.Outcome {
	board := l.Board
	if board == nil {
		board = status.NewBoard()
	}
	board.SetSteamRunEnabled(req.SteamRun)

	paths := l.Resolver.Resolve()
	if len(paths) == 0 {
		board.SetText(MsgNoDirFound)
		return status.Missing(MsgNoDirFound)
	}

	cmd := Compose(paths[0], req.SteamRun, req.ExtraArgs)
	logging.Debugf("Verbose: launch exe=%q args=%q dir=%q\n", cmd.Executable, cmd.Args, cmd.Dir)

	if err := l.Starter.Start(cmd.Executable, cmd.Args, cmd.Dir); err != nil {
		msg := fmt.Sprintf("Failed to launch NeosVR: %v", err)
		logging.Warnf("%s\n", msg)
		board.SetText(msg)
		return status.Failure(msg)
	}

	if err := l.rememberArguments(strings.TrimSpace(req.ExtraArgs)); err != nil {
		msg := fmt.Sprintf("NeosVR started, but saving launcher arguments failed: %v", err)
		logging.Warnf("%s\n", msg)
		board.SetText(msg)
		return status.Failure(msg)
	}

	board.SetText(MsgDone)
	return status.Success(MsgDone)
}

func (l *Launcher) rememberArguments(args string) error {
	cfg, err := l.Config.Load()
	if err != nil {
		return err
	}
	cfg.LauncherArguments = args
	return l.Config.Save(cfg)
}
