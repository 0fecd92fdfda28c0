// Package installer downloads the NeosPlus package into a Neos installation.
package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/neosplus/neosplus-launcher/internal/config"
	"github.com/neosplus/neosplus-launcher/internal/logging"
	"github.com/neosplus/neosplus-launcher/internal/neospath"
	"github.com/neosplus/neosplus-launcher/internal/status"
)

// Status texts shown while installing.
const (
	MsgChecking      = "Checking for updates..."
	MsgNoDirSelected = "No Neos directory selected."
	MsgDownloading   = "Downloading NeosPlus..."
	MsgDone          = "Done"
	MsgBusy          = "An install is already running."
)

// DownloadResult is the outcome of one fetch-and-install attempt.
type DownloadResult struct {
	Success bool
	Message string
}

// PathResolver lists candidate installation directories, best first.
type PathResolver interface {
	Resolve() []string
}

// ResolverFunc adapts a function to PathResolver.
type ResolverFunc func() []string

func (f ResolverFunc) Resolve() []string { return f() }

// FolderPicker asks the user for an installation directory. ok is false when
// the user cancels.
type FolderPicker interface {
	Prompt(initial string) (dir string, ok bool, err error)
}

// Fetcher downloads the package and unpacks it into targetDir.
type Fetcher interface {
	FetchAndInstall(ctx context.Context, installPath, targetDir string) DownloadResult
}

// ConfigStore loads and saves the persisted launcher configuration.
type ConfigStore interface {
	Load() (*config.Config, error)
	Save(*config.Config) error
}

// Orchestrator runs the install workflow: resolve the installation, ask the
// user when nothing is found, fetch the package, report the result.
type Orchestrator struct {
	Resolver PathResolver
	Picker   FolderPicker
	Fetcher  Fetcher
	Config   ConfigStore
	Board    *status.Board

	// InstallDir skips detection and is treated as a user-supplied directory.
	InstallDir string

	running atomic.Bool
}

// Install runs the workflow once. While it runs the board's install flag is
// off; it is switched back on however the workflow ends. A second call made
// while one is in flight fails without side effects. A panic in a
// collaborator is reported like any other install error.
func (o *Orchestrator) Install(ctx context.Context) (out status.Outcome) {
	if !o.running.CompareAndSwap(false, true) {
		return status.Failure(MsgBusy)
	}
	o.board().SetInstallEnabled(false)
	defer func() {
		if r := recover(); r != nil {
			out = o.fail(fmt.Errorf("%v", r))
		}
		o.board().SetInstallEnabled(true)
		o.running.Store(false)
	}()

	out, err := o.install(ctx)
	if err != nil {
		return o.fail(err)
	}
	return out
}

func (o *Orchestrator) fail(err error) status.Outcome {
	msg := fmt.Sprintf("Failed to execute install: %v", err)
	logging.Warnf("%s\n", msg)
	o.report(msg)
	return status.Failure(msg)
}

func (o *Orchestrator) install(ctx context.Context) (status.Outcome, error) {
	o.report(MsgChecking)

	installPath, userSupplied, err := o.chooseInstallPath()
	if err != nil {
		return status.Outcome{}, err
	}
	if installPath == "" {
		o.report(MsgNoDirSelected)
		return status.Cancel(MsgNoDirSelected), nil
	}
	logging.Debugf("Verbose: install path=%q user-supplied=%t\n", installPath, userSupplied)

	if userSupplied {
		if err := o.rememberInstallDir(installPath); err != nil {
			return status.Outcome{}, err
		}
	}

	targetDir := neospath.ModDir(installPath)
	o.report(MsgDownloading)
	res := o.Fetcher.FetchAndInstall(ctx, installPath, targetDir)
	o.report(res.Message)
	if !res.Success {
		return status.Failure(res.Message), nil
	}

	o.report(MsgDone)
	return status.Success(MsgDone), nil
}

// chooseInstallPath returns the directory to install into. An empty path
// with a nil error means the user cancelled.
func (o *Orchestrator) chooseInstallPath() (string, bool, error) {
	if dir := strings.TrimSpace(o.InstallDir); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", false, err
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			return "", false, fmt.Errorf("not a directory: %s", abs)
		}
		return abs, true, nil
	}

	if paths := o.Resolver.Resolve(); len(paths) > 0 {
		return paths[0], false, nil
	}

	if o.Picker == nil {
		return "", false, nil
	}
	dir, ok, err := o.Picker.Prompt(".")
	if err != nil {
		return "", false, fmt.Errorf("selecting directory: %w", err)
	}
	dir = strings.TrimSpace(dir)
	if !ok || dir == "" {
		return "", false, nil
	}
	return dir, true, nil
}

func (o *Orchestrator) rememberInstallDir(dir string) error {
	cfg, err := o.Config.Load()
	if err != nil {
		return err
	}
	cfg.CustomInstallDir = dir
	if err := o.Config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	logging.Debugf("Verbose: saved custom install dir=%q\n", dir)
	return nil
}

func (o *Orchestrator) report(msg string) {
	if msg == "" {
		return
	}
	o.board().SetText(msg)
}

func (o *Orchestrator) board() *status.Board {
	if o.Board == nil {
		o.Board = status.NewBoard()
	}
	return o.Board
}
