//go:build windows

package process

import (
	"os/exec"
	"syscall"
)

// command hands the argument string to CreateProcess unchanged so the child
// parses exactly what was composed.
func command(executable, args string) *exec.Cmd {
	cmd := exec.Command(executable)
	cmdLine := syscall.EscapeArg(executable)
	if args != "" {
		cmdLine += " " + args
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: cmdLine}
	return cmd
}
