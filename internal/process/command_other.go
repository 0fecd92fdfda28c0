//go:build !windows

package process

import "os/exec"

func command(executable, args string) *exec.Cmd {
	return exec.Command(executable, SplitArgs(args)...)
}
